package service

import (
	"context"
	"fmt"

	"maintenance_dashboard/internal/backend"
	"maintenance_dashboard/internal/logger"
	"maintenance_dashboard/internal/models"
	"maintenance_dashboard/internal/render"

	"golang.org/x/sync/errgroup"
)

// fetcher issues every request of one tab concurrently and joins them.
// Any failed required request fails the whole load.
type fetcher func(ctx context.Context, api backend.API, log *logger.Logger) (render.Data, error)

var fetchers = map[models.Tab]fetcher{
	models.TabDashboard:       fetchDashboard,
	models.TabDatabase:        fetchDatabase,
	models.TabEquipos:         fetchEquipos,
	models.TabIA:              fetchIA,
	models.TabAnalytics:       fetchAnalytics,
	models.TabRecomendaciones: fetchRecomendaciones,
	models.TabScraping:        fetchScraping,
}

// Fetch loads the data of tab from the backend.
func Fetch(ctx context.Context, api backend.API, log *logger.Logger, tab models.Tab) (render.Data, error) {
	f, ok := fetchers[tab]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	return f(ctx, api, log)
}

func fetchDashboard(ctx context.Context, api backend.API, _ *logger.Logger) (render.Data, error) {
	var d render.DashboardData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { d.Stats, err = api.Estadisticas(ctx); return })
	g.Go(func() (err error) { d.Resumen, err = api.ResumenGeneral(ctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func fetchDatabase(ctx context.Context, api backend.API, _ *logger.Logger) (render.Data, error) {
	var d render.DatabaseData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { d.Equipos, err = api.Equipos(ctx); return })
	g.Go(func() (err error) { d.Mantenimientos, err = api.Mantenimientos(ctx); return })
	g.Go(func() (err error) { d.Recursos, err = api.Recursos(ctx); return })
	g.Go(func() (err error) { d.Eventos, err = api.Eventos(ctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func fetchEquipos(ctx context.Context, api backend.API, _ *logger.Logger) (render.Data, error) {
	var d render.EquiposData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { d.Equipos, err = api.Equipos(ctx); return })
	g.Go(func() (err error) { d.Criticos, err = api.EquiposCriticos(ctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// fetchIA treats metricas_ml as optional: the view renders its zero shape
// when the engine metrics are unavailable.
func fetchIA(ctx context.Context, api backend.API, log *logger.Logger) (render.Data, error) {
	var d render.IAData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { d.Stats, err = api.Estadisticas(ctx); return })
	g.Go(func() error {
		m, err := api.MetricasML(ctx)
		if err != nil {
			if log != nil && !backend.IsCanceled(err) {
				log.Warnw("metricas_ml_unavailable", "err", err)
			}
			return nil
		}
		d.Metricas = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func fetchAnalytics(ctx context.Context, api backend.API, _ *logger.Logger) (render.Data, error) {
	var d render.AnalyticsData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { d.Criticos, err = api.EquiposCriticos(ctx); return })
	g.Go(func() (err error) { d.Conocimiento, err = api.ConocimientoWeb(ctx); return })
	g.Go(func() (err error) { d.Predicciones, err = api.PrediccionesIA(ctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func fetchRecomendaciones(ctx context.Context, api backend.API, _ *logger.Logger) (render.Data, error) {
	l, err := api.Recomendaciones(ctx)
	if err != nil {
		return nil, err
	}
	return render.RecomendacionesData{Recomendaciones: l}, nil
}

func fetchScraping(ctx context.Context, api backend.API, _ *logger.Logger) (render.Data, error) {
	l, err := api.Conocimiento(ctx)
	if err != nil {
		return nil, err
	}
	return render.ScrapingData{Conocimiento: l}, nil
}
