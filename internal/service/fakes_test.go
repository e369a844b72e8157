package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"maintenance_dashboard/internal/backend"
	"maintenance_dashboard/internal/models"
)

type postCall struct {
	path string
	body any
}

// fakeAPI is an in-memory backend.API. gate, when set, runs before every
// call and can block or fail it.
type fakeAPI struct {
	mu    sync.Mutex
	gets  []string
	posts []postCall

	gate   func(ctx context.Context, path string) error
	errs   map[string]error
	postFn func(ctx context.Context, path string, body any) (models.ActionReply, error)

	stats        models.Estadisticas
	resumen      models.ResumenGeneral
	equipos      models.Listing[models.Equipo]
	mants        models.Listing[models.Mantenimiento]
	recursos     models.Listing[models.Recurso]
	eventos      models.Listing[models.Evento]
	criticos     models.EquiposCriticos
	webTop       models.ConocimientoWeb
	predicciones models.PrediccionesIA
	conocimiento models.Listing[models.Conocimiento]
	metricas     models.MetricasML
	recs         models.Listing[models.Recomendacion]
}

var _ backend.API = (*fakeAPI)(nil)

func (f *fakeAPI) call(ctx context.Context, path string) error {
	f.mu.Lock()
	f.gets = append(f.gets, path)
	gate := f.gate
	err := f.errs[path]
	f.mu.Unlock()
	if gate != nil {
		if gerr := gate(ctx, path); gerr != nil {
			return gerr
		}
	}
	return err
}

func (f *fakeAPI) getPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.gets...)
	sort.Strings(out)
	return out
}

func (f *fakeAPI) postCalls() []postCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]postCall(nil), f.posts...)
}

func (f *fakeAPI) Estadisticas(ctx context.Context) (models.Estadisticas, error) {
	return f.stats, f.call(ctx, backend.PathEstadisticas)
}

func (f *fakeAPI) ResumenGeneral(ctx context.Context) (models.ResumenGeneral, error) {
	return f.resumen, f.call(ctx, backend.PathResumenGeneral)
}

func (f *fakeAPI) Equipos(ctx context.Context) (models.Listing[models.Equipo], error) {
	return f.equipos, f.call(ctx, backend.PathEquipos)
}

func (f *fakeAPI) Mantenimientos(ctx context.Context) (models.Listing[models.Mantenimiento], error) {
	return f.mants, f.call(ctx, backend.PathMantenimientos)
}

func (f *fakeAPI) Recursos(ctx context.Context) (models.Listing[models.Recurso], error) {
	return f.recursos, f.call(ctx, backend.PathRecursos)
}

func (f *fakeAPI) Eventos(ctx context.Context) (models.Listing[models.Evento], error) {
	return f.eventos, f.call(ctx, backend.PathEventos)
}

func (f *fakeAPI) EquiposCriticos(ctx context.Context) (models.EquiposCriticos, error) {
	return f.criticos, f.call(ctx, backend.PathEquiposCriticos)
}

func (f *fakeAPI) ConocimientoWeb(ctx context.Context) (models.ConocimientoWeb, error) {
	return f.webTop, f.call(ctx, backend.PathConocimientoWeb)
}

func (f *fakeAPI) PrediccionesIA(ctx context.Context) (models.PrediccionesIA, error) {
	return f.predicciones, f.call(ctx, backend.PathPrediccionesIA)
}

func (f *fakeAPI) Conocimiento(ctx context.Context) (models.Listing[models.Conocimiento], error) {
	return f.conocimiento, f.call(ctx, backend.PathConocimiento)
}

func (f *fakeAPI) MetricasML(ctx context.Context) (models.MetricasML, error) {
	return f.metricas, f.call(ctx, backend.PathMetricasML)
}

func (f *fakeAPI) Recomendaciones(ctx context.Context) (models.Listing[models.Recomendacion], error) {
	return f.recs, f.call(ctx, backend.PathRecomendaciones)
}

func (f *fakeAPI) Post(ctx context.Context, path string, body any) (models.ActionReply, error) {
	f.mu.Lock()
	f.posts = append(f.posts, postCall{path: path, body: body})
	fn := f.postFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, path, body)
	}
	return models.ActionReply{}, nil
}

// memSessions is an in-memory repository.Sessions.
type memSessions struct {
	mu      sync.Mutex
	states  map[string]models.ViewState
	loadErr error
}

func newMemSessions() *memSessions {
	return &memSessions{states: make(map[string]models.ViewState)}
}

func (m *memSessions) Advance(_ context.Context, sessionID string, tab models.Tab, at time.Time) (models.ViewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.states[sessionID]
	st.SessionID = sessionID
	st.Active = tab
	st.Generation++
	st.UpdatedAt = at
	m.states[sessionID] = st
	return st, nil
}

func (m *memSessions) Load(_ context.Context, sessionID string) (models.ViewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return models.ViewState{}, m.loadErr
	}
	return m.states[sessionID], nil
}

// recordingConfirmer remembers the prompts it was asked.
type recordingConfirmer struct {
	answer  bool
	prompts []string
}

func (r *recordingConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	r.prompts = append(r.prompts, prompt)
	return r.answer, nil
}

func transportErr(path string) error {
	return fmt.Errorf("%w: GET %s: connection refused", backend.ErrTransport, path)
}
