package render

import (
	"fmt"
	"strconv"

	"maintenance_dashboard/internal/models"

	"gonum.org/v1/gonum/stat"
)

// Data is the fetched input of one tab.
type Data interface {
	Tab() models.Tab
	Model() ViewModel
}

var (
	_ Data = DashboardData{}
	_ Data = DatabaseData{}
	_ Data = EquiposData{}
	_ Data = IAData{}
	_ Data = AnalyticsData{}
	_ Data = RecomendacionesData{}
	_ Data = ScrapingData{}
)

// GenerationSizes are the quantities offered for synthetic data.
var GenerationSizes = []int{10, 50, 100}

type DashboardData struct {
	Stats   models.Estadisticas
	Resumen models.ResumenGeneral
}

func (DashboardData) Tab() models.Tab { return models.TabDashboard }

func (d DashboardData) Model() ViewModel {
	var (
		eq  models.EquiposResumen
		mt  models.MantenimientosResumen
		ev  models.EventosResumen
		rec models.RecursosResumen
		ia  models.IAResumen
	)
	if d.Resumen.Equipos != nil {
		eq = *d.Resumen.Equipos
	}
	if d.Resumen.Mantenimientos != nil {
		mt = *d.Resumen.Mantenimientos
	}
	if d.Resumen.Eventos != nil {
		ev = *d.Resumen.Eventos
	}
	if d.Resumen.Recursos != nil {
		rec = *d.Resumen.Recursos
	}
	if d.Resumen.IA != nil {
		ia = *d.Resumen.IA
	}

	return ViewModel{
		Tab:     models.TabDashboard,
		Heading: "Resumen General",
		Cards: []Card{
			{Title: "Equipos Totales", Value: num(eq.Total), Subtitle: num(eq.Criticos) + " críticos"},
			{Title: "Mantenimientos", Value: num(mt.Total), Subtitle: num(mt.Pendientes) + " pendientes"},
			{Title: "Precisión IA", Value: percent(ia.PrecisionPromedio), Subtitle: num(ia.Aprendizajes) + " aprendizajes"},
			{Title: "Conocimiento Web", Value: num(ia.ConocimientoWeb), Subtitle: num(ia.Recomendaciones) + " recomendaciones"},
			{Title: "Eventos Abiertos", Value: num(ev.NoResueltos), Subtitle: num(ev.Criticos) + " críticos"},
			{Title: "Recursos", Value: num(rec.Total), Subtitle: num(rec.StockBajo) + " con stock bajo"},
			{Title: "Recomendaciones Nuevas", Value: num(d.Stats.Recomendaciones), Subtitle: num(d.Stats.Mantenimientos) + " mantenimientos registrados"},
		},
	}
}

type DatabaseData struct {
	Equipos        models.Listing[models.Equipo]
	Mantenimientos models.Listing[models.Mantenimiento]
	Recursos       models.Listing[models.Recurso]
	Eventos        models.Listing[models.Evento]
}

func (DatabaseData) Tab() models.Tab { return models.TabDatabase }

func (d DatabaseData) Model() ViewModel {
	equipos := newTable("Equipos", []string{"ID", "Nombre", "Empresa", "Categoría", "Estado", "Crítico"},
		d.Equipos.Items, d.Equipos.Total, TableCap, func(e models.Equipo) Row {
			return Row{Cells: []Cell{
				plain(text(e.ID)), plain(text(e.Nombre)), plain(text(e.EmpresaNombre)),
				plain(text(e.CategoryLabel())), badge(text(e.Estado), BadgeSuccess), plain(yesNo(e.EsCritico)),
			}}
		})
	mant := newTable("Mantenimientos", []string{"ID", "Equipo", "Tipo", "Prioridad", "Estado"},
		d.Mantenimientos.Items, d.Mantenimientos.Total, TableCap, func(m models.Mantenimiento) Row {
			p := m.Prioridad.Float()
			return Row{Cells: []Cell{
				plain(text(m.ID)), plain(text(m.Equipo)), plain(text(m.Tipo)),
				badge(num(m.Prioridad), PriorityBadge(p)), plain(text(m.Estado)),
			}}
		})
	recursos := newTable("Recursos", []string{"ID", "Tipo", "Nombre", "Stock", "Disponible"},
		d.Recursos.Items, d.Recursos.Total, TableCap, func(r models.Recurso) Row {
			stock := plain(num(r.Stock))
			if r.StockMinimo.Valid && r.Stock.Float() <= r.StockMinimo.Float() {
				stock.Badge = BadgeWarning
			}
			return Row{Cells: []Cell{
				plain(text(r.ID)), plain(text(r.Tipo)), plain(text(r.Nombre)), stock, plain(yesNo(r.Disponible)),
			}}
		})
	eventos := newTable("Eventos", []string{"ID", "Tipo", "Descripción", "Severidad"},
		d.Eventos.Items, d.Eventos.Total, TableCap, func(e models.Evento) Row {
			return Row{Cells: []Cell{
				plain(text(e.ID)), plain(text(e.Tipo)), plain(Truncate(e.Descripcion.String(), DescLimit)),
				badge(num(e.Severidad), SeverityBadge(e.Severidad.Float())),
			}}
		})

	prioridades := make([]float64, 0, len(d.Mantenimientos.Items))
	for _, m := range d.Mantenimientos.Items {
		prioridades = append(prioridades, m.Prioridad.Float())
	}
	severidades := make([]float64, 0, len(d.Eventos.Items))
	for _, e := range d.Eventos.Items {
		severidades = append(severidades, e.Severidad.Float())
	}

	return ViewModel{
		Tab:     models.TabDatabase,
		Heading: "Visor Completo de Base de Datos",
		Tables:  []Table{equipos, mant, recursos, eventos},
		Footer: []Stat{
			{Label: "Prioridad promedio", Value: fixed(mean(prioridades), 1)},
			{Label: "Severidad promedio", Value: fixed(mean(severidades), 1)},
		},
	}
}

// mean is stat.Mean with an empty input mapped to 0.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

type EquiposData struct {
	Equipos  models.Listing[models.Equipo]
	Criticos models.EquiposCriticos
}

func (EquiposData) Tab() models.Tab { return models.TabEquipos }

func (d EquiposData) Model() ViewModel {
	pending := make(map[string]models.EquipoCritico, len(d.Criticos.Equipos))
	for _, c := range d.Criticos.Equipos {
		pending[c.ID.String()] = c
	}

	critical := 0
	for _, e := range d.Equipos.Items {
		if e.EsCritico {
			critical++
		}
	}

	table := newTable("Equipos", []string{"ID", "Nombre", "Empresa", "Categoría", "Ubicación", "Instalación", "Estado", "Crítico", "Pendientes"},
		d.Equipos.Items, d.Equipos.Total, ListingCap, func(e models.Equipo) Row {
			pend := plain("0")
			if c, ok := pending[e.ID.String()]; ok && e.ID != "" {
				pend = badge(num(c.MantenimientosPendientes), PriorityBadge(c.PrioridadMaxima.Float()))
			}
			crit := plain(yesNo(e.EsCritico))
			if e.EsCritico {
				crit.Badge = BadgeError
			}
			return Row{Cells: []Cell{
				plain(text(e.ID)), plain(text(e.Nombre)), plain(text(e.EmpresaNombre)), plain(text(e.CategoryLabel())),
				plain(text(e.Ubicacion)), plain(text(e.FechaInstalacion)), plain(text(e.Estado)), crit, pend,
			}}
		})

	total := d.Equipos.Total
	if total < len(d.Equipos.Items) {
		total = len(d.Equipos.Items)
	}
	return ViewModel{
		Tab:     models.TabEquipos,
		Heading: "Inventario de Equipos",
		Cards: []Card{
			{Title: "Equipos", Value: strconv.Itoa(total), Subtitle: strconv.Itoa(critical) + " marcados como críticos"},
			{Title: "Críticos con Pendientes", Value: num(d.Criticos.Total), Subtitle: "mantenimientos sin cerrar"},
		},
		Tables: []Table{table},
	}
}

type IAData struct {
	Stats    models.Estadisticas
	Metricas models.MetricasML
}

func (IAData) Tab() models.Tab { return models.TabIA }

func (d IAData) Model() ViewModel {
	var (
		sis models.SistemaML
		est models.EstadisticasIA
	)
	if d.Metricas.Sistema != nil {
		sis = *d.Metricas.Sistema
	}
	if d.Metricas.Estadisticas != nil {
		est = *d.Metricas.Estadisticas
	}

	rust := Card{Title: "Rust Engine", Value: "OFF", Subtitle: "Aceleración de cálculos", Indicator: "off"}
	if est.RustHabilitado {
		rust.Value, rust.Indicator = "ON", "on"
	}

	actions := make([]Button, 0, len(GenerationSizes)+5)
	for _, n := range GenerationSizes {
		actions = append(actions, Button{
			Action: "generar_datos",
			Label:  fmt.Sprintf("Generar %d Datos", n),
			Fields: []Field{{Name: "cantidad", Value: strconv.Itoa(n)}},
		})
	}
	actions = append(actions,
		Button{Action: "generar_datos", Label: "Vista Previa (10)", Fields: []Field{{Name: "cantidad", Value: "10"}, {Name: "preview", Value: "true"}}},
		Button{Action: "entrenar", Label: "Entrenar IA"},
		Button{Action: "generar_recomendaciones", Label: "Generar Recomendaciones"},
		Button{Action: "reset_ia", Label: "Reset Conocimiento IA", Danger: true},
		Button{Action: "reset_database", Label: "Reset BD Completa", Danger: true},
	)

	return ViewModel{
		Tab:     models.TabIA,
		Heading: "Control de Sistema IA",
		Cards: []Card{
			rust,
			{Title: "Learning Rate", Value: fixed(sis.LearningRate.Float(), 3), Subtitle: "Velocidad de aprendizaje"},
			{Title: "Epsilon", Value: fixed(sis.Epsilon.Float(), 3), Subtitle: "Exploración vs Explotación"},
			{Title: "Estados IA", Value: num(est.TotalEstados), Subtitle: num(est.TotalAcciones) + " acciones"},
			{Title: "Precisión", Value: percent(d.Stats.Precision), Subtitle: num(d.Stats.Equipos) + " equipos observados"},
		},
		Actions: actions,
	}
}

type AnalyticsData struct {
	Criticos     models.EquiposCriticos
	Conocimiento models.ConocimientoWeb
	Predicciones models.PrediccionesIA
}

func (AnalyticsData) Tab() models.Tab { return models.TabAnalytics }

func (d AnalyticsData) Model() ViewModel {
	criticos := newTable("Equipos Críticos con Mantenimientos Pendientes", []string{"Equipo", "Empresa", "Pendientes", "Prioridad Máxima"},
		d.Criticos.Equipos, d.Criticos.Total.Int(), TableCap, func(c models.EquipoCritico) Row {
			return Row{Cells: []Cell{
				plain(text(c.Nombre)), plain(text(c.Empresa)),
				badge(num(c.MantenimientosPendientes), BadgeWarning),
				badge(fixed(c.PrioridadMaxima.Float(), 1), PriorityBadge(c.PrioridadMaxima.Float())),
			}}
		})
	criticos.Empty = "No hay equipos críticos"

	conocimiento := newTable("Conocimiento Web", []string{"Título", "Fuente", "Relevancia"},
		d.Conocimiento.TopConocimiento, d.Conocimiento.Total.Int(), TableCap, func(c models.ConocimientoTop) Row {
			return Row{Cells: []Cell{
				plain(Truncate(c.Titulo.String(), DescLimit)), plain(text(c.Fuente)), plain(fixed(c.Relevancia.Float(), 2)),
			}}
		})

	predicciones := newTable("Predicciones IA", []string{"Título", "Tipo", "Confianza", "Equipo", "Descripción"},
		d.Predicciones.Recomendaciones, d.Predicciones.TotalActivas.Int(), TableCap, func(p models.Prediccion) Row {
			return Row{Cells: []Cell{
				plain(text(p.Titulo)), plain(text(p.Tipo)), plain(percent(p.Confianza)),
				plain(text(p.EquipoID)), plain(Truncate(p.Descripcion.String(), DescLimit)),
			}}
		})

	return ViewModel{
		Tab:     models.TabAnalytics,
		Heading: "Analytics y Consultas",
		Tables:  []Table{criticos, conocimiento, predicciones},
	}
}

type RecomendacionesData struct {
	Recomendaciones models.Listing[models.Recomendacion]
}

func (RecomendacionesData) Tab() models.Tab { return models.TabRecomendaciones }

func (d RecomendacionesData) Model() ViewModel {
	table := newTable("Recomendaciones", []string{"Tipo", "Título", "Descripción", "Prioridad", "Confianza", "Acción Sugerida"},
		d.Recomendaciones.Items, d.Recomendaciones.Total, TableCap, func(r models.Recomendacion) Row {
			return Row{Cells: []Cell{
				plain(text(r.Tipo)), plain(text(r.Titulo)), plain(Truncate(r.Descripcion.String(), DescLimit)),
				plain(text(r.Prioridad)), plain(percent(r.Confianza)), plain(Truncate(r.AccionSugerida.String(), DescLimit)),
			}}
		})
	return ViewModel{
		Tab:     models.TabRecomendaciones,
		Heading: "Recomendaciones del Sistema",
		Actions: []Button{{Action: "generar_recomendaciones", Label: "Generar Recomendaciones"}},
		Tables:  []Table{table},
	}
}

type ScrapingData struct {
	Conocimiento models.Listing[models.Conocimiento]
}

func (ScrapingData) Tab() models.Tab { return models.TabScraping }

func (d ScrapingData) Model() ViewModel {
	actions := make([]Button, 0, len(models.Categorias)+2)
	for _, c := range models.Categorias {
		actions = append(actions, Button{
			Action: "aprender_web",
			Label:  "Aprender sobre " + c.Label,
			Fields: []Field{{Name: "categoria", Value: strconv.Itoa(c.ID)}},
		})
	}
	actions = append(actions, Button{
		Action: "aprender_web",
		Label:  "Aprender Todas las Categorías",
		Fields: []Field{{Name: "todas", Value: "true"}},
	}, Button{
		Action:      "aprender_web",
		Label:       "Aprender",
		Input:       "prompt",
		Placeholder: "Tema libre a investigar",
	})

	table := newTable("Base de Conocimiento", []string{"", "Título", "Fuente", "Resumen", "Fecha"},
		d.Conocimiento.Items, d.Conocimiento.Total, ListingCap, func(c models.Conocimiento) Row {
			return Row{
				Select: c.ID.String(),
				Cells: []Cell{
					plain(text(c.Titulo)), plain(text(c.Fuente)),
					plain(Truncate(c.Resumen.String(), SummaryLimit)), plain(text(c.Fecha)),
				},
			}
		})
	table.Submit = &Button{
		Action: "gestionar_conocimiento",
		Label:  "Eliminar seleccionados",
		Fields: []Field{{Name: "accion", Value: "eliminar"}},
		Danger: true,
	}

	total := d.Conocimiento.Total
	if total < len(d.Conocimiento.Items) {
		total = len(d.Conocimiento.Items)
	}
	return ViewModel{
		Tab:     models.TabScraping,
		Heading: "Web Learning - Scraping Inteligente",
		Cards: []Card{
			{Title: "Estado", Value: "Activo", Subtitle: "Sistema de aprendizaje web", Indicator: "on"},
			{Title: "Documentos", Value: strconv.Itoa(total), Subtitle: "en la base de conocimiento"},
		},
		Actions: actions,
		Tables:  []Table{table},
	}
}
