package backend

// Endpoints of the maintenance backend. The paths are part of an external
// contract and must not change.
const (
	PathEstadisticas    = "/api/ia-dashboard/estadisticas/"
	PathResumenGeneral  = "/api/analytics/resumen_general/"
	PathEquipos         = "/api/equipos/"
	PathMantenimientos  = "/api/mantenimientos/"
	PathRecursos        = "/api/recursos/"
	PathEventos         = "/api/eventos/"
	PathEquiposCriticos = "/api/analytics/equipos_criticos/"
	PathConocimientoWeb = "/api/analytics/conocimiento_web/"
	PathPrediccionesIA  = "/api/analytics/predicciones_ia/"
	PathConocimiento    = "/api/analytics/conocimiento_list/"
	PathMetricasML      = "/api/analytics/metricas_ml/"
	PathRecomendaciones = "/api/v2/recomendaciones/"

	PathGenerarRecomendaciones = "/api/v2/recomendaciones/generar/"
	PathGenerarDatos           = "/api/sistema/generar_datos_prueba/"
	PathEntrenar               = "/api/sistema/entrenar/"
	PathResetIA                = "/api/sistema/reset_ia/"
	PathResetDatabase          = "/api/sistema/reset_database/"
	PathAprenderWeb            = "/api/sistema/aprender_web/"
	PathGestionarConocimiento  = "/api/sistema/gestionar_conocimiento/"
	PathNeuroEscan             = "/api/ot/neuro_escan/"
	PathTerminal               = "/api/terminal/"
)

// GenerarDatosRequest asks for synthetic records; Preview requests a dry run.
type GenerarDatosRequest struct {
	Cantidad int  `json:"cantidad"`
	Preview  bool `json:"preview,omitempty"`
}

// AprenderWebRequest carries either a category or a free prompt.
type AprenderWebRequest struct {
	Categoria int    `json:"categoria,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
}

// GestionarConocimientoRequest applies Accion to the knowledge items IDs.
type GestionarConocimientoRequest struct {
	Accion string `json:"accion"`
	IDs    []int  `json:"ids"`
}

type NeuroEscanRequest struct {
	Texto string `json:"texto"`
	Cat   int    `json:"cat"`
}

type TerminalRequest struct {
	Cmd string `json:"cmd"`
}
