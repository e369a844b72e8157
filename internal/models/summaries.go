package models

import "github.com/goccy/go-json"

// Estadisticas is the ia-dashboard statistics payload.
type Estadisticas struct {
	Equipos         Number `json:"equipos"`
	Mantenimientos  Number `json:"mantenimientos"`
	Precision       Number `json:"precision"`
	Recomendaciones Number `json:"recomendaciones"`
}

// ResumenGeneral is the analytics overview. Every section may be absent.
type ResumenGeneral struct {
	Equipos        *EquiposResumen        `json:"equipos"`
	Mantenimientos *MantenimientosResumen `json:"mantenimientos"`
	Recursos       *RecursosResumen       `json:"recursos"`
	Eventos        *EventosResumen        `json:"eventos"`
	IA             *IAResumen             `json:"ia"`
}

type EquiposResumen struct {
	Total    Number `json:"total"`
	Criticos Number `json:"criticos"`
}

type MantenimientosResumen struct {
	Total             Number `json:"total"`
	Pendientes        Number `json:"pendientes"`
	Completados       Number `json:"completados"`
	PrioridadPromedio Number `json:"prioridad_promedio"`
}

type RecursosResumen struct {
	Total     Number `json:"total"`
	StockBajo Number `json:"stock_bajo"`
}

type EventosResumen struct {
	Total       Number `json:"total"`
	NoResueltos Number `json:"no_resueltos"`
	Criticos    Number `json:"criticos"`
}

type IAResumen struct {
	Aprendizajes      Number `json:"aprendizajes"`
	ConocimientoWeb   Number `json:"conocimiento_web"`
	Recomendaciones   Number `json:"recomendaciones"`
	PrecisionPromedio Number `json:"precision_promedio"`
}

// EquiposCriticos lists critical equipment with pending maintenance.
type EquiposCriticos struct {
	Total   Number          `json:"total"`
	Equipos []EquipoCritico `json:"equipos"`
}

type EquipoCritico struct {
	ID                       Text   `json:"id"`
	Nombre                   Text   `json:"nombre"`
	Empresa                  Text   `json:"empresa"`
	MantenimientosPendientes Number `json:"mantenimientos_pendientes"`
	PrioridadMaxima          Number `json:"prioridad_maxima"`
}

// ConocimientoWeb is the top of the knowledge base by relevance.
type ConocimientoWeb struct {
	Total           Number            `json:"total"`
	TopConocimiento []ConocimientoTop `json:"top_conocimiento"`
}

type ConocimientoTop struct {
	Titulo     Text   `json:"titulo"`
	Fuente     Text   `json:"fuente"`
	Relevancia Number `json:"relevancia"`
}

// PrediccionesIA holds the active predictions.
type PrediccionesIA struct {
	TotalActivas    Number       `json:"total_activas"`
	Recomendaciones []Prediccion `json:"recomendaciones"`
}

type Prediccion struct {
	Titulo      Text   `json:"titulo"`
	Tipo        Text   `json:"tipo"`
	Confianza   Number `json:"confianza"`
	EquipoID    Text   `json:"equipo_id"`
	Descripcion Text   `json:"descripcion"`
}

// MetricasML describes the learning engine. The dashboard substitutes the
// zero value when the endpoint fails.
type MetricasML struct {
	Sistema      *SistemaML      `json:"sistema"`
	Metricas     map[string]any  `json:"metricas"`
	Estadisticas *EstadisticasIA `json:"estadisticas"`
}

type SistemaML struct {
	Estado         Text   `json:"estado"`
	LearningRate   Number `json:"learning_rate"`
	Epsilon        Number `json:"epsilon"`
	DiscountFactor Number `json:"discount_factor"`
}

type EstadisticasIA struct {
	RustHabilitado bool   `json:"rust_habilitado"`
	TotalEstados   Number `json:"total_estados"`
	TotalAcciones  Number `json:"total_acciones"`
}

// ActionReply is the body returned by command endpoints. Raw keeps the
// undecoded body for callers that show it verbatim.
type ActionReply struct {
	Mensaje Text            `json:"mensaje"`
	Total   Number          `json:"total"`
	Error   Text            `json:"error"`
	Detail  Text            `json:"detail"`
	Out     Text            `json:"out"`
	Raw     json.RawMessage `json:"-"`
}

func (r *ActionReply) UnmarshalJSON(b []byte) error {
	type plain ActionReply
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = ActionReply(p)
	r.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// Failure returns the application-level failure carried in the body, if any.
func (r ActionReply) Failure() string {
	if r.Error != "" {
		return string(r.Error)
	}
	return string(r.Detail)
}
