package models

// Equipo is a piece of monitored equipment.
type Equipo struct {
	ID               Text `json:"id"`
	Nombre           Text `json:"nombre"`
	EmpresaNombre    Text `json:"empresa_nombre"`
	Categoria        Text `json:"categoria"`
	CategoriaDisplay Text `json:"categoria_display"`
	Estado           Text `json:"estado"`
	EsCritico        bool `json:"es_critico"`
	Ubicacion        Text `json:"ubicacion"`
	FechaInstalacion Text `json:"fecha_instalacion"`
}

// CategoryLabel prefers the human readable category.
func (e Equipo) CategoryLabel() Text {
	if e.CategoriaDisplay != "" {
		return e.CategoriaDisplay
	}
	return e.Categoria
}

// Mantenimiento is a maintenance work ticket tied to an equipo.
type Mantenimiento struct {
	ID              Text   `json:"id"`
	Equipo          Text   `json:"equipo"`
	Tipo            Text   `json:"tipo"`
	Prioridad       Number `json:"prioridad"` // 0-100
	Estado          Text   `json:"estado"`
	Costo           Number `json:"costo"`
	FechaProgramada Text   `json:"fecha_programada"`
}

// Recurso is an inventory resource with stock levels.
type Recurso struct {
	ID          Text   `json:"id"`
	Tipo        Text   `json:"tipo"`
	Nombre      Text   `json:"nombre"`
	Stock       Number `json:"stock"`
	StockMinimo Number `json:"stock_minimo"`
	Costo       Number `json:"costo"`
	Disponible  bool   `json:"disponible"`
}

// Evento is a logged operational event or alert.
type Evento struct {
	ID          Text   `json:"id"`
	Tipo        Text   `json:"tipo"`
	Equipo      Text   `json:"equipo"`
	Severidad   Number `json:"severidad"`
	Descripcion Text   `json:"descripcion"`
	Resuelto    bool   `json:"resuelto"`
}

// Recomendacion is a system-generated suggested action.
type Recomendacion struct {
	ID             Text   `json:"id"`
	Tipo           Text   `json:"tipo"`
	Confianza      Number `json:"confianza"` // 0-1
	Prioridad      Text   `json:"prioridad"`
	Titulo         Text   `json:"titulo"`
	Descripcion    Text   `json:"descripcion"`
	AccionSugerida Text   `json:"accion_sugerida"`
}

// Conocimiento is a scraped or learned knowledge snippet.
type Conocimiento struct {
	ID      Text `json:"id"`
	Titulo  Text `json:"titulo"`
	Fuente  Text `json:"fuente"`
	Resumen Text `json:"resumen"`
	Fecha   Text `json:"fecha"`
}
