package models

import (
	"strings"
	"time"
)

// Tab identifies one dashboard view.
type Tab string

const (
	TabDashboard       Tab = "dashboard"
	TabDatabase        Tab = "db"
	TabEquipos         Tab = "equipos"
	TabIA              Tab = "ia"
	TabAnalytics       Tab = "analytics"
	TabRecomendaciones Tab = "recomendaciones"
	TabScraping        Tab = "scraping"
)

// Tabs lists every view in navigation order.
var Tabs = []Tab{
	TabDashboard,
	TabDatabase,
	TabEquipos,
	TabIA,
	TabAnalytics,
	TabRecomendaciones,
	TabScraping,
}

var tabTitles = map[Tab]string{
	TabDashboard:       "Dashboard",
	TabDatabase:        "Base de Datos",
	TabEquipos:         "Equipos",
	TabIA:              "Control IA",
	TabAnalytics:       "Analytics",
	TabRecomendaciones: "Recomendaciones",
	TabScraping:        "Web Learning",
}

// ParseTab normalizes s and reports whether it names a known view.
func ParseTab(s string) (Tab, bool) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	_, ok := tabTitles[t]
	return t, ok
}

// Title is the navigation label of the tab.
func (t Tab) Title() string {
	return tabTitles[t]
}

// ViewState is the per-session router state.
type ViewState struct {
	SessionID  string    `json:"session_id"`
	Active     Tab       `json:"active"`
	Generation int64     `json:"generation"`
	UpdatedAt  time.Time `json:"updated_at"`
}
