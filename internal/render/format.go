package render

import (
	"math"
	"strconv"
	"strings"

	"maintenance_dashboard/internal/models"
)

// Display limits.
const (
	TableCap     = 10
	ListingCap   = 100
	DescLimit    = 50
	SummaryLimit = 100

	Placeholder = "Sin datos"
	ellipsis    = "..."
)

// Badge classes.
const (
	BadgeSuccess = "badge-success"
	BadgeWarning = "badge-warning"
	BadgeError   = "badge-error"
)

// Truncate cuts s to at most limit runes and appends an ellipsis only when
// something was cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}

// PriorityBadge maps a 0-100 maintenance priority to a badge class.
func PriorityBadge(p float64) string {
	switch {
	case p > 70:
		return BadgeError
	case p > 40:
		return BadgeWarning
	default:
		return BadgeSuccess
	}
}

// SeverityBadge maps an event severity to a badge class.
func SeverityBadge(s float64) string {
	switch {
	case s >= 8:
		return BadgeError
	case s >= 5:
		return BadgeWarning
	default:
		return BadgeSuccess
	}
}

func yesNo(b bool) string {
	if b {
		return "Si"
	}
	return "No"
}

// num renders a nullable number; missing values render as 0.
func num(n models.Number) string {
	return formatFloat(n.Float())
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func fixed(v float64, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// percent renders a 0-1 ratio as a percentage with one decimal.
func percent(n models.Number) string {
	return fixed(n.Float()*100, 1) + "%"
}

// text renders a scalar, substituting "-" for empty values.
func text(t models.Text) string {
	if s := strings.TrimSpace(t.String()); s != "" {
		return s
	}
	return "-"
}
