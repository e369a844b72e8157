package render

import (
	"maintenance_dashboard/internal/models"
)

// ViewModel is everything a tab fragment displays. Builders fill it from
// fetched data; the template never looks at backend payloads directly.
type ViewModel struct {
	Tab     models.Tab
	Heading string
	Cards   []Card
	Actions []Button
	Tables  []Table
	Footer  []Stat
}

type Card struct {
	Title    string
	Value    string
	Subtitle string
	// Indicator is "on", "off" or empty.
	Indicator string
}

// Button posts Action with the hidden Fields. When Input is set the form
// also carries a free text field with that name.
type Button struct {
	Action      string
	Label       string
	Fields      []Field
	Danger      bool
	Input       string
	Placeholder string
}

type Field struct {
	Name  string
	Value string
}

type Stat struct {
	Label string
	Value string
}

// Table is a capped listing. Total counts every record the backend reported.
type Table struct {
	Title   string
	Columns []string
	Rows    []Row
	Shown   int
	Total   int
	Empty   string
	// Submit, when set, wraps the table in a form so rows can be selected.
	Submit *Button
}

// Overflow reports whether records were left out of the table.
func (t Table) Overflow() bool { return t.Total > t.Shown }

// Row is one table line. Select holds the value of the row checkbox.
type Row struct {
	Select string
	Cells  []Cell
}

type Cell struct {
	Text  string
	Badge string
}

func plain(s string) Cell { return Cell{Text: s} }

func badge(s, class string) Cell { return Cell{Text: s, Badge: class} }

// newTable keeps at most limit items and records how many exist in total.
func newTable[T any](title string, columns []string, items []T, total, limit int, row func(T) Row) Table {
	if total < len(items) {
		total = len(items)
	}
	shown := items
	if len(shown) > limit {
		shown = shown[:limit]
	}
	t := Table{
		Title:   title,
		Columns: columns,
		Rows:    make([]Row, 0, len(shown)),
		Shown:   len(shown),
		Total:   total,
		Empty:   Placeholder,
	}
	for _, it := range shown {
		t.Rows = append(t.Rows, row(it))
	}
	return t
}
