// Package render turns fetched backend data into HTML fragments and pages.
// Every function here is pure: same input, same markup.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"maintenance_dashboard/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Static returns the stylesheet and scripts served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Banner levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Banner is the blocking message shown after an action.
type Banner struct {
	Level string
	Text  string
}

// NavItem is one entry of the tab navigation.
type NavItem struct {
	Tab    models.Tab
	Title  string
	Active bool
}

// Nav builds the navigation with the marker on active.
func Nav(active models.Tab) []NavItem {
	items := make([]NavItem, 0, len(models.Tabs))
	for _, t := range models.Tabs {
		items = append(items, NavItem{Tab: t, Title: t.Title(), Active: t == active})
	}
	return items
}

type PageData struct {
	Title    string
	Operator string
	Nav      []NavItem
	Banner   *Banner
	Content  template.HTML
}

// ConfirmData asks the operator to approve an action before it runs.
type ConfirmData struct {
	Action string
	Prompt string
	Fields []Field
}

type VisualizerData struct {
	Title   string
	Width   int
	Height  int
	Console []string
}

// View renders the fragment of one tab.
func View(data Data) (template.HTML, error) {
	return fragment("view", data.Model())
}

// Fragment renders an already built view model.
func Fragment(vm ViewModel) (template.HTML, error) {
	return fragment("view", vm)
}

// Error is the one-line replacement of a view whose load failed.
func Error(reason string) template.HTML {
	out, err := fragment("error", reason)
	if err != nil {
		return template.HTML("Error")
	}
	return out
}

// Notice is a one-line informational fragment.
func Notice(msg string) template.HTML {
	out, err := fragment("notice", msg)
	if err != nil {
		return ""
	}
	return out
}

func Confirm(c ConfirmData) (template.HTML, error) {
	return fragment("confirm", c)
}

func Login() (template.HTML, error) {
	return fragment("login", nil)
}

// Page renders the full shell around content.
func Page(p PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "page", p); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

func Visualizer(v VisualizerData) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "visualizer", v); err != nil {
		return nil, fmt.Errorf("render visualizer: %w", err)
	}
	return buf.Bytes(), nil
}

func fragment(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	// output of html/template is already escaped
	return template.HTML(buf.String()), nil
}
