package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"time"
)

//go:embed templates
var assets embed.FS

var (
	clientJS   = mustAsset("templates/client.js")
	styleSheet = mustAsset("templates/style.css")
	templates  = template.Must(template.New("report").
			Funcs(template.FuncMap{"escape": escapeFunc}).
			ParseFS(assets, "templates/*.tmpl"))
)

func mustAsset(name string) string {
	data, err := assets.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// DocumentOptions carries the header metadata of a report.
type DocumentOptions struct {
	Title       string
	Model       string
	Locale      string
	GeneratedAt time.Time
}

type navItem struct {
	Anchor string
	Name   string
}

type documentView struct {
	Title     string
	Model     string
	Locale    string
	Generated string
	TaskCount int
	Nav       []navItem
	Sections  []template.HTML
	Payload   template.JS
	Client    template.JS
	Style     template.CSS
}

// Render assembles the self-contained HTML report for groups.
func Render(groups Groups, opts DocumentOptions) ([]byte, error) {
	if opts.Title == "" {
		opts.Title = "Prompt Tone Experiment"
	}
	if opts.Locale == "" {
		opts.Locale = "ja"
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	payload, err := json.Marshal(groups)
	if err != nil {
		return nil, fmt.Errorf("encoding report payload: %w", err)
	}

	view := documentView{
		Title:     opts.Title,
		Model:     opts.Model,
		Locale:    opts.Locale,
		Generated: opts.GeneratedAt.Format("2006-01-02 15:04:05"),
		TaskCount: len(groups),
		Payload:   template.JS(payload),
		Client:    template.JS(clientJS),
		Style:     template.CSS(styleSheet),
	}
	panels := InitialPanels(groups)
	for i, g := range groups {
		view.Nav = append(view.Nav, navItem{Anchor: Anchor(i), Name: g.Name})
		section, err := renderSection(templates, buildSection(i, g, panels))
		if err != nil {
			return nil, err
		}
		view.Sections = append(view.Sections, section)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "report", view); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTML renders the report and writes it to path. Errors from the write
// are returned as is.
func WriteHTML(path string, groups Groups, opts DocumentOptions) error {
	data, err := Render(groups, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
