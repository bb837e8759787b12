package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/signalnine/tonebench/internal/result"
)

const placeholder = "-"

type statsColumn struct {
	Label string
	Kind  ColumnKind
}

var statsColumns = []statsColumn{
	{"Tone pattern", ColumnString},
	{"Mean", ColumnNumber},
	{"Stdev", ColumnNumber},
	{"Min", ColumnNumber},
	{"Max", ColumnNumber},
	{"Runs", ColumnNumber},
}

type statsRow struct {
	Pattern string
	Cells   []string
}

type textRow struct {
	Pattern  string
	Response string
	Error    string
	Missing  bool
}

type promptItem struct {
	Pattern string
	Prompt  string
}

type patternOption struct {
	Pattern  string
	Selected bool
}

type panelView struct {
	Task    int
	Side    Side
	Label   string
	Options []patternOption
}

type sectionView struct {
	Index   int
	Name    string
	Type    string
	View    View
	Columns []statsColumn
	Stats   []statsRow
	Text    []textRow
	Prompts []promptItem
	Panels  []panelView
}

// Anchor is the fragment id of section i.
func Anchor(i int) string {
	return fmt.Sprintf("task-%d", i)
}

func buildSection(i int, g TaskGroup, panels Panels) sectionView {
	sv := sectionView{
		Index: i,
		Name:  g.Name,
		Type:  g.Type(),
		View:  SelectView(g.Type()),
	}
	switch sv.View {
	case ViewStatsTable:
		sv.Columns = statsColumns
		for _, r := range g.Records {
			sv.Stats = append(sv.Stats, statsRow{Pattern: r.TonePattern, Cells: statsCells(r)})
		}
		sv.Prompts = prompts(g)
	case ViewTextTable:
		for _, r := range g.Records {
			sv.Text = append(sv.Text, firstResponse(r))
		}
		sv.Prompts = prompts(g)
	case ViewComparison:
		for _, side := range []Side{SideA, SideB} {
			state := panels[PanelKey{side, i}]
			pv := panelView{Task: i, Side: side, Label: panelLabel(side)}
			for _, r := range g.Records {
				pv.Options = append(pv.Options, patternOption{
					Pattern:  r.TonePattern,
					Selected: r.TonePattern == state.Pattern,
				})
			}
			sv.Panels = append(sv.Panels, pv)
		}
	}
	return sv
}

func panelLabel(side Side) string {
	if side == SideB {
		return "Pattern B"
	}
	return "Pattern A"
}

// statsCells formats one statistics row: pattern, mean, stdev, min, max and
// sample count. Missing values become the placeholder.
func statsCells(r result.ResultRecord) []string {
	cells := []string{r.TonePattern, placeholder, placeholder, placeholder, placeholder, fmt.Sprint(len(r.Runs))}
	s := r.Statistics
	if s == nil {
		return cells
	}
	if s.Mean != nil {
		cells[1] = fmt.Sprintf("%.2f", *s.Mean)
	}
	if s.Stdev != nil {
		cells[2] = fmt.Sprintf("%.2f", *s.Stdev)
	}
	if s.Min != nil {
		cells[3] = fmt.Sprint(*s.Min)
	}
	if s.Max != nil {
		cells[4] = fmt.Sprint(*s.Max)
	}
	return cells
}

func firstResponse(r result.ResultRecord) textRow {
	row := textRow{Pattern: r.TonePattern, Missing: true}
	if len(r.Runs) == 0 {
		return row
	}
	run := r.Runs[0]
	if run.Response != nil {
		row.Response = *run.Response
		row.Missing = false
	}
	if run.Error != nil {
		row.Error = *run.Error
	}
	return row
}

func prompts(g TaskGroup) []promptItem {
	items := make([]promptItem, 0, len(g.Records))
	for _, r := range g.Records {
		items = append(items, promptItem{Pattern: r.TonePattern, Prompt: r.Prompt})
	}
	return items
}

func renderSection(tmpl *template.Template, sv sectionView) (template.HTML, error) {
	var name string
	switch sv.View {
	case ViewStatsTable:
		name = "stats-section"
	case ViewTextTable:
		name = "text-section"
	case ViewComparison:
		name = "comparison-section"
	default:
		return "", fmt.Errorf("task %q: unknown view %d", sv.Name, sv.View)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, sv); err != nil {
		return "", fmt.Errorf("rendering task %q: %w", sv.Name, err)
	}
	return template.HTML(buf.String()), nil
}
