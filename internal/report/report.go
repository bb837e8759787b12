package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/signalnine/tonebench/internal/pricing"
	"github.com/signalnine/tonebench/internal/result"
)

type Options struct {
	// Pricing adds a cost column when set.
	Pricing *pricing.Table
	// SortBy names a summary column ("mean", "tokens", ...). Empty keeps
	// record order.
	SortBy     string
	Descending bool
	Document   DocumentOptions
}

type summaryColumn struct {
	Name string
	Kind ColumnKind
}

var summaryColumns = []summaryColumn{
	{"task", ColumnString},
	{"tone", ColumnString},
	{"runs", ColumnNumber},
	{"ok", ColumnNumber},
	{"mean", ColumnNumber},
	{"stdev", ColumnNumber},
	{"min", ColumnNumber},
	{"max", ColumnNumber},
	{"tokens", ColumnNumber},
	{"cost", ColumnNumber},
	{"response", ColumnString},
}

const previewRunes = 40

// Generate writes records in the given format: table, markdown, json (the
// grouped report payload) or html.
func Generate(records []result.ResultRecord, format string, w io.Writer, opts Options) error {
	groups := Group(records)
	switch format {
	case "html":
		data, err := Render(groups, opts.Document)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "json":
		return writeJSON(groups, w)
	case "markdown":
		rows, err := summaryRows(groups, opts)
		if err != nil {
			return err
		}
		return writeMarkdown(rows, w)
	case "table", "":
		rows, err := summaryRows(groups, opts)
		if err != nil {
			return err
		}
		return writeTable(rows, w)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func summaryRows(groups Groups, opts Options) ([][]string, error) {
	var rows [][]string
	for _, g := range groups {
		for _, r := range g.Records {
			cells := statsCells(r)
			in, out := result.TotalUsage(r.Runs)
			cost := placeholder
			if opts.Pricing != nil {
				cost = fmt.Sprintf("$%.4f", opts.Pricing.Cost(r.Model, in, out))
			}
			rows = append(rows, []string{
				r.TaskName,
				r.TonePattern,
				fmt.Sprint(len(r.Runs)),
				fmt.Sprint(result.SuccessCount(r.Runs)),
				cells[1], cells[2], cells[3], cells[4],
				fmt.Sprint(in + out),
				cost,
				responsePreview(r),
			})
		}
	}
	if opts.SortBy == "" {
		return rows, nil
	}
	for i, c := range summaryColumns {
		if c.Name == strings.ToLower(opts.SortBy) {
			NewCellComparer(opts.Document.Locale).SortRows(rows, i, c.Kind, opts.Descending)
			return rows, nil
		}
	}
	return nil, fmt.Errorf("unknown sort column %q", opts.SortBy)
}

// responsePreview shows the first response of non-numeric tasks on one line.
func responsePreview(r result.ResultRecord) string {
	if SelectView(r.TaskType) == ViewStatsTable || len(r.Runs) == 0 {
		return ""
	}
	run := r.Runs[0]
	if run.Response == nil {
		if run.Error != nil {
			return "error: " + truncate(*run.Error, previewRunes)
		}
		return placeholder
	}
	text := strings.Join(strings.Fields(stripansi.Strip(*run.Response)), " ")
	return truncate(text, previewRunes)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func headerRow() table.Row {
	row := make(table.Row, len(summaryColumns))
	for i, c := range summaryColumns {
		row[i] = strings.ToUpper(c.Name)
	}
	return row
}

func writeTable(rows [][]string, w io.Writer) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(headerRow())
	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = cell
		}
		tw.AppendRow(row)
	}
	tw.Render()
	return nil
}

func writeMarkdown(rows [][]string, w io.Writer) error {
	header := make([]string, len(summaryColumns))
	sep := make([]string, len(summaryColumns))
	for i, c := range summaryColumns {
		header[i] = strings.ToUpper(c.Name[:1]) + c.Name[1:]
		sep[i] = "---"
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(header, " | "))
	fmt.Fprintf(w, "|%s|\n", strings.Join(sep, "|"))
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, cell := range r {
			cells[i] = strings.ReplaceAll(cell, "|", `\|`)
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
	return nil
}

func writeJSON(groups Groups, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(groups)
}
