package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/signalnine/tonebench/internal/pricing"
	"github.com/signalnine/tonebench/internal/report"
	"github.com/signalnine/tonebench/internal/result"
)

func mixedRecords() []result.ResultRecord {
	return append(proofreading(),
		record("Oogiri", "question", "polite", okRun(1, "\x1b[31mRed\x1b[0m joke\nwith newline")),
	)
}

func TestGenerateTable(t *testing.T) {
	var buf bytes.Buffer
	table := &pricing.Table{Models: map[string]pricing.ModelPricing{"gpt-4": {Input: 1, Output: 1}}}
	if err := report.Generate(mixedRecords(), "table", &buf, report.Options{Pricing: table}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	output := buf.String()
	for _, want := range []string{"TASK", "MEAN", "Proofreading", "polite", "3.00", "1.00", "$0.0660", "Red joke with newline"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "\x1b[31m") {
		t.Error("ANSI escapes should be stripped from previews")
	}
}

func TestGenerateMarkdown(t *testing.T) {
	records := []result.ResultRecord{record("Oogiri", "question", "a|b", okRun(1, "x"))}
	var buf bytes.Buffer
	if err := report.Generate(records, "markdown", &buf, report.Options{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, separator and one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "| Task | Tone |") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], `a\|b`) {
		t.Errorf("pipe not escaped: %q", lines[2])
	}
	if !strings.Contains(lines[2], "| - |") {
		t.Errorf("missing cost placeholder without pricing: %q", lines[2])
	}
}

func TestGenerateJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Generate(mixedRecords(), "json", &buf, report.Options{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var groups report.Groups
	if err := json.Unmarshal(buf.Bytes(), &groups); err != nil {
		t.Fatalf("output is not a groups payload: %v", err)
	}
	if len(groups) != 2 || groups[0].Name != "Proofreading" || groups[1].Name != "Oogiri" {
		t.Errorf("unexpected groups %v", groupNames(groups))
	}
}

func TestGenerateHTML(t *testing.T) {
	var buf bytes.Buffer
	err := report.Generate(proofreading(), "html", &buf, report.Options{Document: report.DocumentOptions{Model: "gpt-4"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "<!DOCTYPE html>") {
		t.Error("expected an HTML document")
	}
}

func TestGenerateSorted(t *testing.T) {
	var buf bytes.Buffer
	opts := report.Options{SortBy: "mean", Descending: true}
	if err := report.Generate(proofreading(), "markdown", &buf, opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "| casual |") > strings.Index(out, "| polite |") {
		t.Errorf("casual (mean 5) should sort before polite (mean 3) descending:\n%s", out)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		opts   report.Options
	}{
		{"unknown format", "pdf", report.Options{}},
		{"unknown sort column", "table", report.Options{SortBy: "latency"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := report.Generate(proofreading(), tt.format, &bytes.Buffer{}, tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}
