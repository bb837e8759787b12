package report_test

import (
	"regexp"
	"strings"

	"github.com/signalnine/tonebench/internal/result"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func floatPtr(v float64) *float64 { return &v }

func okRun(n int, text string) result.RunRecord {
	return result.RunRecord{
		RunNumber:            n,
		Response:             strPtr(text),
		ResponseLength:       len([]rune(text)),
		ExecutionTimeSeconds: 0.25,
		Success:              true,
		ExtractedValue:       result.ExtractNumber(text),
		Usage:                &result.Usage{PromptTokens: 20, CompletionTokens: 2, TotalTokens: 22},
	}
}

func record(task, typ, tone string, runs ...result.RunRecord) result.ResultRecord {
	vals := result.ExtractedValues(runs)
	stats := result.ComputeStatistics(vals)
	if stats == nil {
		stats = &result.Statistics{}
	}
	return result.ResultRecord{
		TaskName:    task,
		TaskType:    typ,
		TonePattern: tone,
		Prompt:      tone + " prompt for " + task,
		Runs:        runs,
		RunsCount:   len(runs),
		Statistics:  stats,
		Model:       "gpt-4",
	}
}

// proofreading is the polite/casual scenario: polite extracts 2, 3, 4 and
// casual a single 5.
func proofreading() []result.ResultRecord {
	return []result.ResultRecord{
		record("Proofreading", "typo_detection", "polite", okRun(1, "2"), okRun(2, "3"), okRun(3, "4")),
		record("Proofreading", "typo_detection", "casual", okRun(1, "5")),
	}
}

var (
	cellRe = regexp.MustCompile(`(?s)<td[^>]*>(.*?)</td>`)
	tagRe  = regexp.MustCompile(`<[^>]+>`)
)

// rowCells returns the text of each cell in the first row tagged with
// data-pattern=pattern after the element with the given id.
func rowCells(html, id, pattern string) []string {
	start := strings.Index(html, `id="`+id+`"`)
	if start < 0 {
		return nil
	}
	rest := html[start:]
	open := strings.Index(rest, `<tr data-pattern="`+pattern+`">`)
	if open < 0 {
		return nil
	}
	rest = rest[open:]
	rest = rest[:strings.Index(rest, "</tr>")]
	var cells []string
	for _, m := range cellRe.FindAllStringSubmatch(rest, -1) {
		cells = append(cells, strings.TrimSpace(tagRe.ReplaceAllString(m[1], "")))
	}
	return cells
}
