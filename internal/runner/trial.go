package runner

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/signalnine/tonebench/internal/gateway"
	"github.com/signalnine/tonebench/internal/result"
)

// Generator sends one prompt to a model. *gateway.Client implements it.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (*gateway.Response, error)
}

// BuildPrompt substitutes {tone} and {content} in tmpl. Substituted text is
// not rescanned for placeholders.
func BuildPrompt(tmpl, tone, content string) string {
	return strings.NewReplacer("{tone}", tone, "{content}", content).Replace(tmpl)
}

// RunTrial performs one call and records its outcome. Failures are captured
// in the record rather than returned.
func RunTrial(ctx context.Context, gen Generator, model, prompt string, runNum int) result.RunRecord {
	start := time.Now()
	resp, err := gen.Generate(ctx, model, prompt)
	elapsed := time.Since(start).Seconds()

	rec := result.RunRecord{
		RunNumber:            runNum,
		ExecutionTimeSeconds: elapsed,
	}
	if err != nil {
		msg := err.Error()
		rec.Error = &msg
		return rec
	}
	text := resp.Text
	rec.Response = &text
	rec.ResponseLength = utf8.RuneCountInString(text)
	rec.Success = true
	rec.ExtractedValue = result.ExtractNumber(text)
	rec.Usage = resp.Usage
	return rec
}
