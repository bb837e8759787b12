package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/fatih/color"
	"github.com/signalnine/tonebench/internal/config"
	"github.com/signalnine/tonebench/internal/logging"
	"github.com/signalnine/tonebench/internal/result"
)

type ExperimentOpts struct {
	Config    *config.Config
	Generator Generator
	// Out receives progress lines; defaults to os.Stdout.
	Out io.Writer
	// Now stamps records; defaults to time.Now.
	Now func() time.Time
}

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
)

// RunExperiment sends every task x tone pattern prompt, one call at a time.
// If ctx is canceled it returns the records completed so far with ctx's
// error.
func RunExperiment(ctx context.Context, opts *ExperimentOpts) ([]result.ResultRecord, error) {
	cfg := opts.Config
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := logging.New("runner")

	var records []result.ResultRecord
	for _, task := range cfg.Tasks {
		tmpl := cfg.PromptTemplates[task.Type]
		runs := cfg.RunsFor(task)
		fmt.Fprintf(out, "\nTask: %s (%s)\n", task.Name, task.Type)

		for _, tone := range cfg.TonePatterns {
			prompt := BuildPrompt(tmpl, tone.Instruction, task.Text)
			fmt.Fprintf(out, "Running %s × %s (%d run(s))...\n", task.Name, tone.Name, runs)

			rec := result.ResultRecord{
				TaskName:    task.Name,
				TaskType:    task.Type,
				TonePattern: tone.Name,
				Prompt:      prompt,
				RunsCount:   runs,
				Model:       cfg.Model,
			}
			for i := 1; i <= runs; i++ {
				if err := ctx.Err(); err != nil {
					return records, err
				}
				run := RunTrial(ctx, opts.Generator, cfg.Model, prompt, i)
				if run.Success {
					fmt.Fprintf(out, "  run %d/%d %s (%s)\n", i, runs, okMark("✓"), preview(*run.Response, 60))
				} else {
					fmt.Fprintf(out, "  run %d/%d %s error: %s\n", i, runs, failMark("✗"), *run.Error)
					log.Warn("run failed", "task", task.Name, "tone", tone.Name, "run", i, "error", *run.Error)
				}
				rec.Runs = append(rec.Runs, run)
			}

			rec.Statistics = &result.Statistics{}
			if task.Type == config.TaskTypeTypoDetection {
				if stats := result.ComputeStatistics(successfulValues(rec.Runs)); stats != nil {
					rec.Statistics = stats
				}
			}
			rec.Timestamp = now().Format(time.RFC3339)
			records = append(records, rec)
		}
	}
	return records, nil
}

func successfulValues(runs []result.RunRecord) []int {
	var ok []result.RunRecord
	for _, r := range runs {
		if r.Success {
			ok = append(ok, r)
		}
	}
	return result.ExtractedValues(ok)
}

// preview flattens a response onto one line for progress output.
func preview(s string, limit int) string {
	s = strings.Join(strings.Fields(stripansi.Strip(s)), " ")
	r := []rune(s)
	if len(r) > limit {
		return string(r[:limit]) + "…"
	}
	return s
}
