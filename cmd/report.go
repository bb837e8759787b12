package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/signalnine/tonebench/internal/config"
	"github.com/signalnine/tonebench/internal/pricing"
	"github.com/signalnine/tonebench/internal/report"
	"github.com/signalnine/tonebench/internal/result"
	"github.com/spf13/cobra"
)

var (
	flagFormat         string
	flagOut            string
	flagSort           string
	flagDesc           bool
	flagPricing        string
	flagSkipValidation bool
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [results.json or glob]...",
		Short: "Render stored results as a table, markdown, JSON or HTML",
		Long: "Reads one or more results files (globs such as 'output/runs/**/results.json' are expanded) " +
			"and renders them together. With no arguments the latest run of the configured output dir is used.",
		RunE: runReport,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "table", "output format (table, markdown, json, html)")
	cmd.Flags().StringVarP(&flagOut, "out", "o", "", "write to a file instead of stdout")
	cmd.Flags().StringVar(&flagSort, "sort", "", "sort table rows by column (task, tone, mean, stdev, tokens, cost, ...)")
	cmd.Flags().BoolVar(&flagDesc, "desc", false, "sort descending")
	cmd.Flags().StringVar(&flagPricing, "pricing", "", "pricing YAML for the cost column (default: pricing_file from config)")
	cmd.Flags().BoolVar(&flagSkipValidation, "skip-validation", false, "do not check files against the results schema")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	if len(args) == 0 || flagPricing == "" {
		loaded, err := config.Load(cfgFile)
		if err != nil && len(args) == 0 {
			return err
		}
		cfg = loaded
	}
	if len(args) == 0 {
		args = []string{filepath.Join(cfg.Output.Dir, "latest", cfg.Output.ResultsFile)}
	}

	paths, err := resolveInputs(args)
	if err != nil {
		return err
	}
	files, err := loadResults(paths, !flagSkipValidation)
	if err != nil {
		return err
	}

	records, err := mergeResults(paths, files)
	if err != nil {
		return err
	}

	opts := report.Options{
		SortBy:     flagSort,
		Descending: flagDesc,
		Document: report.DocumentOptions{
			Model: files[0].ExperimentInfo.Model,
		},
	}
	if cfg != nil {
		opts.Document.Title = cfg.Report.Title
		opts.Document.Locale = cfg.Report.Locale
	}
	pricingPath := flagPricing
	if pricingPath == "" && cfg != nil {
		pricingPath = cfg.PricingFile
	}
	if pricingPath != "" {
		if opts.Pricing, err = pricing.Load(pricingPath); err != nil {
			return err
		}
	}

	if flagOut == "" {
		return report.Generate(records, flagFormat, cmd.OutOrStdout(), opts)
	}
	f, err := os.Create(flagOut)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := report.Generate(records, flagFormat, f, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// mergeResults concatenates the records of files in order. A tone pattern
// may appear once per task: within one file a repeat is an error, and a
// repeat coming from a later file is renamed "pattern [run]" after the run
// it belongs to.
func mergeResults(paths []string, files []*result.File) ([]result.ResultRecord, error) {
	type key struct{ task, pattern string }
	seen := map[key]bool{}
	var records []result.ResultRecord
	for i, f := range files {
		inFile := map[key]bool{}
		for _, r := range f.Results {
			k := key{r.TaskName, r.TonePattern}
			if inFile[k] {
				return nil, fmt.Errorf("%s: task %q has tone pattern %q more than once", paths[i], r.TaskName, r.TonePattern)
			}
			inFile[k] = true
			if seen[k] {
				r.TonePattern = fmt.Sprintf("%s [%s]", r.TonePattern, runLabel(paths[i], f))
				k.pattern = r.TonePattern
				if seen[k] {
					return nil, fmt.Errorf("%s: task %q tone pattern %q collides with an earlier file", paths[i], r.TaskName, r.TonePattern)
				}
			}
			seen[k] = true
			records = append(records, r)
		}
	}
	return records, nil
}

// runLabel names the run a results file came from: the short run id, or the
// run directory when the file has none.
func runLabel(path string, f *result.File) string {
	if id := f.ExperimentInfo.RunID; id != "" {
		if len(id) > 8 {
			id = id[:8]
		}
		return id
	}
	return filepath.Base(filepath.Dir(path))
}

// resolveInputs expands glob arguments in order. Plain paths pass through
// unchanged so a missing file is reported by name; a glob that matches
// nothing is an error.
func resolveInputs(args []string) ([]string, error) {
	var paths []string
	seen := map[string]bool{}
	for _, arg := range args {
		if !hasMeta(arg) {
			if !seen[arg] {
				seen[arg] = true
				paths = append(paths, arg)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no results files match %q", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

func hasMeta(path string) bool {
	for _, c := range path {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

func loadResults(paths []string, validate bool) ([]*result.File, error) {
	var files []*result.File
	for _, p := range paths {
		resolved, err := filepath.EvalSymlinks(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		if validate {
			data, err := os.ReadFile(resolved)
			if err != nil {
				return nil, fmt.Errorf("reading results: %w", err)
			}
			if err := result.ValidateResults(data); err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
		}
		f, err := result.ReadResults(resolved)
		if err != nil {
			return nil, err
		}
		for i, r := range f.Results {
			if r.TaskName == "" {
				return nil, fmt.Errorf("%s: result %d has no task_name", p, i)
			}
		}
		files = append(files, f)
	}
	return files, nil
}
