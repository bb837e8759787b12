package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signalnine/tonebench/internal/config"
)

func TestLoadMinimal(t *testing.T) {
	cfg, err := config.Load("../../testdata/minimal.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "gpt-4.1-mini" {
		t.Errorf("expected model gpt-4.1-mini, got %q", cfg.Model)
	}
	if cfg.RunsPerTask != 1 {
		t.Errorf("expected default runs_per_task 1, got %d", cfg.RunsPerTask)
	}
	if len(cfg.TonePatterns) != 1 || cfg.TonePatterns[0].Name != "polite" {
		t.Errorf("unexpected tone patterns: %+v", cfg.TonePatterns)
	}
	if cfg.Tasks[0].ContentType != config.ContentText || cfg.Tasks[0].Text != "今日わ良い天気です。" {
		t.Errorf("unexpected task: %+v", cfg.Tasks[0])
	}
	if cfg.API.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("expected default api_key_env, got %q", cfg.API.APIKeyEnv)
	}
	if cfg.Output.Dir != "output" || cfg.Output.ResultsFile != "results.json" || cfg.Output.HTMLReportFile != "index.html" {
		t.Errorf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Report.Locale != "ja" {
		t.Errorf("expected default locale ja, got %q", cfg.Report.Locale)
	}
}

func TestLoadFull(t *testing.T) {
	cfg, err := config.Load("../../testdata/full.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff([]string{"polite", "casual", "strict"}, cfg.TonePatterns.Names()); diff != "" {
		t.Errorf("tone pattern order mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(cfg.Tasks[0].Text, "今日わ天気が良いです。") || strings.HasSuffix(cfg.Tasks[0].Text, "\n") {
		t.Errorf("file content not loaded and trimmed: %q", cfg.Tasks[0].Text)
	}
	if cfg.PromptTemplates[config.TaskTypeFreeform] != "{tone}\n---\n{content}" {
		t.Errorf("freeform template not overridden: %q", cfg.PromptTemplates[config.TaskTypeFreeform])
	}
	if cfg.PromptTemplates[config.TaskTypeTypoDetection] == "" {
		t.Error("default typo_detection template missing")
	}
	if want := filepath.Join("..", "..", "testdata", "pricing.yaml"); cfg.PricingFile != want {
		t.Errorf("pricing_file: got %q, want %q", cfg.PricingFile, want)
	}
	if cfg.Secrets.EnvFile == "" {
		t.Error("expected secrets env_file to be set")
	}
	if cfg.API.MaxOutputTokens != 256 || cfg.API.TimeoutSeconds != 30 {
		t.Errorf("unexpected api settings: %+v", cfg.API)
	}
}

func TestLoadTOML(t *testing.T) {
	cfg, err := config.Load("../../testdata/full.toml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff([]string{"polite", "casual"}, cfg.TonePatterns.Names()); diff != "" {
		t.Errorf("tone pattern order mismatch (-want +got):\n%s", diff)
	}
	if cfg.RunsPerTask != 2 || len(cfg.Tasks) != 2 {
		t.Errorf("unexpected config: runs=%d tasks=%d", cfg.RunsPerTask, len(cfg.Tasks))
	}
	if cfg.Tasks[0].Text == "" {
		t.Error("expected file content to be loaded")
	}
	if cfg.Report.Locale != "en" {
		t.Errorf("locale: got %q", cfg.Report.Locale)
	}
}

func TestRunsFor(t *testing.T) {
	cfg := &config.Config{RunsPerTask: 5}
	tests := []struct {
		name string
		task config.Task
		want int
	}{
		{"typo detection uses runs_per_task", config.Task{Type: config.TaskTypeTypoDetection}, 5},
		{"question runs once", config.Task{Type: config.TaskTypeQuestion}, 1},
		{"other types run once", config.Task{Type: "summary"}, 1},
		{"explicit override", config.Task{Type: config.TaskTypeQuestion, Runs: 3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.RunsFor(tt.task); got != tt.want {
				t.Errorf("RunsFor(%+v) = %d, want %d", tt.task, got, tt.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := config.Load("nonexistent.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalid(t *testing.T) {
	_, err := config.Load("../../testdata/invalid.yaml")
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"no tone patterns", "tasks:\n  - {name: a, type: question}\n", "no tone patterns"},
		{"no tasks", "tone_patterns: {p: x}\n", "no tasks"},
		{"unknown task type", "tone_patterns: {p: x}\ntasks:\n  - {name: a, type: haiku}\n", `task 0: unsupported task type "haiku"`},
		{"missing task name", "tone_patterns: {p: x}\ntasks:\n  - {type: question}\n", "task 0: name is required"},
		{"duplicate task", "tone_patterns: {p: x}\ntasks:\n  - {name: Essay, type: question}\n  - {name: Essay, type: question}\n", `task "Essay" defined twice`},
		{"duplicate pattern", "tone_patterns:\n  - {name: p, instruction: x}\n  - {name: p, instruction: y}\ntasks:\n  - {name: a, type: question}\n", `"p" defined twice`},
		{"negative runs", "runs_per_task: -1\ntone_patterns: {p: x}\ntasks:\n  - {name: a, type: question}\n", "runs_per_task"},
		{"bad content type", "tone_patterns: {p: x}\ntasks:\n  - {name: a, type: question, content_type: url}\n", "unknown content_type"},
		{"missing content file", "tone_patterns: {p: x}\ntasks:\n  - {name: a, type: question, content_type: file, content: nope.txt}\n", "task 0: reading content"},
		{"scalar tone patterns", "tone_patterns: polite\ntasks:\n  - {name: a, type: question}\n", "mapping or a list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestCustomTaskTypeWithTemplate(t *testing.T) {
	content := "tone_patterns: {p: x}\nprompt_templates:\n  haiku: \"{tone} {content}\"\ntasks:\n  - {name: a, type: haiku, content: spring}\n"
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PromptTemplates["haiku"] != "{tone} {content}" {
		t.Errorf("custom template not kept: %q", cfg.PromptTemplates["haiku"])
	}
}
