package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	TaskTypeTypoDetection = "typo_detection"
	TaskTypeQuestion      = "question"
	TaskTypeFreeform      = "freeform"

	ContentText = "text"
	ContentFile = "file"
)

type Config struct {
	Model            string            `yaml:"model" toml:"model"`
	RunsPerTask      int               `yaml:"runs_per_task" toml:"runs_per_task"`
	TonePatterns     TonePatterns      `yaml:"tone_patterns" toml:"tone_patterns"`
	TonePatternsFile string            `yaml:"tone_patterns_file" toml:"tone_patterns_file"`
	Tasks            []Task            `yaml:"tasks" toml:"tasks"`
	PromptTemplates  map[string]string `yaml:"prompt_templates" toml:"prompt_templates"`
	API              API               `yaml:"api" toml:"api"`
	Output           Output            `yaml:"output" toml:"output"`
	Report           Report            `yaml:"report" toml:"report"`
	Secrets          Secrets           `yaml:"secrets" toml:"secrets"`
	PricingFile      string            `yaml:"pricing_file" toml:"pricing_file"`
}

type Task struct {
	Name        string `yaml:"name" toml:"name"`
	Type        string `yaml:"type" toml:"type"`
	ContentType string `yaml:"content_type" toml:"content_type"`
	Content     string `yaml:"content" toml:"content"`
	// Runs overrides the per-type repetition count when positive.
	Runs int `yaml:"runs" toml:"runs"`

	// Text is Content, or the contents of the referenced file when
	// ContentType is "file". Filled in by Load.
	Text string `yaml:"-" toml:"-"`
}

type API struct {
	BaseURL         string `yaml:"base_url" toml:"base_url"`
	APIKeyEnv       string `yaml:"api_key_env" toml:"api_key_env"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
	MaxOutputTokens int    `yaml:"max_output_tokens" toml:"max_output_tokens"`
}

type Output struct {
	Dir            string `yaml:"dir" toml:"dir"`
	ResultsFile    string `yaml:"results_file" toml:"results_file"`
	HTMLReportFile string `yaml:"html_report_file" toml:"html_report_file"`
}

type Report struct {
	Title  string `yaml:"title" toml:"title"`
	Locale string `yaml:"locale" toml:"locale"`
}

type Secrets struct {
	EnvFile string `yaml:"env_file" toml:"env_file"`
}

// DefaultPromptTemplates maps task types to prompt templates. {tone} and
// {content} are substituted with the tone instruction and the task text.
var DefaultPromptTemplates = map[string]string{
	TaskTypeTypoDetection: "{tone}\n\n次の文章に含まれる誤字・脱字・文法ミスの総数を数えてください。回答は数字のみで出力してください（例: 5）。\n{content}",
	TaskTypeQuestion:      "{tone}\n\n大喜利です。以下のお題から、面白い回答を1つだけ答えてください。\n{content}",
	TaskTypeFreeform:      "{tone}\n\n{content}",
}

// Load reads a YAML or TOML (by .toml extension) experiment config. Relative
// paths inside it resolve against the config file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := resolve(&cfg, filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// RunsFor returns how many times a task is sent per tone pattern.
func (c *Config) RunsFor(t Task) int {
	if t.Runs > 0 {
		return t.Runs
	}
	if t.Type == TaskTypeTypoDetection {
		return c.RunsPerTask
	}
	return 1
}

func resolve(cfg *Config, dir string) error {
	if cfg.TonePatternsFile != "" {
		if len(cfg.TonePatterns) > 0 {
			return fmt.Errorf("tone_patterns and tone_patterns_file are mutually exclusive")
		}
		patterns, err := LoadTonePatterns(relTo(dir, cfg.TonePatternsFile))
		if err != nil {
			return err
		}
		cfg.TonePatterns = patterns
	}
	for i := range cfg.Tasks {
		t := &cfg.Tasks[i]
		switch t.ContentType {
		case "", ContentText:
			t.ContentType = ContentText
			t.Text = t.Content
		case ContentFile:
			data, err := os.ReadFile(relTo(dir, t.Content))
			if err != nil {
				return fmt.Errorf("task %d: reading content: %w", i, err)
			}
			t.Text = strings.TrimSpace(string(data))
		default:
			return fmt.Errorf("task %d: unknown content_type %q", i, t.ContentType)
		}
	}
	if cfg.PricingFile != "" {
		cfg.PricingFile = relTo(dir, cfg.PricingFile)
	}
	if cfg.Secrets.EnvFile != "" {
		cfg.Secrets.EnvFile = relTo(dir, cfg.Secrets.EnvFile)
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.Model == "" {
		cfg.Model = "gpt-4"
	}
	if cfg.RunsPerTask == 0 {
		cfg.RunsPerTask = 1
	}
	if cfg.RunsPerTask < 1 {
		return fmt.Errorf("runs_per_task must be at least 1")
	}
	if len(cfg.TonePatterns) == 0 {
		return fmt.Errorf("no tone patterns defined")
	}
	seen := map[string]bool{}
	for i, p := range cfg.TonePatterns {
		if p.Name == "" {
			return fmt.Errorf("tone pattern %d: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("tone pattern %q defined twice", p.Name)
		}
		seen[p.Name] = true
	}

	templates := make(map[string]string, len(DefaultPromptTemplates)+len(cfg.PromptTemplates))
	for k, v := range DefaultPromptTemplates {
		templates[k] = v
	}
	for k, v := range cfg.PromptTemplates {
		templates[k] = v
	}
	cfg.PromptTemplates = templates

	if len(cfg.Tasks) == 0 {
		return fmt.Errorf("no tasks defined")
	}
	taskNames := map[string]bool{}
	for i := range cfg.Tasks {
		t := &cfg.Tasks[i]
		if t.Name == "" {
			return fmt.Errorf("task %d: name is required", i)
		}
		if taskNames[t.Name] {
			return fmt.Errorf("task %q defined twice", t.Name)
		}
		taskNames[t.Name] = true
		if t.Type == "" {
			return fmt.Errorf("task %d: type is required", i)
		}
		if _, ok := templates[t.Type]; !ok {
			return fmt.Errorf("task %d: unsupported task type %q", i, t.Type)
		}
		if t.Runs < 0 {
			return fmt.Errorf("task %d: runs must not be negative", i)
		}
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api.openai.com"
	}
	if cfg.API.APIKeyEnv == "" {
		cfg.API.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 120
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "output"
	}
	if cfg.Output.ResultsFile == "" {
		cfg.Output.ResultsFile = "results.json"
	}
	if cfg.Output.HTMLReportFile == "" {
		cfg.Output.HTMLReportFile = "index.html"
	}
	if cfg.Report.Title == "" {
		cfg.Report.Title = "Prompt Tone Experiment"
	}
	if cfg.Report.Locale == "" {
		cfg.Report.Locale = "ja"
	}
	return nil
}

func relTo(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
