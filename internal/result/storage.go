package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func CreateRunDir(baseDir string) (string, error) {
	runsDir := filepath.Join(baseDir, "runs")
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	runDir := filepath.Join(runsDir, stamp)
	runDir, err := filepath.Abs(runDir)
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("creating run dir: %w", err)
	}
	latest := filepath.Join(baseDir, "latest")
	os.Remove(latest)
	if err := os.Symlink(runDir, latest); err != nil {
		return "", fmt.Errorf("creating latest symlink: %w", err)
	}
	return runDir, nil
}

// NewFile wraps records in the results envelope, deriving the task and tone
// pattern lists in first-seen order.
func NewFile(runID, model string, executed time.Time, records []ResultRecord) *File {
	info := ExperimentInfo{
		RunID:            runID,
		TotalExperiments: len(records),
		Tasks:            []string{},
		TonePatterns:     []string{},
		ExecutionDate:    executed.Format(time.RFC3339),
		Model:            model,
	}
	seenTask := map[string]bool{}
	seenTone := map[string]bool{}
	for _, r := range records {
		if !seenTask[r.TaskName] {
			seenTask[r.TaskName] = true
			info.Tasks = append(info.Tasks, r.TaskName)
		}
		if !seenTone[r.TonePattern] {
			seenTone[r.TonePattern] = true
			info.TonePatterns = append(info.TonePatterns, r.TonePattern)
		}
	}
	if records == nil {
		records = []ResultRecord{}
	}
	return &File{ExperimentInfo: info, Results: records}
}

func WriteResults(path string, f *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating results dir: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func ReadResults(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing results %s: %w", path, err)
	}
	return &f, nil
}
