package result_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/signalnine/tonebench/internal/result"
)

func TestValidateResults(t *testing.T) {
	valid, err := json.Marshal(result.NewFile("r", "m", time.Now(), sampleRecords()))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"written file", string(valid), false},
		{"empty results", `{"experiment_info":{"total_experiments":0,"tasks":[],"tone_patterns":[],"execution_date":"","model":""},"results":[]}`, false},
		{"missing envelope", `{"results":[]}`, true},
		{"empty runs", `{"experiment_info":{"total_experiments":1,"tasks":[],"tone_patterns":[],"execution_date":"","model":""},"results":[{"task_name":"a","task_type":"question","tone_pattern":"p","prompt":"x","runs":[],"runs_count":1}]}`, true},
		{"empty task name", `{"experiment_info":{"total_experiments":1,"tasks":[],"tone_patterns":[],"execution_date":"","model":""},"results":[{"task_name":"","task_type":"question","tone_pattern":"p","prompt":"x","runs":[{"run_number":1,"response":null,"response_length":0,"execution_time_seconds":0,"success":false}],"runs_count":1}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := result.ValidateResults([]byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateResults() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var se *result.SchemaError
			if !errors.As(err, &se) || len(se.Violations) == 0 {
				t.Errorf("expected SchemaError with violations, got %v", err)
			}
		})
	}
}

func TestValidateResultsMalformed(t *testing.T) {
	err := result.ValidateResults([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected error")
	}
	var se *result.SchemaError
	if errors.As(err, &se) {
		t.Errorf("malformed JSON should not be a SchemaError: %v", err)
	}
	if !strings.Contains(err.Error(), "schema validation error") {
		t.Errorf("unexpected message: %v", err)
	}
}
