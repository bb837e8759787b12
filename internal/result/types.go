package result

// ResultRecord is the outcome of one task x tone pattern pair.
type ResultRecord struct {
	TaskName    string      `json:"task_name"`
	TaskType    string      `json:"task_type"`
	TonePattern string      `json:"tone_pattern"`
	Prompt      string      `json:"prompt"`
	Runs        []RunRecord `json:"runs"`
	RunsCount   int         `json:"runs_count"`
	Statistics  *Statistics `json:"statistics,omitempty"`
	Timestamp   string      `json:"timestamp,omitempty"`
	Model       string      `json:"model,omitempty"`
}

// RunRecord is a single model invocation. Response, ExtractedValue, Usage
// and Error serialize as JSON null when unset.
type RunRecord struct {
	RunNumber            int     `json:"run_number"`
	Response             *string `json:"response"`
	ResponseLength       int     `json:"response_length"`
	ExecutionTimeSeconds float64 `json:"execution_time_seconds"`
	Success              bool    `json:"success"`
	ExtractedValue       *int    `json:"extracted_value"`
	Usage                *Usage  `json:"usage"`
	Error                *string `json:"error"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Statistics summarises the extracted values of a record's runs. Stdev, Min
// and Max are only set when at least two values were extracted.
type Statistics struct {
	Mean   *float64 `json:"mean,omitempty"`
	Stdev  *float64 `json:"stdev,omitempty"`
	Min    *int     `json:"min,omitempty"`
	Max    *int     `json:"max,omitempty"`
	Values []int    `json:"values,omitempty"`
}

type ExperimentInfo struct {
	RunID            string   `json:"run_id,omitempty"`
	TotalExperiments int      `json:"total_experiments"`
	Tasks            []string `json:"tasks"`
	TonePatterns     []string `json:"tone_patterns"`
	ExecutionDate    string   `json:"execution_date"`
	Model            string   `json:"model"`
}

// File is the on-disk results envelope.
type File struct {
	ExperimentInfo ExperimentInfo `json:"experiment_info"`
	Results        []ResultRecord `json:"results"`
}

// TotalUsage sums token usage over runs that reported it.
func TotalUsage(runs []RunRecord) (inputTokens, outputTokens int) {
	for _, r := range runs {
		if r.Usage == nil {
			continue
		}
		inputTokens += r.Usage.PromptTokens
		outputTokens += r.Usage.CompletionTokens
	}
	return
}

// SuccessCount returns the number of successful runs.
func SuccessCount(runs []RunRecord) int {
	n := 0
	for _, r := range runs {
		if r.Success {
			n++
		}
	}
	return n
}
