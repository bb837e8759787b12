package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/signalnine/tonebench/internal/logging"
	"github.com/signalnine/tonebench/internal/result"
)

// Client sends single prompts to an OpenAI-compatible Responses API.
type Client struct {
	BaseURL         string
	APIKey          string
	MaxOutputTokens int
	HTTPClient      *http.Client
}

type Opts struct {
	BaseURL         string
	APIKeyEnv       string
	Timeout         time.Duration
	MaxOutputTokens int
}

// Response is the text output and token usage of one call. Usage is nil
// when the API did not report it.
type Response struct {
	Text  string
	Usage *result.Usage
}

// New builds a client, reading the API key from opts.APIKeyEnv.
func New(opts *Opts) (*Client, error) {
	key := os.Getenv(opts.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%s not set", opts.APIKeyEnv)
	}
	return &Client{
		BaseURL:         strings.TrimRight(opts.BaseURL, "/"),
		APIKey:          key,
		MaxOutputTokens: opts.MaxOutputTokens,
		HTTPClient:      &http.Client{Timeout: opts.Timeout},
	}, nil
}

// LoadEnvFile loads KEY=VALUE pairs into the process environment without
// overriding variables that are already set.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("reading secrets env file: %w", err)
	}
	return nil
}

type responsesRequest struct {
	Model           string `json:"model"`
	Input           string `json:"input"`
	MaxOutputTokens int    `json:"max_output_tokens,omitempty"`
}

type responsesResult struct {
	OutputText *string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *Client) Generate(ctx context.Context, model, prompt string) (*Response, error) {
	log := logging.New("gateway")
	bodyBytes, err := json.Marshal(responsesRequest{
		Model:           model,
		Input:           prompt,
		MaxOutputTokens: c.MaxOutputTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/responses", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	log.Debug("sending prompt", "model", model, "prompt_chars", len([]rune(prompt)))
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out responsesResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	r := &Response{Text: outputText(&out)}
	if out.Usage != nil {
		r.Usage = &result.Usage{
			PromptTokens:     out.Usage.InputTokens,
			CompletionTokens: out.Usage.OutputTokens,
			TotalTokens:      out.Usage.TotalTokens,
		}
	}
	log.Debug("received response", "model", model, "chars", len([]rune(r.Text)))
	return r, nil
}

// outputText prefers the aggregated output_text field and otherwise joins
// the output_text parts of every message item.
func outputText(out *responsesResult) string {
	if out.OutputText != nil {
		return *out.OutputText
	}
	var sb strings.Builder
	for _, item := range out.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String()
}
