package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/grigorel/gemcord/internal/config"
	"github.com/grigorel/gemcord/internal/core"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// APIError carries the diagnostic payload of a failed or blocked generation:
// HTTP status and body for transport errors, candidates and prompt feedback
// for content-policy rejections.
type APIError struct {
	StatusCode     int
	Body           string
	Candidates     json.RawMessage
	PromptFeedback json.RawMessage
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		return fmt.Sprintf("gemini api returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("gemini returned no candidates (prompt feedback: %s)", string(e.PromptFeedback))
}

type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string

	genCfg generationConfig
	safety []safetySetting
}

func NewClient(cfg *config.GeminiConfig) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL: defaultBaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		genCfg: generationConfig{
			Temperature:     cfg.Temperature,
			TopP:            cfg.TopP,
			TopK:            cfg.TopK,
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
	}
	if cfg.SafetyThreshold != "" {
		for _, category := range harmCategories {
			c.safety = append(c.safety, safetySetting{Category: category, Threshold: cfg.SafetyThreshold})
		}
	}
	return c
}

// Generate sends the ordered conversation plus the new user parts and returns
// the generated text. The API is stateless: the full log travels on every
// call. An empty string with nil error means the model produced no text.
func (c *Client) Generate(ctx context.Context, history []core.Turn, parts []core.Part) (string, error) {
	contents := make([]content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, toWireContent(turn))
	}
	contents = append(contents, content{Role: core.RoleUser, Parts: toWireParts(parts)})

	payload := generateRequest{
		Contents:         contents,
		GenerationConfig: c.genCfg,
		SafetySettings:   c.safety,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	path := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("User-Agent", core.BotUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var result generateResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	// No candidates means the prompt was rejected (safety block or similar).
	if len(result.Candidates) == 0 {
		return "", &APIError{
			StatusCode:     resp.StatusCode,
			PromptFeedback: result.PromptFeedback,
		}
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
