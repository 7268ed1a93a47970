package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mindscale/mindscale/internal/common"
	"github.com/mindscale/mindscale/internal/models"
)

const (
	DefaultBaseURL = "https://api.deepseek.com"
	DefaultModel   = "deepseek-chat"
)

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	client *resty.Client
	model  string
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")
	return &Client{client: client, model: model}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// resultPayload is the wire shape of the analysis result; it carries no kind
// tag, the tag is ours.
type resultPayload struct {
	Summary         string                 `json:"summary"`
	Scores          models.Scores          `json:"scores"`
	FocusAnalysis   models.FocusAnalysis   `json:"focus_analysis"`
	NVCGuide        models.NVCGuide        `json:"nvc_guide"`
	KeyInsights     []string               `json:"key_insights"`
	Recommendations models.Recommendations `json:"recommendations"`
}

var fenceRe = regexp.MustCompile("(?i)```(?:json)?")

// Analyze sends the reflection text with the fixed rubric and parses the
// structured result. A parse failure is a full call failure, never a partial
// result.
func (c *Client) Analyze(ctx context.Context, text string) (models.Analysis, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt + "\n\n" + responseSchema},
			{Role: "user", Content: text},
		},
		Temperature: 1.3,
		MaxTokens:   2000,
	}
	req.ResponseFormat.Type = "json_object"

	var out chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		return models.Analysis{}, fmt.Errorf("%w: %v", common.ErrAnalysisFailed, err)
	}
	if resp.IsError() {
		if out.Error != nil && out.Error.Message != "" {
			return models.Analysis{}, fmt.Errorf("%w: %s (status %d)", common.ErrAnalysisFailed, out.Error.Message, resp.StatusCode())
		}
		return models.Analysis{}, fmt.Errorf("%w: status %d", common.ErrAnalysisFailed, resp.StatusCode())
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return models.Analysis{}, fmt.Errorf("%w: empty response content", common.ErrAnalysisFailed)
	}

	// Some models wrap the JSON in markdown fences despite the instructions.
	content := strings.TrimSpace(fenceRe.ReplaceAllString(out.Choices[0].Message.Content, ""))

	var payload resultPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return models.Analysis{}, fmt.Errorf("%w: malformed response: %v", common.ErrAnalysisFailed, err)
	}
	if err := validateScores(payload.Scores); err != nil {
		return models.Analysis{}, fmt.Errorf("%w: %v", common.ErrAnalysisFailed, err)
	}

	return models.Analysis{
		Kind:            models.AnalysisAnalyzed,
		Summary:         payload.Summary,
		Scores:          payload.Scores,
		FocusAnalysis:   payload.FocusAnalysis,
		NVCGuide:        payload.NVCGuide,
		KeyInsights:     payload.KeyInsights,
		Recommendations: payload.Recommendations,
	}, nil
}

func validateScores(s models.Scores) error {
	for name, v := range map[string]int{
		"calmness":  s.Calmness,
		"awareness": s.Awareness,
		"energy":    s.Energy,
	} {
		if v < -5 || v > 5 {
			return fmt.Errorf("score %s out of range: %d", name, v)
		}
	}
	return nil
}
