package review

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sanix-darker/revu/internal/provider"
	"go.uber.org/zap"
)

// defaultTemperature keeps review output focused; findings should depend on
// the diff, not the sampler.
var defaultTemperature = 0.2

// Requester submits one hunk prompt per completion request and enforces the
// response contract. Every failure mode (transport, provider, malformed
// response) degrades to an empty finding list for that hunk so sibling hunks
// are never affected.
type Requester struct {
	ai     provider.AIProvider
	logger *zap.Logger
}

// NewRequester creates a Requester on top of an AI provider.
func NewRequester(ai provider.AIProvider, logger *zap.Logger) *Requester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Requester{ai: ai, logger: logger}
}

// Review sends the prompt and returns the model's findings, or nil when the
// hunk could not be reviewed. It never returns an error.
func (r *Requester) Review(ctx context.Context, prompt string) []Finding {
	temp := defaultTemperature
	req := provider.CompletionRequest{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: SystemPrompt},
			{Role: provider.RoleUser, Content: prompt},
		},
		Temperature:    &temp,
		ResponseFormat: provider.ResponseFormatJSON,
	}

	resp, err := r.ai.Complete(ctx, req)
	if err != nil {
		r.logger.Warn("completion request failed, skipping hunk", zap.Error(err))
		return nil
	}

	findings, ok := DecodeFindings(resp.Content)
	if !ok {
		r.logger.Warn("malformed completion response, skipping hunk",
			zap.String("content", truncate(resp.Content, 200)))
		return nil
	}
	return findings
}

// DecodeFindings parses a completion into findings. The response must be a
// JSON object carrying a "reviews" array; a fenced code block around the
// object is tolerated. The second return value is false when the response
// violates the contract (not JSON, or no "reviews" field).
func DecodeFindings(content string) ([]Finding, bool) {
	payload := stripFences(content)
	if payload == "" {
		return nil, false
	}

	var body struct {
		Reviews *[]Finding `json:"reviews"`
	}
	if err := json.Unmarshal([]byte(payload), &body); err != nil {
		return nil, false
	}
	if body.Reviews == nil {
		return nil, false
	}
	return *body.Reviews, true
}

// stripFences removes a surrounding markdown code fence, if any, and trims
// to the outermost JSON object.
func stripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) >= 3 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
			trimmed = strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
		}
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return ""
	}
	return trimmed[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
