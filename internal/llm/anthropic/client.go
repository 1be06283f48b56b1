package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lisaguthrie/sipdash/internal/llm"
)

// messagesResponse is the subset of the Messages API response we consume.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
		CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	} `json:"usage"`
}

// NormalizeFocus asks the model to map raw focus descriptions onto the
// fixed grade/student-group vocabulary. The large few-shot system prompt is
// marked for prompt caching, and the assistant turn is prefilled with a
// ```json fence (with a matching stop sequence) so the reply is bare JSON.
func (c *Client) NormalizeFocus(ctx context.Context, req llm.FocusRequest) (llm.FocusResult, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.focus.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"school", req.SchoolName,
		"focus_group_len", len(req.FocusGroup),
	)

	body := map[string]any{
		"model":          c.cfg.Model,
		"max_tokens":     focusMaxTokens,
		"stop_sequences": []string{"```"},
		"system": []map[string]any{
			{
				"type":          "text",
				"text":          llm.BuildFocusSystemPrompt(),
				"cache_control": map[string]any{"type": "ephemeral"},
			},
		},
		"messages": []map[string]any{
			{"role": "user", "content": llm.BuildFocusUserMessage(req)},
			{"role": "assistant", "content": "```json"},
		},
	}

	text, resp, err := c.send(ctx, body)
	if err != nil {
		c.log.Error("llm.focus.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.FocusResult{}, err
	}
	if n := resp.Usage.CacheCreationInputTokens; n > 0 {
		c.log.Debug("llm.focus.cache_created", "req_id", rid, "tokens", n)
	}
	if n := resp.Usage.CacheReadInputTokens; n > 0 {
		c.log.Debug("llm.focus.cache_hit", "req_id", rid, "tokens", n)
	}

	cleaned, dropped, err := llm.NormalizeAndSanitizeFocusJSON([]byte(text), c.log)
	if err != nil {
		c.log.Error("llm.focus.sanitize_failed",
			"req_id", rid, "error", err, "content", text,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.FocusResult{}, fmt.Errorf("sanitize focus response: %w", err)
	}
	if len(dropped) > 0 {
		c.log.Warn("llm.focus.lenient_sanitize_applied", "req_id", rid, "dropped", dropped)
	}

	schema := llm.BuildFocusJSONSchema()
	if err := llm.ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		c.log.Error("llm.focus.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(cleaned),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.FocusResult{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var out llm.FocusResult
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return llm.FocusResult{}, fmt.Errorf("unmarshal focus result: %w", err)
	}

	c.log.Info("llm.focus.ok",
		"req_id", rid,
		"focus_grades", out.FocusGrades,
		"focus_student_group", out.FocusStudentGroup,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// SummarizeActions asks the model for a short narrative of a goal's action
// plan. Callers substitute llm.SummaryUnavailable on error.
func (c *Client) SummarizeActions(ctx context.Context, req llm.SummaryRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.summary.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"school", req.SchoolName,
		"actions", len(req.Actions),
	)

	body := map[string]any{
		"model":      c.cfg.Model,
		"max_tokens": summaryMaxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": llm.BuildActionSummaryUserMessage(req)},
		},
	}

	text, _, err := c.send(ctx, body)
	if err != nil {
		c.log.Error("llm.summary.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}
	summary := strings.TrimSpace(text)
	if summary == "" {
		c.log.Error("llm.summary.empty_response", "req_id", rid)
		return "", fmt.Errorf("no text content in response")
	}

	c.log.Info("llm.summary.ok",
		"req_id", rid,
		"summary_len", len(summary),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return summary, nil
}

// send posts to /v1/messages and returns the first text block.
func (c *Client) send(ctx context.Context, body map[string]any) (string, messagesResponse, error) {
	endpoint := c.cfg.BaseURL + "/v1/messages"
	raw, _, err := llm.SendJSON(ctx, c.httpClient, endpoint, body, c.headers(), c.log)
	if err != nil {
		return "", messagesResponse{}, err
	}

	var resp messagesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", resp, fmt.Errorf("decode anthropic response: %w", err)
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, resp, nil
		}
	}
	return "", resp, fmt.Errorf("no text content in response")
}
