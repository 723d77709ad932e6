package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/amdal/case-copilot/internal/domain/entity"
)

// GPT is an Oracles implementation that asks a chat model to produce the
// narrative portions of each result while keeping the deterministic oracle
// shapes. It exists to show how a real service slots in behind the same
// interface; the engine treats any error as an oracle failure and holds the
// current stage.
type GPT struct {
	client      *openai.Client
	fallback    *Simulated
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewGPT creates a GPT-backed oracle set.
func NewGPT(apiKey, model string, temperature float32, logger *zap.Logger) *GPT {
	return &GPT{
		client:      openai.NewClient(apiKey),
		fallback:    NewSimulated(),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// CheckEligibility runs the eligibility check with a model-written note.
func (g *GPT) CheckEligibility(ctx context.Context, caseID string) (*entity.EligibilityResult, error) {
	base, _ := g.fallback.CheckEligibility(ctx, caseID)

	prompt := fmt.Sprintf(
		"A dental reimbursement case was checked against %s and came back %q. "+
			"Write a one-sentence note for the biller explaining what to confirm next. "+
			"Respond with JSON: {\"notes\": \"...\"}", base.Program, base.Status)

	var out struct {
		Notes string `json:"notes"`
	}
	if err := g.complete(ctx, prompt, &out); err != nil {
		return nil, fmt.Errorf("eligibility narrative: %w", err)
	}
	if out.Notes != "" {
		base.Notes = out.Notes
	}
	return base, nil
}

// ConvertCodes keeps the deterministic mapping; the issue wording is the
// contract other stages reference, so it is not rewritten.
func (g *GPT) ConvertCodes(ctx context.Context, caseID string) (*entity.ConversionResult, error) {
	return g.fallback.ConvertCodes(ctx, caseID)
}

// RCMReview asks the model to phrase the expert response and instructions.
func (g *GPT) RCMReview(ctx context.Context, caseID string) (*entity.RCMReview, error) {
	base, _ := g.fallback.RCMReview(ctx, caseID)

	prompt := "An RCM expert reviewed a potential duplicate billing of CDT code D7955 and confirmed the " +
		"procedure occurred at a different location. Write her response and the instruction for the biller. " +
		"Respond with JSON: {\"response\": \"...\", \"instructions\": \"...\"}"

	var out struct {
		Response     string `json:"response"`
		Instructions string `json:"instructions"`
	}
	if err := g.complete(ctx, prompt, &out); err != nil {
		return nil, fmt.Errorf("rcm narrative: %w", err)
	}
	if out.Response != "" {
		base.Response = out.Response
	}
	if out.Instructions != "" {
		base.Instructions = out.Instructions
	}
	return base, nil
}

// Forecast keeps the fixed amount/timeline/risk and rewrites the summary.
func (g *GPT) Forecast(ctx context.Context, caseID string) (*entity.ReimbursementForecast, error) {
	base, _ := g.fallback.Forecast(ctx, caseID)

	prompt := fmt.Sprintf(
		"A reimbursement forecast projects $%.2f over %s at %s risk. Write a one-sentence summary for the "+
			"case dashboard. Respond with JSON: {\"summary\": \"...\"}",
		base.Amount, base.Timeline, base.Risk)

	var out struct {
		Summary string `json:"summary"`
	}
	if err := g.complete(ctx, prompt, &out); err != nil {
		return nil, fmt.Errorf("forecast narrative: %w", err)
	}
	if out.Summary != "" {
		base.Summary = out.Summary
	}
	return base, nil
}

// complete sends a single-turn chat completion and unmarshals the JSON reply.
func (g *GPT) complete(ctx context.Context, prompt string, out interface{}) error {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a revenue-cycle assistant for a dental practice. Always respond with valid JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		g.logger.Error("OpenAI API call failed", zap.Error(err))
		return fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), out); err != nil {
		// Models occasionally wrap JSON in markdown code fences
		if jsonStr := extractJSON(content); jsonStr != "" {
			if err := json.Unmarshal([]byte(jsonStr), out); err == nil {
				return nil
			}
		}
		return fmt.Errorf("failed to parse model response: %w", err)
	}
	return nil
}

// extractJSON pulls a JSON object out of a ```json fenced block.
func extractJSON(content string) string {
	start := strings.Index(content, "```json")
	if start == -1 {
		start = strings.Index(content, "```")
		if start == -1 {
			return ""
		}
		start += 3
	} else {
		start += 7
	}

	end := strings.Index(content[start:], "```")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(content[start : start+end])
}

var _ Oracles = (*GPT)(nil)
