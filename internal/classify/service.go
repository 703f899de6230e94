// Package classify maps an incident submission (description + photo)
// to a category, a severity, and a human-review flag by delegating to
// a hosted model, and fires the escalation hook for flagged results.
package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"safespot/internal/llmclient"
	"safespot/internal/photo"
)

// ErrUnavailable is returned when the classification backend cannot
// produce a complete result: transport failure, timeout, or a
// malformed or partial response.
var ErrUnavailable = errors.New("classify: classification backend unavailable")

// Request is one classification input.
type Request struct {
	Description  string `json:"description"`
	PhotoDataURI string `json:"photoDataUri"`
}

// Result is a complete classification. The service never returns a
// partially populated Result: on any failure the error carries the
// whole outcome.
type Result struct {
	Category            string `json:"category"`
	Severity            string `json:"severity"`
	RequiresHumanReview bool   `json:"requiresHumanReview"`
}

// Service performs classification calls against an LLM client.
type Service struct {
	client llmclient.LLMClient
	esc    Escalator
}

func New(client llmclient.LLMClient, esc Escalator) *Service {
	if esc == nil {
		esc = LogEscalator()
	}
	return &Service{client: client, esc: esc}
}

// Classify runs one classification. The backend is non-deterministic
// and has no latency bound; callers own any timeout on ctx. When the
// model flags the report, the escalator is invoked exactly once before
// Classify returns; its failure is logged, never propagated.
func (s *Service) Classify(ctx context.Context, req Request) (Result, error) {
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return Result{}, fmt.Errorf("classify: description is required")
	}
	ref, err := photo.ParseRef(req.PhotoDataURI)
	if err != nil {
		return Result{}, fmt.Errorf("classify: %w", err)
	}

	input := map[string]string{"description": desc}
	var media []llmclient.Media
	if ref.IsDataURI() {
		input["photo"] = "attached as an inline image"
		media = append(media, llmclient.Media{MIMEType: ref.MIMEType, Data: ref.Data})
	} else {
		input["photo"] = ref.URL
	}

	prompt, err := promptSpec.Render(input)
	if err != nil {
		return Result{}, fmt.Errorf("classify: build prompt: %w", err)
	}

	raw, err := s.client.GenerateJSON(ctx, prompt, input, media...)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	res, err := parseResult(raw)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if res.RequiresHumanReview {
		reason := fmt.Sprintf(
			"Incident classified as potentially sensitive and requires human review. Category: %s, Severity: %s",
			res.Category, res.Severity,
		)
		if ok := s.esc.Escalate(ctx, reason); !ok {
			log.Printf("escalation delivery failed: %s", reason)
		}
	}
	return res, nil
}

// parseResult enforces the complete-or-error contract: all three
// fields must be present and non-empty.
func parseResult(raw json.RawMessage) (Result, error) {
	var wire struct {
		Category            *string `json:"category"`
		Severity            *string `json:"severity"`
		RequiresHumanReview *bool   `json:"requiresHumanReview"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Result{}, fmt.Errorf("malformed response: %v", err)
	}
	if wire.Category == nil || strings.TrimSpace(*wire.Category) == "" {
		return Result{}, fmt.Errorf("response missing category")
	}
	if wire.Severity == nil || strings.TrimSpace(*wire.Severity) == "" {
		return Result{}, fmt.Errorf("response missing severity")
	}
	if wire.RequiresHumanReview == nil {
		return Result{}, fmt.Errorf("response missing requiresHumanReview")
	}
	return Result{
		Category:            strings.TrimSpace(*wire.Category),
		Severity:            strings.TrimSpace(*wire.Severity),
		RequiresHumanReview: *wire.RequiresHumanReview,
	}, nil
}
