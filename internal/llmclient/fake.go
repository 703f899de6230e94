package llmclient

import (
	"context"
	"encoding/json"
)

// FakeClient returns a deterministic classification payload for
// offline runs and tests.
type FakeClient struct {
	// Response overrides the default payload when set.
	Response json.RawMessage
	// Err, when set, is returned instead of a payload.
	Err error

	Calls int
}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any, media ...Media) (json.RawMessage, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.Response) > 0 {
		return f.Response, nil
	}
	b, _ := json.Marshal(map[string]any{
		"category":            "Other",
		"severity":            "Medium",
		"requiresHumanReview": false,
	})
	return json.RawMessage(b), nil
}
