package classify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safespot/internal/llmclient"
)

type recordingEscalator struct {
	calls   []string
	succeed bool
}

func (r *recordingEscalator) Escalate(_ context.Context, reason string) bool {
	r.calls = append(r.calls, reason)
	return r.succeed
}

func validPhoto() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("img"))
}

func TestClassifyReturnsBackendResult(t *testing.T) {
	fake := &llmclient.FakeClient{
		Response: json.RawMessage(`{"category":"Vandalism","severity":"Low","requiresHumanReview":false}`),
	}
	esc := &recordingEscalator{succeed: true}
	svc := New(fake, esc)

	res, err := svc.Classify(context.Background(), Request{
		Description:  "Graffiti on the wall",
		PhotoDataURI: validPhoto(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Vandalism", res.Category)
	assert.Equal(t, "Low", res.Severity)
	assert.False(t, res.RequiresHumanReview)
	assert.Empty(t, esc.calls, "escalator must not fire when review not required")
}

func TestClassifyEscalatesOnceWhenFlagged(t *testing.T) {
	fake := &llmclient.FakeClient{
		Response: json.RawMessage(`{"category":"Other","severity":"Medium","requiresHumanReview":true}`),
	}
	esc := &recordingEscalator{succeed: true}
	svc := New(fake, esc)

	res, err := svc.Classify(context.Background(), Request{
		Description:  "Broken streetlight",
		PhotoDataURI: validPhoto(),
	})
	require.NoError(t, err)
	assert.True(t, res.RequiresHumanReview)
	require.Len(t, esc.calls, 1)
	assert.Contains(t, esc.calls[0], "Other")
	assert.Contains(t, esc.calls[0], "Medium")
}

func TestClassifyEscalationFailureDoesNotFailClassification(t *testing.T) {
	fake := &llmclient.FakeClient{
		Response: json.RawMessage(`{"category":"Assault","severity":"Critical","requiresHumanReview":true}`),
	}
	esc := &recordingEscalator{succeed: false}
	svc := New(fake, esc)

	res, err := svc.Classify(context.Background(), Request{
		Description:  "Fight outside the bar",
		PhotoDataURI: validPhoto(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Assault", res.Category)
	require.Len(t, esc.calls, 1)
}

func TestClassifyBackendFailure(t *testing.T) {
	fake := &llmclient.FakeClient{Err: errors.New("deadline exceeded")}
	esc := &recordingEscalator{succeed: true}
	svc := New(fake, esc)

	_, err := svc.Classify(context.Background(), Request{
		Description:  "anything",
		PhotoDataURI: validPhoto(),
	})
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, esc.calls, "escalator must not fire on backend failure")
}

func TestClassifyRejectsPartialResponse(t *testing.T) {
	cases := []string{
		`{"category":"Theft","severity":"High"}`,
		`{"category":"","severity":"High","requiresHumanReview":false}`,
		`{"severity":"High","requiresHumanReview":false}`,
		`not json`,
	}
	for _, payload := range cases {
		fake := &llmclient.FakeClient{Response: json.RawMessage(payload)}
		svc := New(fake, &recordingEscalator{succeed: true})
		_, err := svc.Classify(context.Background(), Request{
			Description:  "anything",
			PhotoDataURI: validPhoto(),
		})
		require.ErrorIs(t, err, ErrUnavailable, "payload %s", payload)
	}
}

func TestClassifyRejectsBadInput(t *testing.T) {
	svc := New(llmclient.NewFakeClient(), &recordingEscalator{})

	_, err := svc.Classify(context.Background(), Request{Description: "", PhotoDataURI: validPhoto()})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)

	_, err = svc.Classify(context.Background(), Request{Description: "ok", PhotoDataURI: "nonsense"})
	require.Error(t, err)
}

func TestClassifyOpenEnumValuesPassThrough(t *testing.T) {
	fake := &llmclient.FakeClient{
		Response: json.RawMessage(`{"category":"Wildlife Hazard","severity":"Catastrophic","requiresHumanReview":false}`),
	}
	svc := New(fake, &recordingEscalator{})

	res, err := svc.Classify(context.Background(), Request{
		Description:  "Moose on the highway",
		PhotoDataURI: validPhoto(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Wildlife Hazard", res.Category)
	assert.Equal(t, "Catastrophic", res.Severity)
}
