package intake

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safespot/internal/classify"
	"safespot/internal/gateway/repository/media"
	"safespot/internal/incident"
	"safespot/internal/incident/store"
	"safespot/internal/llmclient"
)

type stubClassifier struct {
	result classify.Result
	err    error
	calls  int
	gotCtx context.Context
}

func (s *stubClassifier) Classify(ctx context.Context, _ classify.Request) (classify.Result, error) {
	s.calls++
	s.gotCtx = ctx
	if s.err != nil {
		return classify.Result{}, s.err
	}
	return s.result, nil
}

func photoURI() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("photo"))
}

func TestSubmitSuccess(t *testing.T) {
	cls := &stubClassifier{result: classify.Result{
		Category:            "Other",
		Severity:            "Medium",
		RequiresHumanReview: true,
	}}
	st := store.New()
	coord := New(cls, st)

	before := time.Now().UnixMilli()
	loc := incident.LatLng{Lat: 34.05, Lng: -118.25}
	rec, err := coord.Submit(context.Background(), Submission{
		Description:  "Broken streetlight",
		PhotoDataURI: photoURI(),
		Location:     loc,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Broken streetlight", rec.Description)
	assert.Equal(t, loc, rec.Location)
	assert.Equal(t, "Other", rec.Category)
	assert.Equal(t, "Medium", rec.Severity)
	assert.True(t, rec.RequiresHumanReview)
	assert.Empty(t, rec.PhotoHint)
	assert.GreaterOrEqual(t, rec.Timestamp, before)

	require.Equal(t, 1, st.Len())
	got := st.Incidents()
	assert.Equal(t, rec.ID, got[0].ID, "new record must be at index 0")
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	cls := &stubClassifier{result: classify.Result{Category: "Other", Severity: "Low"}}
	st := store.New(incident.Seed()...)
	coord := New(cls, st)
	before := st.Incidents()

	cases := []struct {
		name string
		sub  Submission
	}{
		{"empty description", Submission{Description: "  ", PhotoDataURI: photoURI(), Location: incident.LatLng{Lat: 1, Lng: 2}}},
		{"missing photo", Submission{Description: "d", PhotoDataURI: "", Location: incident.LatLng{Lat: 1, Lng: 2}}},
		{"malformed photo", Submission{Description: "d", PhotoDataURI: "data:image/png,raw", Location: incident.LatLng{Lat: 1, Lng: 2}}},
		{"nan latitude", Submission{Description: "d", PhotoDataURI: photoURI(), Location: incident.LatLng{Lat: math.NaN(), Lng: 2}}},
		{"inf longitude", Submission{Description: "d", PhotoDataURI: photoURI(), Location: incident.LatLng{Lat: 1, Lng: math.Inf(1)}}},
		{"latitude out of range", Submission{Description: "d", PhotoDataURI: photoURI(), Location: incident.LatLng{Lat: 99, Lng: 2}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := coord.Submit(context.Background(), tc.sub)
			var invalid *InvalidSubmissionError
			require.ErrorAs(t, err, &invalid)
		})
	}

	assert.Equal(t, 0, cls.calls, "classifier must not be called for invalid input")
	assert.Equal(t, before, st.Incidents(), "store must be unchanged")
}

func TestSubmitClassificationFailure(t *testing.T) {
	cls := &stubClassifier{err: classify.ErrUnavailable}
	st := store.New()
	coord := New(cls, st)

	_, err := coord.Submit(context.Background(), Submission{
		Description:  "d",
		PhotoDataURI: photoURI(),
		Location:     incident.LatLng{Lat: 1, Lng: 2},
	})
	var failed *ClassificationFailedError
	require.ErrorAs(t, err, &failed)
	assert.ErrorIs(t, err, classify.ErrUnavailable)
	assert.NotEmpty(t, failed.Message())
	assert.Equal(t, 0, st.Len(), "no partial record on failure")
}

func TestSubmitAppliesTimeout(t *testing.T) {
	cls := &stubClassifier{result: classify.Result{Category: "Other", Severity: "Low"}}
	coord := New(cls, store.New(), WithTimeout(time.Minute))

	_, err := coord.Submit(context.Background(), Submission{
		Description:  "d",
		PhotoDataURI: photoURI(),
		Location:     incident.LatLng{Lat: 1, Lng: 2},
	})
	require.NoError(t, err)
	_, ok := cls.gotCtx.Deadline()
	assert.True(t, ok, "classify context must carry a deadline")
}

func TestSubmitStoresPhotoAndRewritesURL(t *testing.T) {
	cls := &stubClassifier{result: classify.Result{Category: "Other", Severity: "Low"}}
	photos := media.NewMemoryStore()
	st := store.New()
	coord := New(cls, st, WithPhotoStore(photos))

	rec, err := coord.Submit(context.Background(), Submission{
		Description:  "d",
		PhotoDataURI: photoURI(),
		Location:     incident.LatLng{Lat: 1, Lng: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/photos/"+rec.ID, rec.PhotoURL)

	data, mimeType, err := photos.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)
	assert.Equal(t, []byte("photo"), data)
}

func TestSubmitKeepsURLReferencesVerbatim(t *testing.T) {
	cls := &stubClassifier{result: classify.Result{Category: "Other", Severity: "Low"}}
	coord := New(cls, store.New(), WithPhotoStore(media.NewMemoryStore()))

	rec, err := coord.Submit(context.Background(), Submission{
		Description:  "d",
		PhotoDataURI: "https://picsum.photos/seed/9/600/400",
		Location:     incident.LatLng{Lat: 1, Lng: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://picsum.photos/seed/9/600/400", rec.PhotoURL)
}

func TestSubmitResetsSessionState(t *testing.T) {
	cls := &stubClassifier{result: classify.Result{Category: "Other", Severity: "Low"}}
	st := store.New()
	st.SetPendingLocation(incident.LatLng{Lat: 1, Lng: 2})
	coord := New(cls, st)

	_, err := coord.Submit(context.Background(), Submission{
		Description:  "d",
		PhotoDataURI: photoURI(),
		Location:     incident.LatLng{Lat: 1, Lng: 2},
	})
	require.NoError(t, err)
	sess := st.Session()
	assert.Equal(t, store.SheetNone, sess.ActiveSheet)
	assert.Nil(t, sess.PendingLocation)
	assert.Nil(t, sess.Selected)
}

type countingEscalator struct{ calls []string }

func (c *countingEscalator) Escalate(_ context.Context, reason string) bool {
	c.calls = append(c.calls, reason)
	return true
}

// Full pipeline through the real classification service: the
// escalation fires exactly once, before Submit returns.
func TestSubmitEscalatesExactlyOnce(t *testing.T) {
	esc := &countingEscalator{}
	fake := &llmclient.FakeClient{
		Response: json.RawMessage(`{"category":"Other","severity":"Medium","requiresHumanReview":true}`),
	}
	st := store.New()
	coord := New(classify.New(fake, esc), st)

	rec, err := coord.Submit(context.Background(), Submission{
		Description:  "Broken streetlight",
		PhotoDataURI: photoURI(),
		Location:     incident.LatLng{Lat: 34.05, Lng: -118.25},
	})
	require.NoError(t, err)
	require.Len(t, esc.calls, 1)
	assert.Contains(t, esc.calls[0], "Other")
	assert.Contains(t, esc.calls[0], "Medium")
	assert.True(t, rec.RequiresHumanReview)
	assert.Equal(t, 1, st.Len())
}

func TestSubmitBackendDownNeverEscalates(t *testing.T) {
	esc := &countingEscalator{}
	fake := &llmclient.FakeClient{Err: errors.New("timeout")}
	st := store.New()
	coord := New(classify.New(fake, esc), st)

	_, err := coord.Submit(context.Background(), Submission{
		Description:  "d",
		PhotoDataURI: photoURI(),
		Location:     incident.LatLng{Lat: 1, Lng: 2},
	})
	var failed *ClassificationFailedError
	require.ErrorAs(t, err, &failed)
	assert.Empty(t, esc.calls)
	assert.Equal(t, 0, st.Len())
}

func TestClassificationFailedErrorWraps(t *testing.T) {
	cause := errors.New("boom")
	err := &ClassificationFailedError{Err: cause}
	assert.ErrorIs(t, err, cause)
}
