// Package intake turns a raw submission into a stored incident
// record: validate, classify, construct, add. Failures are returned
// as typed errors and never leave partial state behind.
package intake

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"safespot/internal/classify"
	"safespot/internal/gateway/events"
	"safespot/internal/gateway/repository/archive"
	"safespot/internal/gateway/repository/media"
	"safespot/internal/incident"
	"safespot/internal/incident/store"
	"safespot/internal/photo"
)

// Submission is the transient user input; it is not persisted.
type Submission struct {
	Description  string          `json:"description"`
	PhotoDataURI string          `json:"photoDataUri"`
	Location     incident.LatLng `json:"location"`
}

// InvalidSubmissionError reports input rejected before any external
// call. The user corrects the named field and retries.
type InvalidSubmissionError struct {
	Field  string
	Reason string
}

func (e *InvalidSubmissionError) Error() string {
	return fmt.Sprintf("invalid submission: %s: %s", e.Field, e.Reason)
}

// ClassificationFailedError wraps a classification backend failure
// for presentation. The store is untouched; retrying the whole
// submission is safe.
type ClassificationFailedError struct {
	Err error
}

func (e *ClassificationFailedError) Error() string {
	return fmt.Sprintf("classification failed: %v", e.Err)
}

func (e *ClassificationFailedError) Unwrap() error { return e.Err }

// Message is the user-presentable failure text.
func (e *ClassificationFailedError) Message() string {
	return "Failed to classify the incident. Please try again."
}

// Classifier is the classification boundary consumed by the
// coordinator.
type Classifier interface {
	Classify(ctx context.Context, req classify.Request) (classify.Result, error)
}

// Coordinator validates submissions, classifies them, and adds the
// resulting records to the session store. Submissions are independent;
// any number may be in flight concurrently.
type Coordinator struct {
	classifier Classifier
	store      *store.Store
	photos     media.Store    // optional
	archive    *archive.Store // nil-safe
	hub        *events.Hub    // optional
	timeout    time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPhotoStore persists uploaded data-URI photos and rewrites the
// record's photo URL to the stored location.
func WithPhotoStore(s media.Store) Option {
	return func(c *Coordinator) { c.photos = s }
}

// WithArchive mirrors new records into the archive, best effort.
func WithArchive(a *archive.Store) Option {
	return func(c *Coordinator) { c.archive = a }
}

// WithEventHub broadcasts stored records on the hub.
func WithEventHub(h *events.Hub) Option {
	return func(c *Coordinator) { c.hub = h }
}

// WithTimeout bounds each classification call. Zero disables the
// bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.timeout = d }
}

func New(classifier Classifier, st *store.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		classifier: classifier,
		store:      st,
		timeout:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit runs the full intake pipeline for one submission and returns
// the stored record. On any error the store is unchanged.
func (c *Coordinator) Submit(ctx context.Context, sub Submission) (incident.Record, error) {
	ref, err := c.validate(sub)
	if err != nil {
		return incident.Record{}, err
	}

	cctx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	result, err := c.classifier.Classify(cctx, classify.Request{
		Description:  sub.Description,
		PhotoDataURI: sub.PhotoDataURI,
	})
	if err != nil {
		return incident.Record{}, &ClassificationFailedError{Err: err}
	}

	rec := incident.Record{
		ID:                  incident.NewID(),
		Description:         sub.Description,
		PhotoURL:            sub.PhotoDataURI,
		PhotoHint:           "",
		Location:            sub.Location,
		Category:            result.Category,
		Severity:            result.Severity,
		RequiresHumanReview: result.RequiresHumanReview,
		Timestamp:           incident.NowMillis(),
	}

	// Persist inline photos when a photo store is configured; on
	// failure the raw data URI stays on the record.
	if c.photos != nil && ref.IsDataURI() {
		if err := c.photos.Put(ctx, rec.ID, ref.MIMEType, ref.Data); err != nil {
			log.Printf("photo store put failed for %s: %v", rec.ID, err)
		} else if url, err := c.photos.URL(ctx, rec.ID); err == nil && url != "" {
			rec.PhotoURL = url
		}
	}

	if err := c.archive.Save(ctx, rec); err != nil {
		log.Printf("incident archive save failed for %s: %v", rec.ID, err)
	}

	c.store.AddIncident(rec)
	if c.hub != nil {
		c.hub.PublishIncidentAdded(rec)
	}
	return rec, nil
}

func (c *Coordinator) validate(sub Submission) (photo.Ref, error) {
	if strings.TrimSpace(sub.Description) == "" {
		return photo.Ref{}, &InvalidSubmissionError{Field: "description", Reason: "must not be empty"}
	}
	ref, err := photo.ParseRef(sub.PhotoDataURI)
	if err != nil {
		return photo.Ref{}, &InvalidSubmissionError{Field: "photoDataUri", Reason: err.Error()}
	}
	if !finite(sub.Location.Lat) || sub.Location.Lat < -90 || sub.Location.Lat > 90 {
		return photo.Ref{}, &InvalidSubmissionError{Field: "location.lat", Reason: "must be a finite latitude"}
	}
	if !finite(sub.Location.Lng) || sub.Location.Lng < -180 || sub.Location.Lng > 180 {
		return photo.Ref{}, &InvalidSubmissionError{Field: "location.lng", Reason: "must be a finite longitude"}
	}
	return ref, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
