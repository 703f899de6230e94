// Package store holds the in-session incident state: the ordered
// record list plus the sheet/selection state the map UI reads.
// It is thread-safe; reads return copies.
package store

import (
	"sync"

	"safespot/internal/incident"
)

// SheetMode identifies which panel the UI is showing.
type SheetMode string

const (
	SheetNone    SheetMode = ""
	SheetReport  SheetMode = "report"
	SheetDetails SheetMode = "details"
)

// Session is a snapshot of the UI-facing selection state.
// At most one sheet is active; Selected is non-nil only in details
// mode.
type Session struct {
	ActiveSheet     SheetMode        `json:"activeSheet"`
	Selected        *incident.Record `json:"selectedIncident,omitempty"`
	PendingLocation *incident.LatLng `json:"pendingLocation,omitempty"`
}

// Store is the single source of truth for incident records and
// session state within a process. Records are newest-first and are
// never removed or edited.
type Store struct {
	mu       sync.RWMutex
	records  []incident.Record
	sheet    SheetMode
	selected *incident.Record
	pending  *incident.LatLng
}

// New creates a store preloaded with the given records, kept in the
// order supplied (newest first).
func New(records ...incident.Record) *Store {
	s := &Store{}
	s.records = append(s.records, records...)
	return s
}

// AddIncident prepends rec and atomically resets the session state:
// sheet closed, selection cleared, pending location cleared. This is
// the only operation that grows the record list.
func (s *Store) AddIncident(rec incident.Record) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.records = append([]incident.Record{rec}, s.records...)
	s.sheet = SheetNone
	s.selected = nil
	s.pending = nil
	s.mu.Unlock()
}

// OpenReportSheet switches to report mode and clears both the
// selection and any pending location.
func (s *Store) OpenReportSheet() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.sheet = SheetReport
	s.selected = nil
	s.pending = nil
	s.mu.Unlock()
}

// OpenDetailsSheet switches to details mode for rec. Callers are
// expected to pass a record already known to the store.
func (s *Store) OpenDetailsSheet(rec incident.Record) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.sheet = SheetDetails
	r := rec
	s.selected = &r
	s.mu.Unlock()
}

// CloseSheet closes any open sheet and clears the selection. The
// pending location is deliberately preserved so an in-progress report
// is not lost when the panel is dismissed and reopened.
func (s *Store) CloseSheet() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.sheet = SheetNone
	s.selected = nil
	s.mu.Unlock()
}

// SetPendingLocation records the coordinates for a not-yet-submitted
// report and forces report mode, clearing the selection.
func (s *Store) SetPendingLocation(loc incident.LatLng) {
	if s == nil {
		return
	}
	s.mu.Lock()
	l := loc
	s.pending = &l
	s.sheet = SheetReport
	s.selected = nil
	s.mu.Unlock()
}

// ClearPendingLocation clears the pending location only.
func (s *Store) ClearPendingLocation() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// Incidents returns a copy of the record list, newest first.
func (s *Store) Incidents() []incident.Record {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]incident.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (incident.Record, bool) {
	if s == nil {
		return incident.Record{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return incident.Record{}, false
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Session returns a snapshot of the selection state.
func (s *Store) Session() Session {
	if s == nil {
		return Session{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Session{ActiveSheet: s.sheet}
	if s.selected != nil {
		r := *s.selected
		snap.Selected = &r
	}
	if s.pending != nil {
		l := *s.pending
		snap.PendingLocation = &l
	}
	return snap
}
