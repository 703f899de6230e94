// Package incident defines the incident record model shared by the
// intake pipeline, the session store, and the gateway handlers.
package incident

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Record is a stored incident report. Records are immutable once
// constructed: there is no edit path, only creation and read.
type Record struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	PhotoURL    string `json:"photoUrl"`
	// PhotoHint is a free-text hint for placeholder/accessibility use.
	// Empty for user-submitted records.
	PhotoHint           string `json:"photoHint"`
	Location            LatLng `json:"location"`
	Category            string `json:"category"`
	Severity            string `json:"severity"`
	RequiresHumanReview bool   `json:"requiresHumanReview"`
	// Timestamp is the creation instant in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// NewID returns a fresh opaque record id.
func NewID() string { return uuid.NewString() }

// NowMillis returns the current time in epoch milliseconds.
func NowMillis() int64 { return time.Now().UnixMilli() }

// Category and Severity on Record are open strings: the classifier may
// emit values outside the suggested sets and consumers must not reject
// them. The closed enums below exist only for UI affordances (icon
// choice, badge color) and map unknown values to a generic fallback.

type Category string

const (
	CategoryVandalism Category = "Vandalism"
	CategoryTheft     Category = "Theft"
	CategoryAccident  Category = "Accident"
	CategoryAssault   Category = "Assault"
	CategoryOther     Category = "Other"
)

type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// CategoryForUI maps an open category string onto the closed UI set,
// falling back to CategoryOther for anything unrecognized.
func CategoryForUI(raw string) Category {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "vandalism":
		return CategoryVandalism
	case "theft":
		return CategoryTheft
	case "accident":
		return CategoryAccident
	case "assault":
		return CategoryAssault
	default:
		return CategoryOther
	}
}

// SeverityForUI maps an open severity string onto the closed UI set,
// falling back to SeverityMedium for anything unrecognized.
func SeverityForUI(raw string) Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return SeverityLow
	case "medium":
		return SeverityMedium
	case "high":
		return SeverityHigh
	case "critical":
		return SeverityCritical
	default:
		return SeverityMedium
	}
}
