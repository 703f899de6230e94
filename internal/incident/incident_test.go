package incident

import "testing"

func TestCategoryForUI(t *testing.T) {
	cases := map[string]Category{
		"Vandalism":       CategoryVandalism,
		"theft":           CategoryTheft,
		" Accident ":      CategoryAccident,
		"ASSAULT":         CategoryAssault,
		"Other":           CategoryOther,
		"Wildlife Hazard": CategoryOther,
		"":                CategoryOther,
	}
	for raw, want := range cases {
		if got := CategoryForUI(raw); got != want {
			t.Fatalf("CategoryForUI(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestSeverityForUI(t *testing.T) {
	cases := map[string]Severity{
		"low":          SeverityLow,
		"Medium":       SeverityMedium,
		"HIGH":         SeverityHigh,
		"critical":     SeverityCritical,
		"catastrophic": SeverityMedium,
		"":             SeverityMedium,
	}
	for raw, want := range cases {
		if got := SeverityForUI(raw); got != want {
			t.Fatalf("SeverityForUI(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == "" || a == b {
		t.Fatalf("NewID() not unique: %q %q", a, b)
	}
}

func TestSeed(t *testing.T) {
	recs := Seed()
	if len(recs) != 3 {
		t.Fatalf("Seed() len = %d", len(recs))
	}
	seen := map[string]bool{}
	for _, r := range recs {
		if r.ID == "" || seen[r.ID] {
			t.Fatalf("seed id %q duplicated or empty", r.ID)
		}
		seen[r.ID] = true
		if r.Description == "" || r.PhotoURL == "" || r.Category == "" || r.Severity == "" {
			t.Fatalf("seed record incomplete: %+v", r)
		}
	}
}
