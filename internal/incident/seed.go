package incident

import "time"

// Seed returns the sample incidents preloaded at process start when
// seeding is enabled. Timestamps are relative to now so the records
// sort naturally among fresh submissions.
func Seed() []Record {
	now := time.Now()
	return []Record{
		{
			ID:          "seed-1",
			Description: "Graffiti on the wall of the community center. Needs to be cleaned up.",
			PhotoURL:    "https://picsum.photos/seed/1/600/400",
			PhotoHint:   "graffiti wall",
			Location:    LatLng{Lat: 33.8707, Lng: 35.5624},
			Category:    "Vandalism",
			Severity:    "Low",
			Timestamp:   now.Add(-2 * time.Hour).UnixMilli(),
		},
		{
			ID:          "seed-2",
			Description: "A large pothole on Main St, causing issues for traffic.",
			PhotoURL:    "https://picsum.photos/seed/2/600/400",
			PhotoHint:   "street pothole",
			Location:    LatLng{Lat: 34.055, Lng: -118.245},
			Category:    "Other",
			Severity:    "Medium",
			Timestamp:   now.Add(-24 * time.Hour).UnixMilli(),
		},
		{
			ID:                  "seed-3",
			Description:         "Streetlight is broken near the park entrance. It is very dark at night.",
			PhotoURL:            "https://picsum.photos/seed/3/600/400",
			PhotoHint:           "broken streetlight",
			Location:            LatLng{Lat: 34.05, Lng: -118.25},
			Category:            "Other",
			Severity:            "Medium",
			RequiresHumanReview: true,
			Timestamp:           now.Add(-8 * time.Hour).UnixMilli(),
		},
	}
}
