package model

import "time"

// StationCategory represents a known charging-station brand or network.
type StationCategory struct {
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	ColorHex  string    `json:"color_hex"`
	Icon      string    `json:"icon"`
	ID        int       `json:"id"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
}

// ResolutionStatus indicates how a candidate station name was resolved
// against the known categories.
type ResolutionStatus string

// Resolution status constants.
const (
	StationMatched    ResolutionStatus = "MATCHED"
	StationUnmatched  ResolutionStatus = "UNMATCHED"
	NoStationDetected ResolutionStatus = "NO_STATION_DETECTED"
)

// StationResolution is the matcher's verdict for one candidate name.
// Category is set only for StationMatched; Candidate only for
// StationUnmatched.
type StationResolution struct {
	Status    ResolutionStatus
	Candidate string
	Category  *StationCategory
}

// Matched builds a resolution for a successful containment match.
func Matched(cat StationCategory) StationResolution {
	return StationResolution{Status: StationMatched, Category: &cat}
}

// Unmatched builds a resolution for a candidate no known category contains.
func Unmatched(candidate string) StationResolution {
	return StationResolution{Status: StationUnmatched, Candidate: candidate}
}

// NoStation builds a resolution for a scan with no station name at all.
func NoStation() StationResolution {
	return StationResolution{Status: NoStationDetected}
}

// NeedsDecision reports whether the resolution requires user input before
// the ingestion can complete.
func (r StationResolution) NeedsDecision() bool {
	return r.Status == StationUnmatched
}

// PendingResolution carries everything the decision prompt needs to show:
// the unmatched candidate, the draft extracted so far, and the known
// categories the user could pick from instead.
type PendingResolution struct {
	Candidate     string
	Draft         ExtractionDraft
	AllCategories []StationCategory
}
