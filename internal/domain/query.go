package domain

// FilterConfidenceThreshold is the minimum parser confidence required before a
// guessed attribute (time slot, vibe) may act as a hard search filter. Below
// it the attribute still informs scoring and intent, but never excludes
// candidates.
const FilterConfidenceThreshold = 0.9

// ParsedQuery is the structured form of a free-text search request, produced
// by the query parser and optionally enriched with user context. Empty string
// means the attribute was not extracted.
type ParsedQuery struct {
	Keywords     []string `json:"keywords,omitempty"`
	Keyword      string   `json:"keyword,omitempty"`
	Category     string   `json:"category,omitempty"`
	Subcategory  string   `json:"subcategory,omitempty"`
	Vibe         string   `json:"vibe,omitempty"`
	TimeSlot     string   `json:"time_slot,omitempty"`
	LocationType string   `json:"location_type,omitempty"`
	Radius       float64  `json:"radius,omitempty"`
	Confidence   float64  `json:"confidence"`
}

// ShouldApplyTimeSlot reports whether the parsed time slot is trustworthy
// enough to act as a hard search filter.
func (q ParsedQuery) ShouldApplyTimeSlot() bool {
	return q.TimeSlot != "" && q.Confidence >= FilterConfidenceThreshold
}

// ShouldApplyVibe reports whether the parsed vibe is trustworthy enough to
// act as a hard search filter.
func (q ParsedQuery) ShouldApplyVibe() bool {
	return q.Vibe != "" && q.Confidence >= FilterConfidenceThreshold
}

// WithoutLowConfidenceFilters returns a copy with guess-prone attributes
// cleared unless the parser confidence clears the filter threshold.
func (q ParsedQuery) WithoutLowConfidenceFilters() ParsedQuery {
	out := q
	if !q.ShouldApplyTimeSlot() {
		out.TimeSlot = ""
	}
	if !q.ShouldApplyVibe() {
		out.Vibe = ""
	}
	return out
}
