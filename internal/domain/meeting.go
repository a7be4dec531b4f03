package domain

// Meeting is a catalog candidate in canonical form. All enum-valued fields
// hold the canonical vocabulary (see the norm package); upstream casing and
// language variants never reach this type.
//
// CurrentParticipants <= MaxParticipants is the catalog's invariant, not
// ours: the core trusts the upstream record.
type Meeting struct {
	ID        int64   `json:"meeting_id"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	Category     string `json:"category"`
	Subcategory  string `json:"subcategory"`
	TimeSlot     string `json:"time_slot,omitempty"`
	LocationType string `json:"location_type,omitempty"`
	Vibe         string `json:"vibe,omitempty"`

	MaxParticipants     int `json:"max_participants"`
	CurrentParticipants int `json:"current_participants"`
	ExpectedCost        int `json:"expected_cost"`

	AvgRating   float64 `json:"avg_rating"`
	RatingCount int     `json:"rating_count"`

	// DistanceKm is nil when the catalog did not precompute it; the feature
	// builder then derives it from coordinates.
	DistanceKm *float64 `json:"distance_km,omitempty"`

	// UI passthrough, untouched by scoring.
	Title           string `json:"title,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	LocationName    string `json:"location_name,omitempty"`
	LocationAddress string `json:"location_address,omitempty"`
	MeetingTime     string `json:"meeting_time,omitempty"`
}

// ScoredMeeting is a Meeting with ranking output attached.
type ScoredMeeting struct {
	Meeting

	PredictedRating float64  `json:"predicted_rating"`
	MatchScore      int      `json:"match_score"`
	Intent          string   `json:"intent,omitempty"`
	KeyPoints       []string `json:"key_points"`
	Rationale       string   `json:"reasoning,omitempty"`
}

// RecommendationResult is the full response envelope for one request.
type RecommendationResult struct {
	UserPrompt      string          `json:"user_prompt"`
	ParsedQuery     ParsedQuery     `json:"parsed_query"`
	TotalCandidates int             `json:"total_candidates"`
	Recommendations []ScoredMeeting `json:"recommendations"`
	SearchTrace     SearchTrace     `json:"search_trace"`
}
