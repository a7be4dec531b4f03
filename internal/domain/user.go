package domain

// Default user statistics substituted when the context service cannot provide
// history. The scoring model was trained with these priors.
const (
	DefaultUserAvgRating = 3.0
	DefaultUserRatingStd = 0.5
)

// Seoul city hall, the fallback coordinates when a user has no location.
const (
	DefaultLatitude  = 37.5665
	DefaultLongitude = 126.9780
)

// UserContext is the read-only per-user input to search and scoring.
type UserContext struct {
	UserID         int64   `json:"user_id"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Interests      string  `json:"interests"`
	TimePreference string  `json:"time_preference"`
	LocationPref   string  `json:"location_pref"`
	BudgetType     string  `json:"budget_type"`
	AvgRating      float64 `json:"avg_rating"`
	MeetingCount   int     `json:"meeting_count"`
	RatingStd      float64 `json:"rating_std"`
}

// DefaultUserContext returns the degraded context used when the user-context
// lookup fails. The request proceeds with reduced personalization instead of
// failing.
func DefaultUserContext(userID int64) UserContext {
	return UserContext{
		UserID:     userID,
		Latitude:   DefaultLatitude,
		Longitude:  DefaultLongitude,
		BudgetType: "VALUE",
	}
}
