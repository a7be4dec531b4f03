package domain

// DefaultCFScore stands in for a missing collaborative-filtering score.
const DefaultCFScore = 3.5

// CFRecommendation is one collaborative-filtering hit: a meeting the user has
// not joined yet plus its predicted affinity on the rating scale.
type CFRecommendation struct {
	MeetingID int64   `json:"meeting_id"`
	Score     float64 `json:"score"`
}
