// Package intent infers the coarse mood of a request (quiet, active, neutral)
// and applies a rule-based score correction on top of the model's rating.
// Intent never filters candidates, it only shifts their scores.
package intent

import "strings"

// Intent is the coarse mood classification of one request.
type Intent string

const (
	Quiet   Intent = "QUIET"
	Active  Intent = "ACTIVE"
	Neutral Intent = "NEUTRAL"
)

// Classifier detects intent from the raw prompt and the parsed vibe.
// Quiet markers win over active markers when both appear.
type Classifier struct {
	quietWords  []string
	activeWords []string
	quietVibes  map[string]struct{}
}

// NewClassifier creates a classifier with the default Korean word lists.
func NewClassifier() *Classifier {
	return &Classifier{
		quietWords:  []string{"조용", "쉬", "힐링", "편하게", "여유", "카페", "대화", "산책", "전시", "독서", "쉬고"},
		activeWords: []string{"러닝", "운동", "뛰", "배드민턴", "축구", "헬스", "등산", "클라이밍"},
		quietVibes:  map[string]struct{}{"힐링": {}, "여유로운": {}},
	}
}

// Classify returns exactly one intent for the request. The free text is
// checked first (quiet before active); the parsed vibe is the tie-breaker.
func (c *Classifier) Classify(prompt, vibe string) Intent {
	text := strings.ToLower(prompt)

	for _, w := range c.quietWords {
		if strings.Contains(text, w) {
			return Quiet
		}
	}
	for _, w := range c.activeWords {
		if strings.Contains(text, w) {
			return Active
		}
	}

	if _, ok := c.quietVibes[vibe]; ok {
		return Quiet
	}
	return Neutral
}
