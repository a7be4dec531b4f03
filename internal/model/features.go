// Package model holds the feature engineering that feeds the regression
// model. The model itself runs on the inference server; this package only
// turns a (user, meeting) pair into the numeric row the model was trained on,
// keeping the named sub-scores that later become human-readable key points.
package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/moimlab/recs/internal/domain"
	"github.com/moimlab/recs/internal/domain/norm"
)

const earthRadiusKm = 6371.0

// Cost reference for the budget match feature, in KRW. Tuned with the model.
const costReference = 50000.0

// FeatureVector carries the named sub-scores of one (user, meeting) pair.
// It exists only during scoring; afterwards only the key points derived from
// it survive.
type FeatureVector struct {
	DistanceKm         float64
	TimeMatch          float64
	LocationTypeMatch  float64
	CostMatchScore     float64
	InterestMatchScore float64
}

// Builder turns a user context and a canonical meeting into the model's
// feature row. It is a read-only singleton shared across requests.
type Builder struct{}

// NewBuilder creates a feature builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build computes the feature vector and the numeric row for one candidate.
// It fails when the pair cannot be featurized (no way to establish distance);
// the caller skips that single candidate.
func (b *Builder) Build(u domain.UserContext, m domain.Meeting) (FeatureVector, []float64, error) {
	dist, err := distanceKm(u, m)
	if err != nil {
		return FeatureVector{}, nil, err
	}

	f := FeatureVector{
		DistanceKm:         dist,
		TimeMatch:          matchScore(u.TimePreference, m.TimeSlot),
		LocationTypeMatch:  matchScore(u.LocationPref, m.LocationType),
		CostMatchScore:     costMatch(u.BudgetType, m.ExpectedCost),
		InterestMatchScore: interestMatch(u.Interests, m),
	}

	avgRating := u.AvgRating
	ratingStd := u.RatingStd
	if u.MeetingCount == 0 {
		// Cold users get the training priors instead of their empty history.
		avgRating = domain.DefaultUserAvgRating
		ratingStd = domain.DefaultUserRatingStd
	}

	capacityRatio := 0.0
	if m.MaxParticipants > 0 {
		capacityRatio = float64(m.CurrentParticipants) / float64(m.MaxParticipants)
	}

	row := []float64{
		f.DistanceKm,
		f.TimeMatch,
		f.LocationTypeMatch,
		f.CostMatchScore,
		f.InterestMatchScore,
		budgetFlag(u.BudgetType),
		avgRating,
		float64(u.MeetingCount),
		ratingStd,
		m.AvgRating,
		float64(m.RatingCount),
		float64(m.ExpectedCost),
		capacityRatio,
	}

	return f, row, nil
}

// distanceKm prefers the catalog's precomputed distance, falling back to the
// haversine great-circle distance between user and meeting coordinates.
func distanceKm(u domain.UserContext, m domain.Meeting) (float64, error) {
	if m.DistanceKm != nil {
		return *m.DistanceKm, nil
	}
	if m.Latitude == 0 && m.Longitude == 0 {
		return 0, fmt.Errorf("meeting %d has no coordinates and no precomputed distance", m.ID)
	}
	return haversineKm(u.Latitude, u.Longitude, m.Latitude, m.Longitude), nil
}

// haversineKm returns the great-circle distance in kilometres between two
// points in decimal degrees.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// matchScore is 1.0 when both sides are set and equal, otherwise 0.0.
func matchScore(pref, actual string) float64 {
	if pref != "" && actual != "" && pref == actual {
		return 1.0
	}
	return 0.0
}

// costMatch scores how well a meeting's expected cost fits the budget tier.
// Value seekers prefer cheap meetings; quality seekers are cost-indifferent
// up to the reference and taper beyond twice of it.
func costMatch(budgetType string, expectedCost int) float64 {
	cost := float64(expectedCost)
	if norm.BudgetForModel(budgetType) == norm.BudgetQuality {
		if cost <= costReference {
			return 1.0
		}
		return clamp01(1.0 - (cost-costReference)/costReference)
	}
	return clamp01(1.0 - cost/costReference)
}

// interestMatch is the fraction of the user's comma-separated interest tags
// that appear in the meeting's category, subcategory, vibe, or title.
func interestMatch(interests string, m domain.Meeting) float64 {
	tags := splitTags(interests)
	if len(tags) == 0 {
		return 0.0
	}

	haystack := strings.ToLower(m.Category + " " + m.Subcategory + " " + m.Vibe + " " + m.Title)
	matched := 0
	for _, tag := range tags {
		if strings.Contains(haystack, strings.ToLower(tag)) {
			matched++
		}
	}
	return float64(matched) / float64(len(tags))
}

func splitTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func budgetFlag(budgetType string) float64 {
	if norm.BudgetForModel(budgetType) == norm.BudgetQuality {
		return 1.0
	}
	return 0.0
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}
