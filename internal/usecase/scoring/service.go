// Package scoring predicts a rating for each candidate and maps it onto the
// 0..100 match scale, attaching the human-readable key points derived from
// the feature vector.
package scoring

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/moimlab/recs/internal/domain"
	"github.com/moimlab/recs/internal/logger"
	"github.com/moimlab/recs/internal/metrics"
	"github.com/moimlab/recs/internal/model"
)

const (
	// Rating scale bounds of the catalog (1..5 stars).
	ratingMin = 1.0
	ratingMax = 5.0

	nearbyKeyPointKm = 3.0
	costKeyPointMin  = 0.7
	interestKeyMin   = 0.5

	maxKeyPoints = 3
)

// Service scores candidate batches.
type Service struct {
	features  FeatureBuilder
	regressor Regressor
}

// New creates a scoring service.
func New(features FeatureBuilder, regressor Regressor) *Service {
	return &Service{features: features, regressor: regressor}
}

// Score predicts a rating per candidate and returns scored meetings in the
// candidates' arrival order. Candidates whose features cannot be built are
// skipped, never failed. Returns domain.ErrModelNotReady when the model is
// not loaded.
func (s *Service) Score(
	ctx context.Context, u domain.UserContext, candidates []domain.Meeting,
) ([]domain.ScoredMeeting, error) {
	log := logger.FromContext(ctx)

	ready, err := s.regressor.Ready(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoring: readiness check: %w", err)
	}
	if !ready {
		return nil, domain.ErrModelNotReady
	}

	kept := make([]domain.Meeting, 0, len(candidates))
	vectors := make([]model.FeatureVector, 0, len(candidates))
	rows := make([][]float64, 0, len(candidates))
	for _, m := range candidates {
		fv, row, err := s.features.Build(u, m)
		if err != nil {
			log.Warn("skipping candidate, feature build failed",
				zap.Int64("meeting_id", m.ID),
				zap.Error(err),
			)
			metrics.CandidatesSkippedTotal.Inc()
			continue
		}
		kept = append(kept, m)
		vectors = append(vectors, fv)
		rows = append(rows, row)
	}
	if len(kept) == 0 {
		return nil, nil
	}

	ratings, err := s.regressor.PredictRatings(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("scoring: predict: %w", err)
	}
	if len(ratings) != len(kept) {
		return nil, fmt.Errorf("scoring: got %d predictions for %d candidates", len(ratings), len(kept))
	}

	scored := make([]domain.ScoredMeeting, len(kept))
	for i, m := range kept {
		rating := clampRating(ratings[i])
		scored[i] = domain.ScoredMeeting{
			Meeting:         m,
			PredictedRating: math.Round(rating*10) / 10,
			MatchScore:      MatchScore(rating),
			KeyPoints:       keyPoints(vectors[i]),
		}
	}
	return scored, nil
}

// MatchScore maps a 1..5 rating linearly onto 0..100.
func MatchScore(rating float64) int {
	score := math.Round((rating - ratingMin) / (ratingMax - ratingMin) * 100)
	return int(math.Max(0, math.Min(100, score)))
}

func clampRating(r float64) float64 {
	return math.Max(ratingMin, math.Min(ratingMax, r))
}

// keyPoints lists the strongest matched signals, at most three, in a fixed
// priority order.
func keyPoints(fv model.FeatureVector) []string {
	points := make([]string, 0, maxKeyPoints)
	if fv.DistanceKm <= nearbyKeyPointKm {
		points = append(points, fmt.Sprintf("가까운 거리(%.1fkm)", fv.DistanceKm))
	}
	if fv.TimeMatch == 1 {
		points = append(points, "선호 시간대 일치")
	}
	if fv.LocationTypeMatch == 1 {
		points = append(points, "실내/야외 선호 일치")
	}
	if fv.CostMatchScore >= costKeyPointMin {
		points = append(points, "예산에 잘 맞음")
	}
	if fv.InterestMatchScore >= interestKeyMin {
		points = append(points, "관심사 매칭")
	}
	if len(points) > maxKeyPoints {
		points = points[:maxKeyPoints]
	}
	return points
}
