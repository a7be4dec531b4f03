// Package fallback produces recommendations from the collaborative-filtering
// model when the catalog search ladder comes up empty.
package fallback

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/moimlab/recs/internal/domain"
	"github.com/moimlab/recs/internal/logger"
)

const (
	cfScoreScale = 20.0
	// Overfetch so that IDs missing from the catalog do not shrink the page.
	overfetchFactor = 2

	cfKeyPoint  = "SVD 협업 필터링 기반 추천"
	cfRationale = "과거 참여 이력을 바탕으로 추천된 모임입니다."
)

// Service resolves collaborative-filtering hits into scored meetings.
type Service struct {
	cf      Collaborative
	catalog BatchFetcher
}

// New creates a fallback service.
func New(cf Collaborative, catalog BatchFetcher) *Service {
	return &Service{cf: cf, catalog: catalog}
}

// Recommend returns up to topN collaborative-filtering picks for the user,
// in the model's preference order.
func (s *Service) Recommend(ctx context.Context, userID int64, topN int) ([]domain.ScoredMeeting, error) {
	log := logger.FromContext(ctx)

	hits, err := s.cf.RecommendByUser(ctx, userID, topN*overfetchFactor)
	if err != nil {
		return nil, fmt.Errorf("fallback: collaborative recommend: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(hits))
	scoreByID := make(map[int64]float64, len(hits))
	for i, h := range hits {
		ids[i] = h.MeetingID
		scoreByID[h.MeetingID] = h.Score
	}

	meetings, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fallback: batch fetch: %w", err)
	}
	byID := make(map[int64]domain.Meeting, len(meetings))
	for _, m := range meetings {
		byID[m.ID] = m
	}

	scored := make([]domain.ScoredMeeting, 0, topN)
	for _, h := range hits {
		m, ok := byID[h.MeetingID]
		if !ok {
			log.Warn("collaborative hit missing from catalog", zap.Int64("meeting_id", h.MeetingID))
			continue
		}
		cfScore := h.Score
		if cfScore <= 0 {
			cfScore = domain.DefaultCFScore
		}
		scored = append(scored, domain.ScoredMeeting{
			Meeting:         m,
			PredictedRating: math.Round(cfScore*10) / 10,
			MatchScore:      MatchScore(cfScore),
			KeyPoints:       []string{cfKeyPoint},
			Rationale:       cfRationale,
		})
		if len(scored) == topN {
			break
		}
	}
	return scored, nil
}

// MatchScore maps a collaborative-filtering score onto 0..100 with a hard cap.
func MatchScore(cfScore float64) int {
	return int(math.Min(100, math.Round(cfScore*cfScoreScale)))
}
