package fallback

import (
	"context"

	"github.com/moimlab/recs/internal/domain"
)

// Collaborative is the collaborative-filtering recommendation collaborator.
type Collaborative interface {
	RecommendByUser(ctx context.Context, userID int64, topN int) ([]domain.CFRecommendation, error)
}

// BatchFetcher resolves recommended meeting IDs against the catalog.
type BatchFetcher interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Meeting, error)
}
