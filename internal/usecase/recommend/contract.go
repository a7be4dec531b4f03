package recommend

import (
	"context"

	"github.com/moimlab/recs/internal/domain"
)

// QueryParser extracts a structured query from free text.
type QueryParser interface {
	Parse(ctx context.Context, prompt string) (domain.ParsedQuery, error)
}

// ContextEnricher refines a parsed query with user history. Enrichment is
// best-effort: a failure degrades to the parsed query.
type ContextEnricher interface {
	Enrich(ctx context.Context, q domain.ParsedQuery, u domain.UserContext) (domain.ParsedQuery, error)
}

// UserContextProvider resolves per-user search and scoring inputs.
type UserContextProvider interface {
	UserContext(ctx context.Context, userID int64) (domain.UserContext, error)
}

// Relaxer runs the constraint-relaxation catalog search.
type Relaxer interface {
	Search(ctx context.Context, q domain.ParsedQuery, u domain.UserContext) ([]domain.Meeting, []domain.TraceStep)
}

// Scorer predicts ratings for a candidate batch.
type Scorer interface {
	Score(ctx context.Context, u domain.UserContext, candidates []domain.Meeting) ([]domain.ScoredMeeting, error)
}

// Fallbacker produces recommendations when the catalog search yields nothing.
type Fallbacker interface {
	Recommend(ctx context.Context, userID int64, topN int) ([]domain.ScoredMeeting, error)
}

// RationaleGenerator writes a one-sentence Korean rationale for one pick.
type RationaleGenerator interface {
	Rationale(ctx context.Context, prompt string, m domain.ScoredMeeting) (string, error)
}
