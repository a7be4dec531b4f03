package relax

import (
	"context"

	"github.com/moimlab/recs/internal/domain"
)

// Searcher executes one catalog search. A transport or server failure may
// surface as an error; the engine treats it as an empty level and proceeds.
type Searcher interface {
	Search(ctx context.Context, req domain.SearchRequest) ([]domain.Meeting, error)
}
