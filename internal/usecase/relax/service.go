// Package relax implements the constraint-relaxation ladder over the catalog
// search collaborator. Constraints are removed strictly in order, one level
// at a time, and every attempt is recorded in the trace whether or not it
// produced candidates.
package relax

import (
	"context"

	"go.uber.org/zap"

	"github.com/moimlab/recs/internal/domain"
	"github.com/moimlab/recs/internal/domain/search"
	"github.com/moimlab/recs/internal/logger"
	"github.com/moimlab/recs/internal/metrics"
)

// level is one rung of the ladder: a label and a query transform. Transforms
// compose: each level receives the previous level's query, so a dropped
// constraint stays dropped.
type level struct {
	label string
	strip func(q domain.ParsedQuery) domain.ParsedQuery
}

var ladder = []level{
	{label: domain.LabelL0, strip: func(q domain.ParsedQuery) domain.ParsedQuery { return q }},
	{label: "L1 vibe 제거", strip: func(q domain.ParsedQuery) domain.ParsedQuery { q.Vibe = ""; return q }},
	{label: "L2 timeSlot 제거", strip: func(q domain.ParsedQuery) domain.ParsedQuery { q.TimeSlot = ""; return q }},
	{label: "L3 subcategory 제거", strip: func(q domain.ParsedQuery) domain.ParsedQuery { q.Subcategory = ""; return q }},
	{label: "L4 category 제거", strip: func(q domain.ParsedQuery) domain.ParsedQuery { q.Category = ""; return q }},
}

// Engine runs the ladder.
type Engine struct {
	searcher Searcher
}

// New creates a relaxation engine.
func New(searcher Searcher) *Engine {
	return &Engine{searcher: searcher}
}

// Search walks the ladder until a level yields candidates or all levels are
// exhausted. The returned steps cover every attempted level in order.
func (e *Engine) Search(
	ctx context.Context, q domain.ParsedQuery, u domain.UserContext,
) ([]domain.Meeting, []domain.TraceStep) {
	log := logger.FromContext(ctx)
	steps := make([]domain.TraceStep, 0, len(ladder))

	current := q
	for lvl, l := range ladder {
		current = l.strip(current)
		payload := search.Build(current, u)

		meetings, err := e.searcher.Search(ctx, payload)
		if err != nil {
			// A failed level is an empty level, not a failed request.
			log.Warn("catalog search failed, treating level as empty",
				zap.Int("level", lvl),
				zap.String("label", l.label),
				zap.Error(err),
			)
			metrics.CatalogSearchTotal.WithLabelValues("error").Inc()
			meetings = nil
		} else if len(meetings) == 0 {
			metrics.CatalogSearchTotal.WithLabelValues("empty").Inc()
		} else {
			metrics.CatalogSearchTotal.WithLabelValues("ok").Inc()
		}

		steps = append(steps, domain.TraceStep{
			Level:   lvl,
			Label:   l.label,
			Payload: payload,
			Count:   len(meetings),
		})

		if len(meetings) > 0 {
			log.Info("relaxation search settled",
				zap.Int("level", lvl),
				zap.String("label", l.label),
				zap.Int("count", len(meetings)),
			)
			metrics.RelaxationFinalLevel.Observe(float64(lvl))
			return meetings, steps
		}
	}

	log.Warn("relaxation ladder exhausted with no candidates")
	metrics.RelaxationFinalLevel.Observe(float64(len(ladder) - 1))
	return nil, steps
}
