// Package recommend orchestrates the full pipeline: parse the prompt, load
// user context, search with progressive relaxation, score or fall back,
// correct for intent, rank, and attach rationales.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moimlab/recs/internal/domain"
	"github.com/moimlab/recs/internal/logger"
	"github.com/moimlab/recs/internal/metrics"
	"github.com/moimlab/recs/internal/usecase/intent"
)

// DefaultTopN bounds the response when the caller does not ask for a size.
const DefaultTopN = 5

const (
	outcomeScored   = "scored"
	outcomeFallback = "fallback"
	outcomeError    = "error"
)

// Service is the recommendation orchestrator. All collaborators are
// mandatory except the rationale generator, which may be nil; the service
// then uses the per-category templates.
type Service struct {
	parser     QueryParser
	enricher   ContextEnricher
	users      UserContextProvider
	relaxer    Relaxer
	scorer     Scorer
	fallback   Fallbacker
	rationales RationaleGenerator

	defaultTopN int

	classifier *intent.Classifier
	adjuster   *intent.Adjuster
}

// New creates the orchestrator with the default intent tables. defaultTopN
// bounds responses when the caller does not ask for a size; non-positive
// values fall back to DefaultTopN.
func New(
	parser QueryParser,
	enricher ContextEnricher,
	users UserContextProvider,
	relaxer Relaxer,
	scorer Scorer,
	fallback Fallbacker,
	rationales RationaleGenerator,
	defaultTopN int,
) *Service {
	if defaultTopN <= 0 {
		defaultTopN = DefaultTopN
	}
	return &Service{
		parser:      parser,
		enricher:    enricher,
		users:       users,
		relaxer:     relaxer,
		scorer:      scorer,
		fallback:    fallback,
		rationales:  rationales,
		defaultTopN: defaultTopN,
		classifier:  intent.NewClassifier(),
		adjuster:    intent.NewAdjuster(intent.DefaultRules()),
	}
}

// Recommend runs the pipeline for one prompt and returns the ranked result
// envelope. The error is non-nil only when no recommendation path could
// produce an answer.
func (s *Service) Recommend(
	ctx context.Context, userID int64, prompt string, topN int,
) (domain.RecommendationResult, error) {
	start := time.Now()
	rid := uuid.NewString()[:8]
	log := logger.FromContext(ctx).With(zap.String("rid", rid), zap.Int64("user_id", userID))
	ctx = logger.ContextWithLogger(ctx, log)

	if topN <= 0 {
		topN = s.defaultTopN
	}

	result, outcome, err := s.run(ctx, userID, prompt, topN)
	metrics.RecommendationsTotal.WithLabelValues(outcome).Inc()
	metrics.RecommendationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error("recommendation failed", zap.Error(err))
		return domain.RecommendationResult{}, err
	}

	log.Info("recommendation complete",
		zap.String("outcome", outcome),
		zap.Int("total_candidates", result.TotalCandidates),
		zap.Int("returned", len(result.Recommendations)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (s *Service) run(
	ctx context.Context, userID int64, prompt string, topN int,
) (domain.RecommendationResult, string, error) {
	log := logger.FromContext(ctx)

	parsed, err := s.parser.Parse(ctx, prompt)
	if err != nil {
		return domain.RecommendationResult{}, outcomeError,
			fmt.Errorf("%w: %v", domain.ErrParserFailed, err)
	}

	user, err := s.users.UserContext(ctx, userID)
	if err != nil {
		log.Warn("user context unavailable, using defaults", zap.Error(err))
		user = domain.DefaultUserContext(userID)
	}

	enriched, err := s.enricher.Enrich(ctx, parsed, user)
	if err != nil {
		log.Warn("context enrichment failed, using parsed query", zap.Error(err))
		enriched = parsed
	}
	query := enriched.WithoutLowConfidenceFilters()

	candidates, steps := s.relaxer.Search(ctx, query, user)

	var (
		scored   []domain.ScoredMeeting
		fallback bool
	)
	if len(candidates) > 0 {
		scored, err = s.scorer.Score(ctx, user, candidates)
		if err != nil {
			return domain.RecommendationResult{}, outcomeError, err
		}
	} else {
		fallback = true
		scored, err = s.fallback.Recommend(ctx, userID, topN)
		if err != nil {
			return domain.RecommendationResult{}, outcomeError,
				fmt.Errorf("fallback recommendation: %w", err)
		}
	}

	// Intent reads the pre-filter query: a low-confidence vibe never
	// constrains the search but still steers score correction.
	in := s.classifier.Classify(prompt, enriched.Vibe)
	for i := range scored {
		scored[i].Intent = string(in)
		scored[i].MatchScore = s.adjuster.Apply(
			scored[i].MatchScore, in, scored[i].Category, scored[i].Subcategory)
	}

	// The reported total is the candidate pool before per-candidate skips
	// and truncation; on the fallback path it is the resolved pick count.
	total := len(candidates)
	if fallback {
		total = len(scored)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})
	if len(scored) > topN {
		scored = scored[:topN]
	}
	s.fillRationales(ctx, prompt, scored)

	result := domain.RecommendationResult{
		UserPrompt:      prompt,
		ParsedQuery:     query,
		TotalCandidates: total,
		Recommendations: scored,
		SearchTrace:     domain.NewSearchTrace(steps, fallback),
	}
	outcome := outcomeScored
	if fallback {
		outcome = outcomeFallback
	}
	return result, outcome, nil
}

// fillRationales writes a reasoning line on every pick that lacks one.
// Generator failures degrade to the category template.
func (s *Service) fillRationales(ctx context.Context, prompt string, picks []domain.ScoredMeeting) {
	log := logger.FromContext(ctx)
	for i := range picks {
		if picks[i].Rationale != "" {
			continue
		}
		if s.rationales != nil {
			r, err := s.rationales.Rationale(ctx, prompt, picks[i])
			if err == nil && r != "" {
				picks[i].Rationale = r
				continue
			}
			if err != nil {
				log.Warn("rationale generation failed, using template",
					zap.Int64("meeting_id", picks[i].ID),
					zap.Error(err),
				)
			}
		}
		picks[i].Rationale = templateRationale(picks[i].Category)
	}
}
