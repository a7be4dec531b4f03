package scoring

import (
	"context"

	"github.com/moimlab/recs/internal/domain"
	"github.com/moimlab/recs/internal/model"
)

// FeatureBuilder turns one candidate into the model's input row.
type FeatureBuilder interface {
	Build(u domain.UserContext, m domain.Meeting) (model.FeatureVector, []float64, error)
}

// Regressor is the rating prediction collaborator.
type Regressor interface {
	Ready(ctx context.Context) (bool, error)
	PredictRatings(ctx context.Context, rows [][]float64) ([]float64, error)
}
