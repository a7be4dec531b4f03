package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/moimlab/recs/internal/domain"
	"github.com/moimlab/recs/internal/model"
)

type mockFeatures struct {
	failIDs map[int64]bool
	fv      model.FeatureVector
}

func (m *mockFeatures) Build(_ domain.UserContext, mt domain.Meeting) (model.FeatureVector, []float64, error) {
	if m.failIDs[mt.ID] {
		return model.FeatureVector{}, nil, domain.ErrNoFeatures
	}
	return m.fv, make([]float64, 13), nil
}

type mockRegressor struct {
	ready    bool
	readyErr error
	ratings  []float64
	err      error
	gotRows  [][]float64
}

func (m *mockRegressor) Ready(_ context.Context) (bool, error) { return m.ready, m.readyErr }

func (m *mockRegressor) PredictRatings(_ context.Context, rows [][]float64) ([]float64, error) {
	m.gotRows = rows
	return m.ratings, m.err
}

func meetings(ids ...int64) []domain.Meeting {
	ms := make([]domain.Meeting, len(ids))
	for i, id := range ids {
		ms[i] = domain.Meeting{ID: id}
	}
	return ms
}

func TestScore_MapsRatingToMatchScore(t *testing.T) {
	reg := &mockRegressor{ready: true, ratings: []float64{4.0}}
	svc := New(&mockFeatures{}, reg)

	scored, err := svc.Score(context.Background(), domain.UserContext{}, meetings(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scored) != 1 {
		t.Fatalf("got %d scored, want 1", len(scored))
	}
	// (4.0 - 1) / 4 * 100 = 75
	if scored[0].MatchScore != 75 {
		t.Errorf("match score = %v, want 75", scored[0].MatchScore)
	}
	if scored[0].PredictedRating != 4.0 {
		t.Errorf("predicted rating = %v, want 4.0", scored[0].PredictedRating)
	}
}

func TestMatchScore_Bounds(t *testing.T) {
	cases := []struct {
		rating float64
		want   int
	}{
		{1.0, 0},
		{5.0, 100},
		{3.0, 50},
		{4.5, 88}, // round(87.5)
	}
	for _, tc := range cases {
		if got := MatchScore(tc.rating); got != tc.want {
			t.Errorf("MatchScore(%v) = %v, want %v", tc.rating, got, tc.want)
		}
	}
}

func TestScore_SkipsFailedCandidates(t *testing.T) {
	reg := &mockRegressor{ready: true, ratings: []float64{3.0, 5.0}}
	svc := New(&mockFeatures{failIDs: map[int64]bool{2: true}}, reg)

	scored, err := svc.Score(context.Background(), domain.UserContext{}, meetings(1, 2, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("got %d scored, want 2 (one candidate skipped)", len(scored))
	}
	if scored[0].ID != 1 || scored[1].ID != 3 {
		t.Errorf("kept ids = %d,%d, want 1,3 in arrival order", scored[0].ID, scored[1].ID)
	}
	if len(reg.gotRows) != 2 {
		t.Errorf("model received %d rows, want 2", len(reg.gotRows))
	}
}

func TestScore_ModelNotReady(t *testing.T) {
	svc := New(&mockFeatures{}, &mockRegressor{ready: false})

	_, err := svc.Score(context.Background(), domain.UserContext{}, meetings(1))
	if !errors.Is(err, domain.ErrModelNotReady) {
		t.Fatalf("got %v, want ErrModelNotReady", err)
	}
}

func TestScore_AllCandidatesSkipped(t *testing.T) {
	reg := &mockRegressor{ready: true}
	svc := New(&mockFeatures{failIDs: map[int64]bool{1: true}}, reg)

	scored, err := svc.Score(context.Background(), domain.UserContext{}, meetings(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scored != nil {
		t.Errorf("got %d scored, want none", len(scored))
	}
	if reg.gotRows != nil {
		t.Error("model must not be called with an empty batch")
	}
}

func TestKeyPoints(t *testing.T) {
	fv := model.FeatureVector{
		DistanceKm:         1.2,
		TimeMatch:          1,
		LocationTypeMatch:  1,
		CostMatchScore:     0.9,
		InterestMatchScore: 0.8,
	}
	points := keyPoints(fv)
	if len(points) != 3 {
		t.Fatalf("got %d key points, want capped at 3", len(points))
	}
	if points[0] != "가까운 거리(1.2km)" {
		t.Errorf("first key point = %q", points[0])
	}
	if points[1] != "선호 시간대 일치" || points[2] != "실내/야외 선호 일치" {
		t.Errorf("key point order wrong: %v", points)
	}

	far := model.FeatureVector{DistanceKm: 12.0, CostMatchScore: 0.2}
	if got := keyPoints(far); len(got) != 0 {
		t.Errorf("weak signals produced key points: %v", got)
	}
}
