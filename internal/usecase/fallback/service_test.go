package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/moimlab/recs/internal/domain"
)

type mockCF struct {
	hits    []domain.CFRecommendation
	err     error
	gotTopN int
}

func (m *mockCF) RecommendByUser(_ context.Context, _ int64, topN int) ([]domain.CFRecommendation, error) {
	m.gotTopN = topN
	return m.hits, m.err
}

type mockFetcher struct {
	meetings []domain.Meeting
	err      error
	gotIDs   []int64
}

func (m *mockFetcher) GetByIDs(_ context.Context, ids []int64) ([]domain.Meeting, error) {
	m.gotIDs = ids
	return m.meetings, m.err
}

func TestRecommend_ScoresAndOrders(t *testing.T) {
	cf := &mockCF{hits: []domain.CFRecommendation{
		{MeetingID: 11, Score: 4.2},
		{MeetingID: 12, Score: 3.0},
	}}
	fetcher := &mockFetcher{meetings: []domain.Meeting{
		{ID: 12, Category: "스포츠"},
		{ID: 11, Category: "카페"},
	}}
	svc := New(cf, fetcher)

	scored, err := svc.Recommend(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("got %d scored, want 2", len(scored))
	}
	// Model preference order wins over catalog response order.
	if scored[0].ID != 11 || scored[1].ID != 12 {
		t.Errorf("order = %d,%d, want 11,12", scored[0].ID, scored[1].ID)
	}
	if scored[0].MatchScore != 84 { // round(4.2 * 20)
		t.Errorf("score for 11 = %v, want 84", scored[0].MatchScore)
	}
	if scored[1].MatchScore != 60 {
		t.Errorf("score for 12 = %v, want 60", scored[1].MatchScore)
	}
	if scored[0].Rationale == "" || len(scored[0].KeyPoints) != 1 {
		t.Error("fallback picks must carry the collaborative rationale and key point")
	}
	if cf.gotTopN != 4 {
		t.Errorf("overfetch topN = %d, want 4", cf.gotTopN)
	}
}

func TestRecommend_MissingCatalogEntriesSkipped(t *testing.T) {
	cf := &mockCF{hits: []domain.CFRecommendation{
		{MeetingID: 1, Score: 5.0},
		{MeetingID: 2, Score: 4.0},
		{MeetingID: 3, Score: 3.0},
	}}
	fetcher := &mockFetcher{meetings: []domain.Meeting{{ID: 1}, {ID: 3}}}
	svc := New(cf, fetcher)

	scored, err := svc.Recommend(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("got %d scored, want 2", len(scored))
	}
	if scored[0].ID != 1 || scored[1].ID != 3 {
		t.Errorf("ids = %d,%d, want 1,3", scored[0].ID, scored[1].ID)
	}
}

func TestRecommend_DefaultScoreForMissing(t *testing.T) {
	cf := &mockCF{hits: []domain.CFRecommendation{{MeetingID: 5, Score: 0}}}
	fetcher := &mockFetcher{meetings: []domain.Meeting{{ID: 5}}}
	svc := New(cf, fetcher)

	scored, err := svc.Recommend(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scored[0].MatchScore != 70 { // round(3.5 * 20)
		t.Errorf("default score = %v, want 70", scored[0].MatchScore)
	}
	if scored[0].PredictedRating != 3.5 {
		t.Errorf("predicted rating = %v, want 3.5", scored[0].PredictedRating)
	}
}

func TestMatchScore_Capped(t *testing.T) {
	if got := MatchScore(5.5); got != 100 {
		t.Errorf("MatchScore(5.5) = %v, want capped at 100", got)
	}
}

func TestRecommend_NoHits(t *testing.T) {
	fetcher := &mockFetcher{}
	svc := New(&mockCF{}, fetcher)

	scored, err := svc.Recommend(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scored != nil {
		t.Errorf("got %d scored, want none", len(scored))
	}
	if fetcher.gotIDs != nil {
		t.Error("catalog must not be queried without hits")
	}
}

func TestRecommend_CFError(t *testing.T) {
	svc := New(&mockCF{err: errors.New("model down")}, &mockFetcher{})
	if _, err := svc.Recommend(context.Background(), 7, 2); err == nil {
		t.Fatal("expected error")
	}
}
