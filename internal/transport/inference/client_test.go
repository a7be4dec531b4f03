package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/moimlab/recs/internal/domain"
)

func TestReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/models/status" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"regression":{"loaded":true},"collaborative":{"loaded":false}}`))
	}))
	defer srv.Close()

	ready, err := New(Options{BaseURL: srv.URL}).Ready(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ready {
		t.Error("regression loaded must report ready")
	}
}

func TestPredictRatings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Rows [][]float64 `json:"rows"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Rows) != 2 || len(body.Rows[0]) != 13 {
			t.Errorf("rows = %v", body.Rows)
		}
		_, _ = w.Write([]byte(`{"ratings":[4.2,3.1]}`))
	}))
	defer srv.Close()

	rows := [][]float64{make([]float64, 13), make([]float64, 13)}
	ratings, err := New(Options{BaseURL: srv.URL}).PredictRatings(context.Background(), rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ratings) != 2 || ratings[0] != 4.2 {
		t.Fatalf("ratings = %v", ratings)
	}
}

func TestPredictRatings_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ratings":[4.2]}`))
	}))
	defer srv.Close()

	rows := [][]float64{make([]float64, 13), make([]float64, 13)}
	if _, err := New(Options{BaseURL: srv.URL}).PredictRatings(context.Background(), rows); err == nil {
		t.Fatal("expected error on rating count mismatch")
	}
}

func TestPredictRatings_EmptyBatch(t *testing.T) {
	client := New(Options{BaseURL: "http://inference.invalid"})
	ratings, err := client.PredictRatings(context.Background(), nil)
	if err != nil || ratings != nil {
		t.Fatalf("empty batch must short-circuit, got %v, %v", ratings, err)
	}
}

func TestRecommendByUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["user_id"].(float64) != 7 || body["top_n"].(float64) != 10 {
			t.Errorf("body = %v", body)
		}
		_, _ = w.Write([]byte(`{"recommendations":[{"meeting_id":11,"score":4.2},{"meeting_id":12,"score":3.0}]}`))
	}))
	defer srv.Close()

	hits, err := New(Options{BaseURL: srv.URL}).RecommendByUser(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 || hits[0].MeetingID != 11 || hits[0].Score != 4.2 {
		t.Fatalf("hits = %+v", hits)
	}
}

func TestWaitReady_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"regression":{"loaded":false}}`))
	}))
	defer srv.Close()

	err := New(Options{BaseURL: srv.URL}).WaitReady(context.Background(), 0)
	if !errors.Is(err, domain.ErrModelNotReady) {
		t.Fatalf("got %v, want ErrModelNotReady", err)
	}
}

func TestWaitReady_Immediate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"regression":{"loaded":true}}`))
	}))
	defer srv.Close()

	if err := New(Options{BaseURL: srv.URL}).WaitReady(context.Background(), time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
