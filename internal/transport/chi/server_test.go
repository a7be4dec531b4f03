package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/moimlab/recs/internal/domain"
	healthuc "github.com/moimlab/recs/internal/usecase/health"
)

type mockRecommender struct {
	result  domain.RecommendationResult
	err     error
	gotUser int64
	gotTopN int
}

func (m *mockRecommender) Recommend(_ context.Context, userID int64, _ string, topN int) (domain.RecommendationResult, error) {
	m.gotUser = userID
	m.gotTopN = topN
	return m.result, m.err
}

type okPinger struct{}

func (okPinger) Ping(_ context.Context) error { return nil }

func newTestServer(rec Recommender) *Server {
	return NewServer(rec, healthuc.New(okPinger{}, okPinger{}, nil), zap.NewNop(), 20)
}

func postRecommend(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.Recommend(w, req)
	return w
}

func TestRecommend_OK(t *testing.T) {
	rec := &mockRecommender{result: domain.RecommendationResult{
		UserPrompt: "조용한 카페",
		Recommendations: []domain.ScoredMeeting{
			{Meeting: domain.Meeting{ID: 1, Category: "카페"}, MatchScore: 75},
		},
	}}
	s := newTestServer(rec)

	w := postRecommend(t, s, `{"prompt":"조용한 카페","user_id":7,"top_n":5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if rec.gotUser != 7 || rec.gotTopN != 5 {
		t.Errorf("recommender called with user=%d topN=%d", rec.gotUser, rec.gotTopN)
	}

	var resp domain.RecommendationResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not a result envelope: %v", err)
	}
	if len(resp.Recommendations) != 1 || resp.Recommendations[0].MatchScore != 75 {
		t.Errorf("envelope = %+v", resp)
	}
}

func TestRecommend_ValidatesBody(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing prompt", `{"user_id":7}`},
		{"missing user", `{"prompt":"카페"}`},
		{"negative user", `{"prompt":"카페","user_id":-1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postRecommend(t, newTestServer(&mockRecommender{}), tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("not an error response: %v", err)
			}
			if resp.Code != codeBadRequest {
				t.Errorf("code = %s, want bad_request", resp.Code)
			}
		})
	}
}

func TestRecommend_ClampsTopN(t *testing.T) {
	rec := &mockRecommender{}
	w := postRecommend(t, newTestServer(rec), `{"prompt":"카페","user_id":7,"top_n":500}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if rec.gotTopN != 20 {
		t.Errorf("topN = %d, want clamped to 20", rec.gotTopN)
	}
}

func TestRecommend_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   errorCode
	}{
		{"model not ready", domain.ErrModelNotReady, http.StatusServiceUnavailable, codeModelNotReady},
		{"catalog down", domain.ErrCatalogUnavailable, http.StatusBadGateway, codeCatalogUnavailable},
		{"parser failed", domain.ErrParserFailed, http.StatusBadGateway, codeParserFailed},
		{"unknown", context.DeadlineExceeded, http.StatusInternalServerError, codeInternalError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postRecommend(t, newTestServer(&mockRecommender{err: tc.err}),
				`{"prompt":"카페","user_id":7}`)
			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			var resp errorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("not an error response: %v", err)
			}
			if resp.Code != tc.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, tc.wantCode)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(&mockRecommender{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["catalog"] != "ok" {
		t.Errorf("response = %+v", resp)
	}
}
