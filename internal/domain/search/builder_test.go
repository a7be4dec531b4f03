package search

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/moimlab/recs/internal/domain"
)

func testUser() domain.UserContext {
	return domain.UserContext{
		UserID:    7,
		Latitude:  37.5665,
		Longitude: 126.9780,
	}
}

func TestBuild_KeywordJoin(t *testing.T) {
	q := domain.ParsedQuery{Keywords: []string{"조용한", "카페"}}

	req := Build(q, testUser())

	if req.Keyword != "조용한 카페" {
		t.Errorf("Keyword = %q, want space-joined keywords", req.Keyword)
	}
}

func TestBuild_ExplicitKeywordWins(t *testing.T) {
	q := domain.ParsedQuery{Keyword: "보드게임", Keywords: []string{"조용한", "카페"}}

	req := Build(q, testUser())

	if req.Keyword != "보드게임" {
		t.Errorf("Keyword = %q, want explicit keyword", req.Keyword)
	}
}

func TestBuild_InferLocationType(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		want     string
	}{
		{"indoor marker", []string{"실내", "클라이밍"}, "INDOOR"},
		{"outdoor marker", []string{"야외", "러닝"}, "OUTDOOR"},
		{"outdoor alt marker", []string{"실외", "수영"}, "OUTDOOR"},
		{"no marker", []string{"카페"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Build(domain.ParsedQuery{Keywords: tt.keywords}, testUser())
			if req.LocationType != tt.want {
				t.Errorf("LocationType = %q, want %q", req.LocationType, tt.want)
			}
		})
	}
}

func TestBuild_ExplicitLocationTypeNormalized(t *testing.T) {
	q := domain.ParsedQuery{LocationType: "실내"}

	req := Build(q, testUser())

	if req.LocationType != "INDOOR" {
		t.Errorf("LocationType = %q, want INDOOR", req.LocationType)
	}
}

func TestBuild_FixedPaginationAndDefaults(t *testing.T) {
	req := Build(domain.ParsedQuery{}, testUser())

	if req.Page != 0 || req.Size != 200 {
		t.Errorf("pagination = (%d, %d), want (0, 200)", req.Page, req.Size)
	}
	if req.SortBy != "createdAt" || req.SortDirection != "desc" {
		t.Errorf("sort = (%q, %q), want (createdAt, desc)", req.SortBy, req.SortDirection)
	}
	if req.Radius != 5.0 {
		t.Errorf("Radius = %v, want default 5.0", req.Radius)
	}
}

func TestBuild_OmitsEmptyFieldsOnWire(t *testing.T) {
	req := Build(domain.ParsedQuery{Category: "카페"}, testUser())

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	payload := string(data)

	for _, absent := range []string{"keyword", "subcategory", "locationType", "vibe", "timeSlot"} {
		if strings.Contains(payload, `"`+absent+`"`) {
			t.Errorf("payload should omit empty %s: %s", absent, payload)
		}
	}
	for _, present := range []string{"category", "latitude", "longitude", "radius", "page", "size"} {
		if !strings.Contains(payload, `"`+present+`"`) {
			t.Errorf("payload should contain %s: %s", present, payload)
		}
	}
}

func TestBuild_NoCoordinatesOmitted(t *testing.T) {
	req := Build(domain.ParsedQuery{}, domain.UserContext{UserID: 1})

	if req.Latitude != nil || req.Longitude != nil {
		t.Error("zero coordinates should be omitted from the payload")
	}
}

func TestBuild_TimeSlotNormalized(t *testing.T) {
	q := domain.ParsedQuery{TimeSlot: "저녁"}

	req := Build(q, testUser())

	if req.TimeSlot != "EVENING" {
		t.Errorf("TimeSlot = %q, want EVENING", req.TimeSlot)
	}
}
