// Package search projects an enriched query plus user context into the
// canonical catalog search payload. This is the single translation point
// between the core's query model and the catalog wire format.
package search

import (
	"strings"

	"github.com/moimlab/recs/internal/domain"
	"github.com/moimlab/recs/internal/domain/norm"
)

// Build constructs the catalog payload for one ladder attempt.
//
// Keyword is the explicit field when set, otherwise the space-joined keyword
// list; never both. A missing location type is inferred from indoor/outdoor
// markers in the keywords. Pagination and sort are fixed because the core
// ranks client-side.
func Build(q domain.ParsedQuery, u domain.UserContext) domain.SearchRequest {
	keyword := q.Keyword
	if keyword == "" && len(q.Keywords) > 0 {
		keyword = strings.Join(q.Keywords, " ")
	}

	locationType := q.LocationType
	if locationType == "" {
		locationType = inferLocationType(q.Keywords)
	}

	radius := q.Radius
	if radius <= 0 {
		radius = domain.DefaultSearchRadiusKm
	}

	req := domain.SearchRequest{
		Keyword:     keyword,
		Category:    q.Category,
		Subcategory: q.Subcategory,

		Radius: radius,

		LocationType: norm.LocationType(locationType),
		Vibe:         q.Vibe,
		TimeSlot:     norm.TimeSlot(q.TimeSlot),

		Page:          domain.SearchPage,
		Size:          domain.SearchPageSize,
		SortBy:        domain.SearchSortBy,
		SortDirection: domain.SearchSortDirection,
	}

	if u.Latitude != 0 || u.Longitude != 0 {
		lat, lng := u.Latitude, u.Longitude
		req.Latitude = &lat
		req.Longitude = &lng
	}

	return req
}

// inferLocationType scans keywords for indoor/outdoor markers.
func inferLocationType(keywords []string) string {
	text := strings.Join(keywords, " ")
	if strings.Contains(text, "실내") {
		return norm.Indoor
	}
	if strings.Contains(text, "야외") || strings.Contains(text, "실외") {
		return norm.Outdoor
	}
	return ""
}
