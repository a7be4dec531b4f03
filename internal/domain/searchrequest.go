package domain

// Catalog pagination is fixed: the core re-ranks client-side, so it always
// asks for one large page sorted by recency.
const (
	SearchPage          = 0
	SearchPageSize      = 200
	SearchSortBy        = "createdAt"
	SearchSortDirection = "desc"

	// DefaultSearchRadiusKm applies when the parsed query carries no radius.
	DefaultSearchRadiusKm = 5.0
)

// SearchRequest is the canonical payload sent to the catalog search
// collaborator. Optional fields carry omitempty so that an unset constraint
// is absent from the wire payload; the catalog reads absence as "no filter".
type SearchRequest struct {
	Keyword     string `json:"keyword,omitempty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Radius    float64  `json:"radius"`

	LocationType string `json:"locationType,omitempty"`
	Vibe         string `json:"vibe,omitempty"`
	TimeSlot     string `json:"timeSlot,omitempty"`

	Page          int    `json:"page"`
	Size          int    `json:"size"`
	SortBy        string `json:"sortBy"`
	SortDirection string `json:"sortDirection"`
}
