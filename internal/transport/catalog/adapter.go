package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/moimlab/recs/internal/domain"
	"github.com/moimlab/recs/internal/domain/norm"
)

// The catalog's JSON is heterogeneous: older endpoints emit snake_case,
// newer ones camelCase, and some fields moved names between versions. Each
// raw struct declares every spelling it has been seen with and coalesces to
// the first populated one. This mess stays inside this file.

type rawMeeting struct {
	MeetingID   int64 `json:"meetingId"`
	MeetingIDSn int64 `json:"meeting_id"`
	ID          int64 `json:"id"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Category      string `json:"category"`
	SubCategory   string `json:"subCategory"`
	SubCategorySn string `json:"sub_category"`
	Subcategory   string `json:"subcategory"`

	TimeSlot   string `json:"timeSlot"`
	TimeSlotSn string `json:"time_slot"`

	LocationType   string `json:"locationType"`
	LocationTypeSn string `json:"location_type"`

	Vibe string `json:"vibe"`

	MaxParticipants   int `json:"maxParticipants"`
	MaxParticipantsSn int `json:"max_participants"`

	CurrentParticipants   int `json:"currentParticipants"`
	CurrentParticipantsSn int `json:"current_participants"`

	ExpectedCost   int `json:"expectedCost"`
	ExpectedCostSn int `json:"expected_cost"`

	AvgRating   float64 `json:"avgRating"`
	AvgRatingSn float64 `json:"avg_rating"`
	Rating      float64 `json:"rating"`

	RatingCount   int `json:"ratingCount"`
	RatingCountSn int `json:"rating_count"`

	Distance     *float64 `json:"distance"`
	DistanceKm   *float64 `json:"distanceKm"`
	DistanceKmSn *float64 `json:"distance_km"`

	Title string `json:"title"`
	Name  string `json:"name"`

	ImageURL   string `json:"imageUrl"`
	ImageURLSn string `json:"image_url"`

	LocationName   string `json:"locationName"`
	LocationNameSn string `json:"location_name"`

	LocationAddress   string `json:"locationAddress"`
	LocationAddressSn string `json:"location_address"`

	MeetingTime   string `json:"meetingTime"`
	MeetingTimeSn string `json:"meeting_time"`
}

func (r rawMeeting) toDomain() domain.Meeting {
	return domain.Meeting{
		ID:        pickInt64(r.MeetingID, r.MeetingIDSn, r.ID),
		Latitude:  r.Latitude,
		Longitude: r.Longitude,

		Category:     r.Category,
		Subcategory:  pickStr(r.SubCategory, r.SubCategorySn, r.Subcategory),
		TimeSlot:     norm.TimeSlot(pickStr(r.TimeSlot, r.TimeSlotSn)),
		LocationType: norm.LocationType(pickStr(r.LocationType, r.LocationTypeSn)),
		Vibe:         r.Vibe,

		MaxParticipants:     pickInt(r.MaxParticipants, r.MaxParticipantsSn),
		CurrentParticipants: pickInt(r.CurrentParticipants, r.CurrentParticipantsSn),
		ExpectedCost:        pickInt(r.ExpectedCost, r.ExpectedCostSn),

		AvgRating:   pickFloat(r.AvgRating, r.AvgRatingSn, r.Rating),
		RatingCount: pickInt(r.RatingCount, r.RatingCountSn),

		DistanceKm: pickFloatPtr(r.Distance, r.DistanceKm, r.DistanceKmSn),

		Title:           pickStr(r.Title, r.Name),
		ImageURL:        pickStr(r.ImageURL, r.ImageURLSn),
		LocationName:    pickStr(r.LocationName, r.LocationNameSn),
		LocationAddress: pickStr(r.LocationAddress, r.LocationAddressSn),
		MeetingTime:     pickStr(r.MeetingTime, r.MeetingTimeSn),
	}
}

type rawUserContext struct {
	UserID   int64 `json:"userId"`
	UserIDSn int64 `json:"user_id"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Interests string `json:"interests"`

	TimePreference   string `json:"timePreference"`
	TimePreferenceSn string `json:"time_preference"`
	PreferredTime    string `json:"preferredTime"`

	LocationPref   string `json:"locationPref"`
	LocationPrefSn string `json:"location_pref"`
	PreferredPlace string `json:"preferredLocation"`

	BudgetType   string `json:"budgetType"`
	BudgetTypeSn string `json:"budget_type"`

	AvgRating   float64 `json:"avgRating"`
	AvgRatingSn float64 `json:"avg_rating"`

	MeetingCount   int `json:"meetingCount"`
	MeetingCountSn int `json:"meeting_count"`

	RatingStd   float64 `json:"ratingStd"`
	RatingStdSn float64 `json:"rating_std"`
}

func (r rawUserContext) toDomain(userID int64) domain.UserContext {
	u := domain.UserContext{
		UserID:         pickInt64(r.UserID, r.UserIDSn, userID),
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		Interests:      r.Interests,
		TimePreference: norm.TimeSlot(pickStr(r.TimePreference, r.TimePreferenceSn, r.PreferredTime)),
		LocationPref:   norm.LocationType(pickStr(r.LocationPref, r.LocationPrefSn, r.PreferredPlace)),
		BudgetType:     norm.BudgetForModel(pickStr(r.BudgetType, r.BudgetTypeSn)),
		AvgRating:      pickFloat(r.AvgRating, r.AvgRatingSn),
		MeetingCount:   pickInt(r.MeetingCount, r.MeetingCountSn),
		RatingStd:      pickFloat(r.RatingStd, r.RatingStdSn),
	}
	if u.Latitude == 0 && u.Longitude == 0 {
		u.Latitude = domain.DefaultLatitude
		u.Longitude = domain.DefaultLongitude
	}
	if u.AvgRating == 0 {
		u.AvgRating = domain.DefaultUserAvgRating
	}
	if u.RatingStd == 0 {
		u.RatingStd = domain.DefaultUserRatingStd
	}
	return u
}

// meetingEnvelope covers the response shapes the catalog has shipped: a bare
// array, {"content": [...]}, {"meetings": [...]}, and the paged wrapper
// {"data": {"content": [...]}}.
type meetingEnvelope struct {
	Content  []rawMeeting `json:"content"`
	Meetings []rawMeeting `json:"meetings"`
	Data     struct {
		Content []rawMeeting `json:"content"`
	} `json:"data"`
}

func decodeMeetingList(raw []byte) ([]domain.Meeting, error) {
	var items []rawMeeting
	if err := json.Unmarshal(raw, &items); err != nil {
		var env meetingEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("catalog: decode meetings: %w", err)
		}
		switch {
		case env.Content != nil:
			items = env.Content
		case env.Meetings != nil:
			items = env.Meetings
		default:
			items = env.Data.Content
		}
	}
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]domain.Meeting, len(items))
	for i, it := range items {
		out[i] = it.toDomain()
	}
	return out, nil
}

func decodeUserContext(raw []byte, userID int64) (domain.UserContext, error) {
	var rc rawUserContext
	if err := json.Unmarshal(raw, &rc); err != nil {
		return domain.UserContext{}, fmt.Errorf("catalog: decode user context: %w", err)
	}
	return rc.toDomain(userID), nil
}

func pickStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func pickInt(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func pickInt64(vals ...int64) int64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func pickFloat(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func pickFloatPtr(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
