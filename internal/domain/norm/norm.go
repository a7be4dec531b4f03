// Package norm canonicalizes heterogeneous upstream vocabulary (mixed casing,
// Korean and English synonyms) into the fixed enum values the rest of the
// core uses. Unknown non-empty values pass through upper-cased rather than
// being rejected: the catalog tolerates vocabulary the core has not seen.
package norm

import "strings"

// Canonical time-of-day values.
const (
	Morning   = "MORNING"
	Afternoon = "AFTERNOON"
	Evening   = "EVENING"
	Night     = "NIGHT"
)

// Canonical location types.
const (
	Indoor  = "INDOOR"
	Outdoor = "OUTDOOR"
)

// Canonical budget tiers (model input vocabulary, lower-case).
const (
	BudgetValue   = "value"
	BudgetQuality = "quality"
)

var timeSlots = map[string]string{
	"morning":   Morning,
	"afternoon": Afternoon,
	"evening":   Evening,
	"night":     Night,
	"오전":        Morning,
	"아침":        Morning,
	"점심":        Afternoon,
	"오후":        Afternoon,
	"저녁":        Evening,
	"밤":         Night,
	"야간":        Night,
}

var locationTypes = map[string]string{
	"indoor":  Indoor,
	"outdoor": Outdoor,
	"실내":      Indoor,
	"실외":      Outdoor,
	"야외":      Outdoor,
}

var budgetTypes = map[string]string{
	"value":   BudgetValue,
	"가성비":     BudgetValue,
	"합리":      BudgetValue,
	"quality": BudgetQuality,
	"품질":      BudgetQuality,
}

// TimeSlot maps a raw time-of-day value onto MORNING/AFTERNOON/EVENING/NIGHT.
// Empty input stays empty; unknown input is returned upper-cased.
func TimeSlot(raw string) string {
	return lookup(timeSlots, raw)
}

// LocationType maps a raw location type onto INDOOR/OUTDOOR.
// Empty input stays empty; unknown input is returned upper-cased.
func LocationType(raw string) string {
	return lookup(locationTypes, raw)
}

// BudgetForModel maps a raw budget tier onto the model vocabulary
// (value/quality), defaulting to value when absent or unrecognized.
func BudgetForModel(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return BudgetValue
	}
	if v, ok := budgetTypes[strings.ToLower(trimmed)]; ok {
		return v
	}
	return BudgetValue
}

func lookup(m map[string]string, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if v, ok := m[strings.ToLower(trimmed)]; ok {
		return v
	}
	return strings.ToUpper(trimmed)
}
