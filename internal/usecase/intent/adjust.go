package intent

// Adjustment bounds. Rules outside this range are clamped at construction so
// a mis-tuned table can never dominate the model score.
const (
	MinAdjustment = -25.0
	MaxAdjustment = 15.0
)

// Rule maps (intent, category/subcategory membership) to a signed score
// delta. The first matching rule wins.
type Rule struct {
	Intent        Intent
	Categories    []string
	Subcategories []string
	Delta         float64
}

// Adjuster applies the intent correction table. The table is domain
// configuration: swap it wholesale rather than editing logic.
type Adjuster struct {
	rules []Rule
}

// DefaultRules returns the tuned correction table for the current category
// vocabulary.
func DefaultRules() []Rule {
	return []Rule{
		{Intent: Quiet, Categories: []string{"스포츠"}, Delta: -25},
		{
			Intent:        Quiet,
			Categories:    []string{"카페", "문화", "취미"},
			Subcategories: []string{"독서", "보드게임", "전시", "스터디"},
			Delta:         15,
		},
		{Intent: Active, Categories: []string{"스포츠"}, Delta: 15},
		{Intent: Active, Categories: []string{"카페", "문화"}, Delta: -10},
	}
}

// NewAdjuster creates an adjuster, clamping every rule delta into
// [MinAdjustment, MaxAdjustment].
func NewAdjuster(rules []Rule) *Adjuster {
	clamped := make([]Rule, len(rules))
	for i, r := range rules {
		if r.Delta < MinAdjustment {
			r.Delta = MinAdjustment
		}
		if r.Delta > MaxAdjustment {
			r.Delta = MaxAdjustment
		}
		clamped[i] = r
	}
	return &Adjuster{rules: clamped}
}

// Adjust returns the signed correction for one candidate. Zero when no rule
// matches or the intent is neutral.
func (a *Adjuster) Adjust(in Intent, category, subcategory string) float64 {
	for _, r := range a.rules {
		if r.Intent != in {
			continue
		}
		if contains(r.Categories, category) || contains(r.Subcategories, subcategory) {
			return r.Delta
		}
	}
	return 0
}

// Apply adds the correction to a match score and clamps to [0, 100].
func (a *Adjuster) Apply(score int, in Intent, category, subcategory string) int {
	adjusted := float64(score) + a.Adjust(in, category, subcategory)
	if adjusted < 0 {
		return 0
	}
	if adjusted > 100 {
		return 100
	}
	return int(adjusted)
}

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
