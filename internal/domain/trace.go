package domain

// LabelL0 is the label of the unrelaxed first ladder level, also used as the
// final label when no search was attempted at all.
const LabelL0 = "L0 원본"

// TraceStep records one relaxation-ladder attempt: which level ran, the exact
// payload issued, and how many candidates came back. Every attempted level
// produces a step, whether or not it found anything.
type TraceStep struct {
	Level   int           `json:"level"`
	Label   string        `json:"label"`
	Payload SearchRequest `json:"payload"`
	Count   int           `json:"count"`
}

// SearchTrace is the complete audit of one request's ladder run.
type SearchTrace struct {
	Steps      []TraceStep `json:"steps"`
	FinalLevel int         `json:"final_level"`
	FinalLabel string      `json:"final_label"`
	Fallback   bool        `json:"fallback"`
}

// NewSearchTrace assembles the trace envelope from the recorded steps.
func NewSearchTrace(steps []TraceStep, fallback bool) SearchTrace {
	t := SearchTrace{
		Steps:      steps,
		FinalLabel: LabelL0,
		Fallback:   fallback,
	}
	if len(steps) > 0 {
		last := steps[len(steps)-1]
		t.FinalLevel = last.Level
		t.FinalLabel = last.Label
	}
	return t
}
