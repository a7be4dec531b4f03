package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/moimlab/recs/internal/domain"
	"github.com/moimlab/recs/internal/domain/norm"
)

const enricherSystemPrompt = `당신은 모임 검색 질의 보정기입니다. 파싱된 검색 조건과 사용자 프로필을 받아, 빈 필드를 프로필로 보완한 JSON을 같은 스키마로만 답하세요.

규칙:
- 이미 채워진 필드는 절대 바꾸지 않습니다.
- 프로필의 선호 시간대/장소 유형은 해당 필드가 비어 있을 때만 채웁니다.
- 관심사는 keywords에 추가하지 않습니다. 명시적 질의를 오염시키지 마세요.
- confidence는 입력값을 유지합니다.`

// Enricher fills query gaps from the user's profile. Explicit query values
// always win over profile-derived ones.
type Enricher struct {
	client *Client
}

// NewEnricher creates the context enricher over a shared chat client.
func NewEnricher(client *Client) *Enricher {
	return &Enricher{client: client}
}

type enricherInput struct {
	Query domain.ParsedQuery `json:"query"`
	User  struct {
		Interests      string `json:"interests,omitempty"`
		TimePreference string `json:"time_preference,omitempty"`
		LocationPref   string `json:"location_pref,omitempty"`
		BudgetType     string `json:"budget_type,omitempty"`
	} `json:"user"`
}

// Enrich returns the refined query. The model's output is sanity-checked:
// fields the input query already carried are restored verbatim, so a drifting
// completion can never overwrite an explicit request.
func (e *Enricher) Enrich(
	ctx context.Context, q domain.ParsedQuery, u domain.UserContext,
) (domain.ParsedQuery, error) {
	in := enricherInput{Query: q}
	in.User.Interests = u.Interests
	in.User.TimePreference = u.TimePreference
	in.User.LocationPref = u.LocationPref
	in.User.BudgetType = u.BudgetType

	payload, err := json.Marshal(in)
	if err != nil {
		return domain.ParsedQuery{}, fmt.Errorf("llm enrich: encode input: %w", err)
	}

	text, err := e.client.chat(ctx, "enrich", enricherSystemPrompt, string(payload), 0.1, 300, true)
	if err != nil {
		return domain.ParsedQuery{}, err
	}

	var out domain.ParsedQuery
	if err := json.Unmarshal([]byte(cleanJSON(text)), &out); err != nil {
		return domain.ParsedQuery{}, fmt.Errorf("llm enrich: decode query: %w", err)
	}

	out.TimeSlot = norm.TimeSlot(out.TimeSlot)
	out.LocationType = norm.LocationType(out.LocationType)
	return guardEnriched(q, out), nil
}

// guardEnriched restores every explicitly parsed field and the original
// confidence, keeping only additive enrichment.
func guardEnriched(orig, enriched domain.ParsedQuery) domain.ParsedQuery {
	out := enriched
	if len(orig.Keywords) > 0 {
		out.Keywords = orig.Keywords
	}
	if orig.Keyword != "" {
		out.Keyword = orig.Keyword
	}
	if orig.Category != "" {
		out.Category = orig.Category
	}
	if orig.Subcategory != "" {
		out.Subcategory = orig.Subcategory
	}
	if orig.Vibe != "" {
		out.Vibe = orig.Vibe
	}
	if orig.TimeSlot != "" {
		out.TimeSlot = orig.TimeSlot
	}
	if orig.LocationType != "" {
		out.LocationType = orig.LocationType
	}
	if orig.Radius != 0 {
		out.Radius = orig.Radius
	}
	out.Confidence = orig.Confidence
	return out
}
