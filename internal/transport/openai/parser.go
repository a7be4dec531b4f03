package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/moimlab/recs/internal/domain"
	"github.com/moimlab/recs/internal/domain/norm"
)

const parserSystemPrompt = `당신은 모임 검색 질의 분석기입니다. 사용자의 자유 텍스트에서 검색 조건을 추출해 JSON으로만 답하세요.

스키마:
{
  "keywords": ["핵심 단어"],
  "keyword": "검색어 한 개 (없으면 생략)",
  "category": "카페|스포츠|맛집|문화예술|소셜|취미 중 하나 (없으면 생략)",
  "subcategory": "세부 분류 (없으면 생략)",
  "vibe": "분위기 (없으면 생략)",
  "time_slot": "아침|오후|저녁|밤 중 하나 (없으면 생략)",
  "location_type": "실내|야외 중 하나 (없으면 생략)",
  "radius": 거리(km, 없으면 생략),
  "confidence": 0.0~1.0 (추출 확신도)
}

명시되지 않은 필드는 추측하지 말고 생략하세요. confidence는 추측한 필드가 많을수록 낮춥니다.`

// Parser extracts a structured query from a free-text prompt.
type Parser struct {
	client *Client
}

// NewParser creates the query parser over a shared chat client.
func NewParser(client *Client) *Parser {
	return &Parser{client: client}
}

// Parse runs one low-temperature JSON-mode completion and returns the
// canonicalized query.
func (p *Parser) Parse(ctx context.Context, prompt string) (domain.ParsedQuery, error) {
	text, err := p.client.chat(ctx, "parse", parserSystemPrompt, prompt, 0.1, 300, true)
	if err != nil {
		return domain.ParsedQuery{}, err
	}

	var q domain.ParsedQuery
	if err := json.Unmarshal([]byte(cleanJSON(text)), &q); err != nil {
		return domain.ParsedQuery{}, fmt.Errorf("llm parse: decode query: %w", err)
	}

	q.TimeSlot = norm.TimeSlot(q.TimeSlot)
	q.LocationType = norm.LocationType(q.LocationType)
	if q.Confidence < 0 {
		q.Confidence = 0
	}
	if q.Confidence > 1 {
		q.Confidence = 1
	}
	return q, nil
}
