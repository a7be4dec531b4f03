package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/moimlab/recs/internal/domain"
)

const rationaleSystemPrompt = `당신은 모임 추천 서비스의 카피라이터입니다. 사용자의 요청과 추천된 모임 정보를 받아, 왜 이 모임을 추천했는지 한두 문장의 친근한 한국어로 설명하세요. 과장하지 말고 주어진 정보만 사용하세요. 설명 문장만 출력합니다.`

// RationaleWriter generates the per-pick reasoning line.
type RationaleWriter struct {
	client *Client
}

// NewRationaleWriter creates the rationale generator over a shared chat
// client.
func NewRationaleWriter(client *Client) *RationaleWriter {
	return &RationaleWriter{client: client}
}

type rationaleInput struct {
	Prompt      string   `json:"user_prompt"`
	Title       string   `json:"title,omitempty"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Vibe        string   `json:"vibe,omitempty"`
	TimeSlot    string   `json:"time_slot,omitempty"`
	KeyPoints   []string `json:"key_points,omitempty"`
}

// Rationale writes one reasoning line for a pick. The completion runs warm
// (temperature 0.7) for varied phrasing.
func (w *RationaleWriter) Rationale(
	ctx context.Context, prompt string, m domain.ScoredMeeting,
) (string, error) {
	in := rationaleInput{
		Prompt:      prompt,
		Title:       m.Title,
		Category:    m.Category,
		Subcategory: m.Subcategory,
		Vibe:        m.Vibe,
		TimeSlot:    m.TimeSlot,
		KeyPoints:   m.KeyPoints,
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("llm rationale: encode input: %w", err)
	}

	text, err := w.client.chat(ctx, "rationale", rationaleSystemPrompt, string(payload), 0.7, 200, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `"`)), nil
}
