package recommend

// Deterministic per-category rationales used when the generator is absent or
// fails. Picks must never ship without a reasoning line.
var rationaleTemplates = map[string]string{
	"카페":   "조용한 분위기에서 여유로운 시간을 보내기 좋은 모임이에요.",
	"스포츠":  "몸을 움직이며 활력을 충전할 수 있는 모임이에요.",
	"맛집":   "맛있는 음식과 즐거운 대화를 함께할 수 있는 모임이에요.",
	"문화예술": "새로운 영감과 문화적 경험을 얻을 수 있는 모임이에요.",
	"소셜":   "새로운 사람들과 자연스럽게 어울릴 수 있는 모임이에요.",
}

const rationaleDefault = "회원님의 취향에 맞춰 추천된 모임이에요."

func templateRationale(category string) string {
	if r, ok := rationaleTemplates[category]; ok {
		return r
	}
	return rationaleDefault
}
