package prompt

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/moodboard/internal/emotion"
)

// Persona is a system instruction paired with a sampling temperature.
type Persona struct {
	Name              string
	SystemInstruction string
	Temperature       float32
}

// Persona temperatures.
const (
	ProfessionalTemperature float32 = 0.4
	VentingTemperature      float32 = 1.0
	ClassifierTemperature   float32 = 0
)

// Mood selects the flavour of a venting reply.
type Mood string

// The four venting moods.
const (
	MoodExhausted Mood = "exhausted"
	MoodFurious   Mood = "furious"
	MoodDeadpan   Mood = "deadpan"
	MoodDramatic  Mood = "dramatic"
)

type moodPreset struct {
	label string
	style string
}

var moodPresets = map[Mood]moodPreset{
	MoodExhausted: {
		label: "心累",
		style: "語氣像是連續加班一週的老師，有氣無力、長嘆一口氣，帶點自嘲的無奈。",
	},
	MoodFurious: {
		label: "氣炸",
		style: "語氣壓抑著怒火，字字帶刺但不出現髒話，像是咬著牙在微笑。",
	},
	MoodDeadpan: {
		label: "冷眼",
		style: "語氣極度冷靜、面無表情，用最平淡的句子說出最尖銳的吐槽。",
	},
	MoodDramatic: {
		label: "戲精",
		style: "語氣誇張浮誇，像在演八點檔，把小事講成世紀災難。",
	},
}

// Moods returns the moods in display order.
func Moods() []Mood {
	return []Mood{MoodExhausted, MoodFurious, MoodDeadpan, MoodDramatic}
}

// ParseMood accepts a mood key (case-insensitive) or its Chinese label.
func ParseMood(s string) (Mood, error) {
	s = strings.TrimSpace(s)
	for _, m := range Moods() {
		if strings.EqualFold(s, string(m)) || s == moodPresets[m].label {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q (want one of %s)", s, strings.Join(moodNames(), ", "))
}

func moodNames() []string {
	names := make([]string, 0, len(moodPresets))
	for _, m := range Moods() {
		names = append(names, string(m))
	}
	return names
}

// Label returns the Chinese display label.
func (m Mood) Label() string {
	return moodPresets[m].label
}

// String implements fmt.Stringer.
func (m Mood) String() string {
	return string(m)
}

// Valid reports whether m is one of the four presets.
func (m Mood) Valid() bool {
	_, ok := moodPresets[m]
	return ok
}

const professionalInstruction = `你是一位資深的幼兒園／國小老師，擅長與家長溝通。
請針對家長的訊息撰寫一則回覆：
- 使用繁體中文，語氣專業、溫和、有同理心。
- 先肯定家長的關心，再具體說明老師會如何處理或後續安排。
- 不推卸責任，也不過度承諾。
- 篇幅控制在 150 字以內，直接輸出回覆內容，不要加任何前言或說明。`

const ventingInstruction = `你是一位在辦公室私下發洩情緒的老師，這些話只會給同事看，絕對不會傳給家長。
請針對家長的訊息寫一段吐槽：
- 使用繁體中文，口語化、幽默、帶點諷刺。
- 目前的心情是「%s」：%s
- 不要人身攻擊、不要歧視、不要出現髒話。
- 篇幅控制在 120 字以內，直接輸出吐槽內容，不要加任何前言或說明。`

// Professional returns the persona for a courteous reply to the parent.
func Professional() Persona {
	return Persona{
		Name:              "professional",
		SystemInstruction: professionalInstruction,
		Temperature:       ProfessionalTemperature,
	}
}

// Venting returns the sarcastic persona for the given mood. An unknown mood
// falls back to MoodExhausted.
func Venting(m Mood) Persona {
	if !m.Valid() {
		m = MoodExhausted
	}
	preset := moodPresets[m]
	return Persona{
		Name:              "venting-" + string(m),
		SystemInstruction: fmt.Sprintf(ventingInstruction, preset.label, preset.style),
		Temperature:       VentingTemperature,
	}
}

// EmotionClassifier returns the persona that labels a message using only
// the emotion vocabulary.
func EmotionClassifier() Persona {
	tokens := emotion.Tokens()
	return Persona{
		Name: "emotion-classifier",
		SystemInstruction: fmt.Sprintf(`你是一個情緒分類器，負責判斷家長訊息中的情緒。
只能從以下詞彙中選擇一個或多個：%s
- 多個情緒之間以單一的「%s」分隔，依強度由高到低排列，例如：%s
- 不要輸出任何其他文字、標點、空白或解釋。`,
			strings.Join(tokens, "、"), emotion.Separator, tokens[0]+emotion.Separator+tokens[5]),
		Temperature: ClassifierTemperature,
	}
}

// ReplyPrompt wraps the parent's message as the user turn for reply personas.
func ReplyPrompt(message string) string {
	return "家長訊息：\n「" + strings.TrimSpace(message) + "」"
}

// ClassificationPrompt wraps the parent's message for the emotion classifier.
func ClassificationPrompt(message string) string {
	return "請判斷以下家長訊息的情緒：\n「" + strings.TrimSpace(message) + "」"
}
