// Package emotion maps the classifier's token output to display labels.
package emotion

import "strings"

// Separator joins tokens in the classifier output.
const Separator = "|"

// LabelSeparator joins display labels in a summary.
const LabelSeparator = " / "

// FailureIndicator is shown when the output holds no known token.
const FailureIndicator = "⚠️ 無法判斷情緒"

// Emotion is one entry of the classifier vocabulary.
type Emotion struct {
	Token   string
	Name    string
	Icon    string
	Meaning string
}

// Label returns the display form, icon then token.
func (e Emotion) Label() string {
	return e.Icon + " " + e.Token
}

var vocabulary = []Emotion{
	{Token: "憤怒", Name: "anger", Icon: "😡", Meaning: "生氣、指責"},
	{Token: "焦慮", Name: "anxiety", Icon: "😰", Meaning: "擔心、不安"},
	{Token: "不滿", Name: "dissatisfaction", Icon: "😤", Meaning: "對處理方式不滿意"},
	{Token: "質疑", Name: "doubt", Icon: "🤨", Meaning: "懷疑老師或學校的做法"},
	{Token: "無助", Name: "helplessness", Icon: "😢", Meaning: "不知道該怎麼辦"},
	{Token: "要求", Name: "demand", Icon: "📋", Meaning: "提出具體要求"},
	{Token: "抱怨", Name: "complaint", Icon: "😒", Meaning: "發牢騷"},
	{Token: "平靜", Name: "calm", Icon: "😌", Meaning: "理性溝通"},
	{Token: "感謝", Name: "gratitude", Icon: "🙏", Meaning: "表達謝意"},
}

var byToken = func() map[string]Emotion {
	m := make(map[string]Emotion, len(vocabulary))
	for _, e := range vocabulary {
		m[e.Token] = e
	}
	return m
}()

// Vocabulary returns the nine emotions in their canonical order.
func Vocabulary() []Emotion {
	out := make([]Emotion, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// Tokens returns the vocabulary tokens in canonical order.
func Tokens() []string {
	out := make([]string, len(vocabulary))
	for i, e := range vocabulary {
		out[i] = e.Token
	}
	return out
}

// Lookup finds the emotion for a token.
func Lookup(token string) (Emotion, bool) {
	e, ok := byToken[token]
	return e, ok
}

// Result is a parsed classification.
type Result struct {
	// Tokens are the raw tokens in output order.
	Tokens []string `json:"tokens"`
	// Labels are the display labels, one per token. Unknown tokens appear
	// unchanged.
	Labels []string `json:"labels"`
	// Malformed is set when no token is in the vocabulary.
	Malformed bool `json:"malformed"`
}

// Parse splits classifier output on Separator and maps every token.
func Parse(text string) Result {
	var r Result
	known := 0
	for _, raw := range strings.Split(strings.TrimSpace(text), Separator) {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		r.Tokens = append(r.Tokens, token)
		if e, ok := Lookup(token); ok {
			r.Labels = append(r.Labels, e.Label())
			known++
			continue
		}
		r.Labels = append(r.Labels, token)
	}
	r.Malformed = known == 0
	return r
}

// Summary joins the labels for display, or returns FailureIndicator for
// malformed output.
func (r Result) Summary() string {
	if r.Malformed {
		return FailureIndicator
	}
	return strings.Join(r.Labels, LabelSeparator)
}

// String implements fmt.Stringer.
func (r Result) String() string {
	return r.Summary()
}
