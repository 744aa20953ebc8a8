// Package prompt builds the instructions sent to the language model.
// Everything here is pure string construction.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmylchreest/moodboard/internal/colour"
)

// briefColour is the per-colour record embedded in the brand brief prompt.
type briefColour struct {
	Hex       string   `json:"hex"`
	Name      string   `json:"name"`
	StyleTags []string `json:"style_tags"`
}

const briefTemplate = `你是一位頂尖的品牌策略顧問和色彩心理學專家。
請根據以下的色票資訊，為一個新品牌生成一份品牌形象的草稿。

色票數據：
%s

請生成以下內容，並**嚴格以 Markdown 格式的 JSON 區塊**輸出。

1. **Brand_Keywords (列表, 5-7個)**：根據整體色調帶來的聯想，列出品牌核心關鍵字 (e.g., 奢華, 自然, 科技, 溫暖)。
2. **Brand_Vibe_Description (字串, 150字以內)**：綜合所有顏色，寫一段精煉的品牌氛圍描述，說明品牌給人的整體感受和情感連結。
3. **Color_Analysis (列表)**：針對**每一個**色票，生成一段簡短的分析 (約30字)，說明該顏色在品牌中的作用和象徵意義。

輸出格式範例:
` + "```json" + `
{
  "Brand_Keywords": ["...", "..."],
  "Brand_Vibe_Description": "...",
  "Color_Analysis": [
    { "hex": "#...", "analysis": "..." },
    { "hex": "#...", "analysis": "..." }
  ]
}
` + "```" + `
`

// ColourData renders the colours as the indented JSON array used in the
// brand brief. Non-ASCII text is left unescaped.
func ColourData(colours []colour.NamedColour) (string, error) {
	records := make([]briefColour, len(colours))
	for i, c := range colours {
		tags := colour.TagStrings(c.Tags)
		if tags == nil {
			tags = []string{}
		}
		records[i] = briefColour{
			Hex:       c.Hex,
			Name:      colour.DisplayName(c.Name),
			StyleTags: tags,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("failed to encode colour data: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// BrandBrief returns the prompt asking for brand keywords, a vibe description
// and a per-colour analysis as a fenced JSON block.
func BrandBrief(colours []colour.NamedColour) (string, error) {
	if len(colours) == 0 {
		return "", fmt.Errorf("no colours to describe")
	}
	data, err := ColourData(colours)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(briefTemplate, data), nil
}
