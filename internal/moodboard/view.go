package moodboard

import (
	"strings"

	"github.com/jmylchreest/moodboard/internal/colour"
	"github.com/jmylchreest/moodboard/internal/response"
)

// Placeholders shown when the brief omits a field.
const (
	NoKeywords       = "無關鍵字"
	NoVibe           = "無描述"
	NoAnalysis       = "AI 未提供分析內容"
	FallbackHex      = "#FFFFFF"
	KeywordSeparator = "｜"
)

// AnalysisRow is one line of the colour analysis table.
type AnalysisRow struct {
	Hex      string
	Swatch   colour.RGB
	Analysis string
}

// View is a brief prepared for display.
type View struct {
	Keywords string
	Vibe     string
	Rows     []AnalysisRow
}

// NewView fills placeholders for missing brief fields and normalises the hex
// codes the model returned.
func NewView(b *response.Brief) View {
	if b == nil {
		b = &response.Brief{}
	}

	v := View{
		Keywords: NoKeywords,
		Vibe:     NoVibe,
	}
	if len(b.Keywords) > 0 {
		v.Keywords = strings.Join(b.Keywords, KeywordSeparator)
	}
	if strings.TrimSpace(b.Vibe) != "" {
		v.Vibe = b.Vibe
	}

	for _, a := range b.Analysis {
		row := AnalysisRow{Hex: colour.NormaliseHex(a.Hex, FallbackHex), Analysis: NoAnalysis}
		row.Swatch, _ = colour.ParseHex(row.Hex)
		if strings.TrimSpace(a.Analysis) != "" {
			row.Analysis = a.Analysis
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}
