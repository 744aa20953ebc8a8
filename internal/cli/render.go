package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jmylchreest/moodboard/internal/colour"
	"github.com/jmylchreest/moodboard/internal/moodboard"
	"github.com/jmylchreest/moodboard/internal/reply"
	"github.com/jmylchreest/moodboard/internal/response"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
)

const swatchWidth = 9

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format %q (valid: %s, %s)", format, formatTable, formatJSON)
	}
}

// formatBoard renders the named palette. With preview set each colour gets an
// ANSI swatch.
func formatBoard(board *moodboard.Board, showPreview bool) string {
	var sb strings.Builder

	if showPreview {
		for _, c := range board.Colours {
			sb.WriteString(colour.ColourPreviewWithText(c.RGB, c.Hex, swatchWidth))
		}
		sb.WriteString("\n")
		for _, c := range board.Colours {
			sb.WriteString(padRight(colour.DisplayName(c.Name), swatchWidth))
		}
		sb.WriteString("\n\n")
	}

	headers := []string{"Hex", "Name", "Tags"}
	if showPreview {
		headers = append([]string{""}, headers...)
	}
	table := NewTable(headers)
	for _, c := range board.Colours {
		row := []string{c.Hex, colour.DisplayName(c.Name), strings.Join(colour.TagStrings(c.Tags), ", ")}
		if showPreview {
			row = append([]string{colour.ColourPreview(c.RGB, 4)}, row...)
		}
		table.AddRow(row)
	}
	sb.WriteString(table.Render())
	return sb.String()
}

// formatBrief renders the brand brief: keywords, vibe and analysis table.
func formatBrief(view moodboard.View, showPreview bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "核心關鍵字 (Keywords): %s\n\n", view.Keywords)
	fmt.Fprintf(&sb, "品牌氛圍 (Vibe):\n  %s\n\n", view.Vibe)

	if len(view.Rows) == 0 {
		sb.WriteString("AI 未能提供顏色分析內容。\n")
		return sb.String()
	}

	headers := []string{"Hex", "分析與作用"}
	if showPreview {
		headers = append([]string{"色票"}, headers...)
	}
	table := NewTable(headers)
	table.SetColumnMaxWidth(len(headers)-1, 60)
	for _, row := range view.Rows {
		cells := []string{row.Hex, row.Analysis}
		if showPreview {
			cells = append([]string{colour.ColourPreview(row.Swatch, 4)}, cells...)
		}
		table.AddRow(cells)
	}
	sb.WriteString(table.Render())
	return sb.String()
}

// formatReply renders a reply result, emotion summary first.
func formatReply(res *reply.Result) string {
	var sb strings.Builder
	if res.Emotion != nil {
		fmt.Fprintf(&sb, "情緒: %s\n\n", res.Emotion.Summary())
	}
	if res.Reply != "" {
		sb.WriteString(res.Reply)
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRawOutput prints the model text behind a parse failure so it reads
// differently from a service failure. Other errors print nothing.
func writeRawOutput(w io.Writer, err error) {
	raw, ok := response.RawText(err)
	if !ok {
		return
	}
	fmt.Fprintf(w, "The model's answer could not be parsed. Raw output:\n%s\n", strings.TrimSpace(raw))
}
