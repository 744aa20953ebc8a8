// Package response turns raw model output into results.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/moodboard/internal/apperr"
)

const (
	jsonFence = "```json"
	fence     = "```"
)

// Brief is the structured brand brief.
type Brief struct {
	Keywords []string         `json:"Brand_Keywords"`
	Vibe     string           `json:"Brand_Vibe_Description"`
	Analysis []ColourAnalysis `json:"Color_Analysis"`
}

// ColourAnalysis is the model's note on a single colour.
type ColourAnalysis struct {
	Hex      string `json:"hex"`
	Analysis string `json:"analysis"`
}

// ParseError carries the raw text that failed to decode.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON in model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StripFence removes a leading ```json (or bare ```) marker and a trailing
// ``` from the trimmed text.
func StripFence(text string) string {
	s := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(s, jsonFence):
		s = s[len(jsonFence):]
	case strings.HasPrefix(s, fence):
		s = s[len(fence):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), fence)
	return strings.TrimSpace(s)
}

// ParseJSON strips any fence and decodes the rest into v.
func ParseJSON(text string, v any) error {
	const op = "response.parse_json"

	body := StripFence(text)
	if body == "" {
		return apperr.Parse(op, &ParseError{Raw: text, Err: errors.New("empty output")})
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return apperr.Parse(op, &ParseError{Raw: text, Err: err})
	}
	return nil
}

// ParseBrief decodes a brand brief.
func ParseBrief(text string) (*Brief, error) {
	var b Brief
	if err := ParseJSON(text, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Reply returns free-text output trimmed of surrounding whitespace.
func Reply(text string) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", apperr.Parse("response.reply", errors.New("empty reply"))
	}
	return s, nil
}

// RawText returns the model output attached to a parse failure, if any.
func RawText(err error) (string, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Raw, true
	}
	return "", false
}
