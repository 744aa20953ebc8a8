// Package reply runs the parent-message flows: a professional reply, a
// venting reply and an emotion classification.
package reply

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/moodboard/internal/apperr"
	"github.com/jmylchreest/moodboard/internal/emotion"
	"github.com/jmylchreest/moodboard/internal/llm"
	"github.com/jmylchreest/moodboard/internal/prompt"
	"github.com/jmylchreest/moodboard/internal/response"
)

// MaxMessageRunes bounds the length of a parent message.
const MaxMessageRunes = 2000

// Mode selects which flow a request runs.
type Mode string

// Reply modes.
const (
	ModeProfessional Mode = "professional"
	ModeVenting      Mode = "venting"
	ModeClassify     Mode = "classify"
)

// ParseMode validates a mode string. Empty selects ModeProfessional.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeProfessional, nil
	case ModeProfessional, ModeVenting, ModeClassify:
		return m, nil
	default:
		return "", apperr.Input("reply.mode", "unknown mode "+s)
	}
}

// Result is the outcome of a reply flow.
type Result struct {
	Mode    Mode            `json:"mode"`
	Persona string          `json:"persona"`
	Reply   string          `json:"reply,omitempty"`
	Emotion *emotion.Result `json:"emotion,omitempty"`
}

// Service runs the reply flows against a generator.
type Service struct {
	gen    llm.Generator
	logger hclog.Logger
}

// New creates a Service.
func New(gen llm.Generator, logger hclog.Logger) *Service {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Service{gen: gen, logger: logger}
}

func checkMessage(op, message string) (string, error) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return "", apperr.Input(op, "message is empty")
	}
	if utf8.RuneCountInString(msg) > MaxMessageRunes {
		return "", apperr.Input(op, "message is too long")
	}
	return msg, nil
}

func (s *Service) generate(ctx context.Context, op string, p prompt.Persona, userTurn string) (string, error) {
	if s.gen == nil {
		return "", apperr.Configuration(op, "no language model configured")
	}
	s.logger.Debug("generating", "persona", p.Name, "temperature", p.Temperature)
	start := time.Now()
	raw, err := s.gen.Generate(ctx, llm.Request{
		Prompt:            userTurn,
		SystemInstruction: p.SystemInstruction,
		Temperature:       llm.Temperature(p.Temperature),
	})
	if err != nil {
		return "", err
	}
	s.logger.Debug("generated", "persona", p.Name, "elapsed", time.Since(start), "chars", len(raw))
	return raw, nil
}

func (s *Service) replyWith(ctx context.Context, op string, mode Mode, p prompt.Persona, message string) (*Result, error) {
	msg, err := checkMessage(op, message)
	if err != nil {
		return nil, err
	}
	raw, err := s.generate(ctx, op, p, prompt.ReplyPrompt(msg))
	if err != nil {
		return nil, err
	}
	text, err := response.Reply(raw)
	if err != nil {
		return nil, err
	}
	return &Result{Mode: mode, Persona: p.Name, Reply: text}, nil
}

// Professional writes a courteous reply to the parent.
func (s *Service) Professional(ctx context.Context, message string) (*Result, error) {
	return s.replyWith(ctx, "reply.professional", ModeProfessional, prompt.Professional(), message)
}

// Vent writes a sarcastic reply in the given mood.
func (s *Service) Vent(ctx context.Context, message string, mood prompt.Mood) (*Result, error) {
	const op = "reply.vent"
	if !mood.Valid() {
		return nil, apperr.Input(op, "unknown mood "+string(mood))
	}
	return s.replyWith(ctx, op, ModeVenting, prompt.Venting(mood), message)
}

// Classify labels the emotions in the message. Output without any known
// token is returned as a malformed result, not an error.
func (s *Service) Classify(ctx context.Context, message string) (*emotion.Result, error) {
	const op = "reply.classify"
	msg, err := checkMessage(op, message)
	if err != nil {
		return nil, err
	}
	raw, err := s.generate(ctx, op, prompt.EmotionClassifier(), prompt.ClassificationPrompt(msg))
	if err != nil {
		return nil, err
	}
	res := emotion.Parse(raw)
	if res.Malformed {
		s.logger.Warn("classifier output had no known emotion", "output", raw)
	}
	return &res, nil
}

// ClassifyAndReply classifies the message, then writes a professional reply.
// The calls run one after the other. If the reply fails the classification
// is still returned alongside the error.
func (s *Service) ClassifyAndReply(ctx context.Context, message string) (*Result, error) {
	emo, err := s.Classify(ctx, message)
	if err != nil {
		return nil, err
	}
	res, err := s.Professional(ctx, message)
	if err != nil {
		return &Result{Mode: ModeClassify, Emotion: emo}, err
	}
	res.Mode = ModeClassify
	res.Emotion = emo
	return res, nil
}

// Run dispatches on mode. mood is only used for ModeVenting.
func (s *Service) Run(ctx context.Context, mode Mode, message string, mood prompt.Mood) (*Result, error) {
	switch mode {
	case ModeVenting:
		return s.Vent(ctx, message, mood)
	case ModeClassify:
		return s.ClassifyAndReply(ctx, message)
	default:
		return s.Professional(ctx, message)
	}
}
