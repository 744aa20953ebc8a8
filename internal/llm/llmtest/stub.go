// Package llmtest provides a scripted llm.Generator for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/jmylchreest/moodboard/internal/apperr"
	"github.com/jmylchreest/moodboard/internal/llm"
)

// Reply is one scripted response.
type Reply struct {
	Text string
	Err  error
}

// Stub returns scripted replies in order and records every request.
// Once the script is exhausted the last reply repeats.
type Stub struct {
	mu       sync.Mutex
	replies  []Reply
	requests []llm.Request
}

// New returns a stub that answers with the given texts in order.
func New(texts ...string) *Stub {
	s := &Stub{}
	for _, t := range texts {
		s.replies = append(s.replies, Reply{Text: t})
	}
	return s
}

// Failing returns a stub whose every call fails with a service error.
func Failing(msg string) *Stub {
	return &Stub{replies: []Reply{{Err: apperr.Service("llmtest", errors.New(msg))}}}
}

// Then appends a reply to the script.
func (s *Stub) Then(r Reply) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, r)
	return s
}

// Generate implements llm.Generator.
func (s *Stub) Generate(ctx context.Context, req llm.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperr.Service("llmtest", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.requests)
	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		return "", nil
	}
	if n >= len(s.replies) {
		n = len(s.replies) - 1
	}
	r := s.replies[n]
	return r.Text, r.Err
}

// Requests returns a copy of every request received.
func (s *Stub) Requests() []llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]llm.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Calls returns how many times Generate was called.
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

var _ llm.Generator = (*Stub)(nil)
