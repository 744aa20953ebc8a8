package reply

import (
	"context"
	"strings"
	"testing"

	"github.com/jmylchreest/moodboard/internal/apperr"
	"github.com/jmylchreest/moodboard/internal/emotion"
	"github.com/jmylchreest/moodboard/internal/llm/llmtest"
	"github.com/jmylchreest/moodboard/internal/prompt"
)

const message = "老師你好，為什麼我家小孩今天又沒有午睡？請給我一個解釋。"

func TestProfessional(t *testing.T) {
	stub := llmtest.New("\n  家長您好，謝謝您的關心。  \n")
	svc := New(stub, nil)

	res, err := svc.Professional(context.Background(), message)
	if err != nil {
		t.Fatalf("Professional() error = %v", err)
	}
	if res.Reply != "家長您好，謝謝您的關心。" {
		t.Errorf("Reply = %q", res.Reply)
	}
	if res.Mode != ModeProfessional || res.Emotion != nil {
		t.Errorf("Result = %+v", res)
	}

	req := stub.Requests()[0]
	want := prompt.Professional()
	if req.SystemInstruction != want.SystemInstruction {
		t.Error("professional persona not used")
	}
	if req.Temperature == nil || *req.Temperature != want.Temperature {
		t.Errorf("Temperature = %v, want %v", req.Temperature, want.Temperature)
	}
	if !strings.Contains(req.Prompt, message) {
		t.Error("prompt should contain the message")
	}
}

func TestVent(t *testing.T) {
	for _, mood := range prompt.Moods() {
		t.Run(string(mood), func(t *testing.T) {
			stub := llmtest.New("唉。")
			res, err := New(stub, nil).Vent(context.Background(), message, mood)
			if err != nil {
				t.Fatalf("Vent() error = %v", err)
			}
			if res.Persona != prompt.Venting(mood).Name || res.Mode != ModeVenting {
				t.Errorf("Result = %+v", res)
			}
			if got := stub.Requests()[0].SystemInstruction; !strings.Contains(got, mood.Label()) {
				t.Errorf("system instruction does not mention %s", mood.Label())
			}
		})
	}

	stub := llmtest.New("unused")
	if _, err := New(stub, nil).Vent(context.Background(), message, "grumpy"); !apperr.Is(err, apperr.KindInput) {
		t.Errorf("Vent(unknown mood) error = %v, want input error", err)
	}
	if stub.Calls() != 0 {
		t.Error("no call should be made for an unknown mood")
	}
}

func TestInputErrorsSkipGenerator(t *testing.T) {
	stub := llmtest.New("unused")
	svc := New(stub, nil)
	ctx := context.Background()

	for _, msg := range []string{"", "   \n", strings.Repeat("字", MaxMessageRunes+1)} {
		if _, err := svc.Professional(ctx, msg); !apperr.Is(err, apperr.KindInput) {
			t.Errorf("Professional() error = %v, want input error", err)
		}
		if _, err := svc.Classify(ctx, msg); !apperr.Is(err, apperr.KindInput) {
			t.Errorf("Classify() error = %v, want input error", err)
		}
		if _, err := svc.ClassifyAndReply(ctx, msg); !apperr.Is(err, apperr.KindInput) {
			t.Errorf("ClassifyAndReply() error = %v, want input error", err)
		}
	}
	if stub.Calls() != 0 {
		t.Errorf("generator called %d times, want 0", stub.Calls())
	}
}

func TestClassifyAndReply(t *testing.T) {
	stub := llmtest.New("憤怒|要求", "家長您好，我們會再留意午睡狀況。")
	res, err := New(stub, nil).ClassifyAndReply(context.Background(), message)
	if err != nil {
		t.Fatalf("ClassifyAndReply() error = %v", err)
	}
	if res.Emotion == nil || res.Emotion.Summary() != "😡 憤怒 / 📋 要求" {
		t.Errorf("Emotion = %+v", res.Emotion)
	}
	if res.Reply != "家長您好，我們會再留意午睡狀況。" || res.Mode != ModeClassify {
		t.Errorf("Result = %+v", res)
	}

	reqs := stub.Requests()
	if len(reqs) != 2 {
		t.Fatalf("got %d calls, want 2", len(reqs))
	}
	if reqs[0].SystemInstruction != prompt.EmotionClassifier().SystemInstruction {
		t.Error("first call should be the classifier")
	}
	if reqs[1].SystemInstruction != prompt.Professional().SystemInstruction {
		t.Error("second call should be the professional reply")
	}
}

func TestClassifyMalformed(t *testing.T) {
	stub := llmtest.New("家長很生氣。")
	res, err := New(stub, nil).Classify(context.Background(), message)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if !res.Malformed || res.Summary() != emotion.FailureIndicator {
		t.Errorf("Result = %+v", res)
	}
	if stub.Calls() != 1 {
		t.Errorf("malformed output should not be retried, got %d calls", stub.Calls())
	}
}

func TestServiceErrors(t *testing.T) {
	ctx := context.Background()

	svc := New(llmtest.Failing("network unreachable"), nil)
	if _, err := svc.Professional(ctx, message); !apperr.Is(err, apperr.KindService) {
		t.Errorf("Professional() error = %v, want service error", err)
	}

	stub := llmtest.New("焦慮").Then(llmtest.Reply{Err: apperr.Service("test", context.DeadlineExceeded)})
	res, err := New(stub, nil).ClassifyAndReply(ctx, message)
	if !apperr.Is(err, apperr.KindService) {
		t.Fatalf("ClassifyAndReply() error = %v, want service error", err)
	}
	if res == nil || res.Emotion == nil || res.Emotion.Summary() != "😰 焦慮" {
		t.Errorf("classification should survive a failed reply, got %+v", res)
	}

	if _, err := New(llmtest.New("   "), nil).Professional(ctx, message); !apperr.Is(err, apperr.KindParse) {
		t.Errorf("blank reply error = %v, want parse error", err)
	}

	if _, err := New(nil, nil).Professional(ctx, message); !apperr.Is(err, apperr.KindConfiguration) {
		t.Errorf("nil generator error = %v, want configuration error", err)
	}
}

func TestRunAndParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"", ModeProfessional},
		{"Professional", ModeProfessional},
		{"venting", ModeVenting},
		{"classify", ModeClassify},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %q, %v", tt.input, got, err)
		}
	}
	if _, err := ParseMode("shout"); !apperr.Is(err, apperr.KindInput) {
		t.Errorf("ParseMode(shout) error = %v", err)
	}

	stub := llmtest.New("不滿", "好的。")
	res, err := New(stub, nil).Run(context.Background(), ModeClassify, message, "")
	if err != nil || res.Emotion == nil || res.Reply != "好的。" {
		t.Errorf("Run(classify) = %+v, %v", res, err)
	}
}
