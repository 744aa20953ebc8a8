package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindUnknown},
		{name: "plain error", err: cause, want: KindUnknown},
		{name: "service", err: Service("generate", cause), want: KindService},
		{name: "parse", err: Parse("brief", cause), want: KindParse},
		{name: "input", err: Input("reply", "message is empty"), want: KindInput},
		{name: "configuration", err: Configuration("config", "missing key"), want: KindConfiguration},
		{name: "wrapped twice", err: fmt.Errorf("outer: %w", Service("generate", cause)), want: KindService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServiceAndParseAreDistinct(t *testing.T) {
	cause := errors.New("boom")
	svc := Service("op", cause)
	prs := Parse("op", cause)

	if Is(svc, KindParse) {
		t.Error("service error must not be reported as parse error")
	}
	if Is(prs, KindService) {
		t.Error("parse error must not be reported as service error")
	}
	if !errors.Is(svc, cause) || !errors.Is(prs, cause) {
		t.Error("expected both errors to unwrap to the cause")
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(KindService, "op", nil, "msg"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestErrorMessage(t *testing.T) {
	err := Service("moodboard.brief", errors.New("401 unauthorized"))
	msg := err.Error()
	for _, want := range []string{"moodboard.brief", "service error", "401 unauthorized"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q does not contain %q", msg, want)
		}
	}
}
