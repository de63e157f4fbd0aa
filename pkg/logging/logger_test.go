package logging

import (
	"context"
	"os"
	"testing"
)

func TestSetOutputs(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		currentOut := defaultLogger.Out
		SetOutputs(nil, 0, 0)
		if defaultLogger.Out != currentOut {
			t.Error("Logger output should not change by default")
		}
	})

	t.Run("stdout", func(t *testing.T) {
		SetOutputs([]string{"-"}, 0, 0)
		if defaultLogger.Out != os.Stdout {
			t.Error("Logger output should be stdout")
		}
	})

	t.Run("stderr", func(t *testing.T) {
		SetOutputs([]string{"="}, 0, 0)
		if defaultLogger.Out != os.Stderr {
			t.Error("Logger output should be stderr")
		}
	})
}

func TestSetLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		SetLevel(level)
		if got := Level(); got != level && !(level == "warn" && got == "warning") {
			t.Errorf("SetLevel(%q): got level %q", level, got)
		}
	}
	SetLevel("info")
}

func TestAddFields(t *testing.T) {
	ctx := AddFields(context.Background(), Fields{RequestIDFieldKey: "req-1"})
	ctx = AddFields(ctx, Fields{PhaseFieldKey: "precheck"})

	fields, ok := ctx.Value(LogFieldsContextKey).(Fields)
	if !ok {
		t.Fatal("expected log fields on context")
	}
	if fields[RequestIDFieldKey] != "req-1" {
		t.Errorf("request_id field: got %v", fields[RequestIDFieldKey])
	}
	if fields[PhaseFieldKey] != "precheck" {
		t.Errorf("phase field: got %v", fields[PhaseFieldKey])
	}
}
