package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

type testMessage struct{}

func (testMessage) Type() string { return "blog.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "blog.test.invalid" }

func (invalidMessage) Validate() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run on a cancelled context")
	}
}

func TestHandlerExecutionErrorsAreCategorised(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return errors.New("boom")
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlerTimeout(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlerTelemetryObservesOutcome(t *testing.T) {
	var observed TelemetryInfo
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	},
		WithOperation[testMessage]("test.operation"),
		WithMessageFields(func(testMessage) map[string]any {
			return map[string]any{"custom": true}
		}),
		WithTelemetry[testMessage](func(_ context.Context, _ testMessage, info TelemetryInfo) {
			observed = info
		}),
	)

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if observed.Status != TelemetryStatusSuccess {
		t.Fatalf("expected success status, got %s", observed.Status)
	}
	if observed.Operation != "test.operation" {
		t.Fatalf("unexpected operation: %s", observed.Operation)
	}
	if observed.Fields["custom"] != true {
		t.Fatalf("expected message fields to reach telemetry, got %v", observed.Fields)
	}
	if observed.Command != "blog.test.message" {
		t.Fatalf("unexpected command type: %s", observed.Command)
	}
}

type recordingLogger struct {
	messages []string
	fields   map[string]any
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Error(msg string, args ...any) { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.messages = append(l.messages, msg) }
func (l *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	return l
}

type recordingFieldsLogger struct {
	recordingLogger
}

func (l *recordingFieldsLogger) WithFields(fields map[string]any) interfaces.Logger {
	l.fields = fields
	return l
}

func TestDefaultTelemetryLogsOutcome(t *testing.T) {
	plain := &recordingLogger{}
	telemetry := DefaultTelemetry[testMessage](plain)

	telemetry(context.Background(), testMessage{}, TelemetryInfo{
		Status: TelemetryStatusSuccess,
		Fields: map[string]any{"operation": "test.operation"},
	})

	if len(plain.messages) != 1 || plain.messages[0] != "command.execute.success" {
		t.Fatalf("unexpected log entries: %v", plain.messages)
	}

	enriched := &recordingFieldsLogger{}
	telemetry = DefaultTelemetry[testMessage](enriched)

	telemetry(context.Background(), testMessage{}, TelemetryInfo{
		Status: TelemetryStatusFailed,
		Error:  errors.New("boom"),
		Fields: map[string]any{"operation": "test.operation"},
	})

	if enriched.fields["operation"] != "test.operation" {
		t.Fatalf("expected fields to reach the logger, got %v", enriched.fields)
	}
	if len(enriched.messages) != 1 || enriched.messages[0] != "command.execute.failed" {
		t.Fatalf("unexpected log entries: %v", enriched.messages)
	}
}
