package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentSession,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.Info("Signed in", FieldEmail, "mali@x.com")

	line := buf.String()
	if !strings.Contains(line, "component=session") {
		t.Errorf("log line missing component: %s", line)
	}
	if !strings.Contains(line, "email=mali@x.com") {
		t.Errorf("log line missing field: %s", line)
	}
}

func TestWithComponentRescopes(t *testing.T) {
	logger := New(Config{Component: ComponentApp})
	scoped := logger.WithComponent(ComponentMirror)

	if logger.Component() != ComponentApp {
		t.Errorf("original component = %q", logger.Component())
	}
	if scoped.Component() != ComponentMirror {
		t.Errorf("scoped component = %q", scoped.Component())
	}
}

func TestLogFieldsBuilder(t *testing.T) {
	fields := NewFields().
		WithComponent(ComponentChat).
		WithOperation(OpSave).
		WithError(errors.New("disk full"))

	slice := fields.ToSlice()
	if len(slice) != 6 {
		t.Fatalf("ToSlice() has %d elements, want 6", len(slice))
	}

	got := make(map[string]any)
	for i := 0; i < len(slice); i += 2 {
		got[slice[i].(string)] = slice[i+1]
	}
	if got[FieldComponent] != ComponentChat {
		t.Errorf("component = %v", got[FieldComponent])
	}
	if got[FieldOperation] != OpSave {
		t.Errorf("operation = %v", got[FieldOperation])
	}
	if got[FieldError] != "disk full" {
		t.Errorf("error = %v", got[FieldError])
	}
}

func TestWithErrorIgnoresNil(t *testing.T) {
	fields := NewFields().WithError(nil)
	if len(fields) != 0 {
		t.Errorf("nil error added a field: %v", fields)
	}
}
