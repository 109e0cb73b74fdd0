package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetVerbose(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("embedding %d chunks", 3)

	if buf.String() != "[DEBUG] embedding 3 chunks\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no output when not verbose, got %q", buf.String())
	}
}

func TestError_AlwaysPrints(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Error("vector length %d does not match store dimension %d", 128, 768)

	if !strings.HasPrefix(buf.String(), "[ERROR] ") {
		t.Errorf("expected error output regardless of verbosity, got %q", buf.String())
	}
}

func TestSection(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Ingestion")

	if !strings.Contains(buf.String(), "=== Ingestion ===") {
		t.Errorf("unexpected section output: %q", buf.String())
	}
}
