package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	log, err := LoggingConfig{Level: "debug", Format: "json"}.NewLogger(&buf)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	log.Debug("tick", "n", 1)
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("Expected JSON output, got %q", buf.String())
	}

	buf.Reset()
	log, err = LoggingConfig{Level: "warn", Format: "text"}.NewLogger(&buf)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected info to be filtered at warn level, got %q", buf.String())
	}
}

func TestNewLoggerRejectsUnknownValues(t *testing.T) {
	if _, err := (LoggingConfig{Level: "loud"}).NewLogger(&bytes.Buffer{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a bad level, got %v", err)
	}
	if _, err := (LoggingConfig{Level: "info", Format: "xml"}).NewLogger(&bytes.Buffer{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a bad format, got %v", err)
	}
}
