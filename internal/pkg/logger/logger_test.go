// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(&buf, "warn")

	log.Debug("debug %d", 1)
	log.Info("info %d", 2)
	log.Warn("warn %d", 3)
	log.Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("Expected debug and info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "warn 3") || !strings.Contains(out, "error 4") {
		t.Errorf("Expected warn and error lines, got %q", out)
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(&buf, "verbose")

	log.Debug("hidden")
	log.Info("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("Expected debug to be filtered, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("Expected info line, got %q", buf.String())
	}
}

func TestRedactorScrubsEveryLevel(t *testing.T) {
	var buf bytes.Buffer
	redact := func(s string) string { return strings.ReplaceAll(s, "hunter2", "***") }
	log := NewWithOptions(&buf, "debug", WithRedactor(redact))

	log.Debug("debug hunter2")
	log.Info("info %s", "hunter2")
	log.Warn("warn hunter2")
	log.Error("pull registry.example.com/hunter2/app:1: %v", "exit status 1")

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Errorf("Expected secret to be redacted, got %q", out)
	}
	if strings.Count(out, "***") != 4 {
		t.Errorf("Expected 4 redactions, got %q", out)
	}
}
