// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewSyncOutcome(t *testing.T) {
	outcome := NewSyncOutcome(2, SyncEntry{Source: "nginx:latest", Target: "registry.example.com/nginx:latest"})

	if outcome.ID == "" {
		t.Error("Expected non-empty ID")
	}

	if outcome.Index != 2 {
		t.Errorf("Expected Index 2, got %d", outcome.Index)
	}

	if outcome.Source != "nginx:latest" {
		t.Errorf("Expected Source 'nginx:latest', got '%s'", outcome.Source)
	}

	if outcome.Status != StatusPending {
		t.Errorf("Expected status 'pending', got '%s'", outcome.Status)
	}

	if outcome.EndTime != nil {
		t.Error("Expected nil EndTime for pending outcome")
	}

	if len(outcome.LogLines) != 0 {
		t.Errorf("Expected empty LogLines, got %d items", len(outcome.LogLines))
	}
}

func TestSyncOutcome_AddLog(t *testing.T) {
	outcome := NewSyncOutcome(0, SyncEntry{Source: "src", Target: "dest"})

	outcome.AddLog("First log")
	outcome.AddLog("Second log")

	logs := outcome.GetLogLines()
	if len(logs) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(logs))
	}

	if logs[0] != "First log" {
		t.Errorf("Expected first log 'First log', got '%s'", logs[0])
	}

	if logs[1] != "Second log" {
		t.Errorf("Expected second log 'Second log', got '%s'", logs[1])
	}
}

func TestSyncOutcome_Transitions(t *testing.T) {
	outcome := NewSyncOutcome(0, SyncEntry{Source: "src", Target: "dest"})

	outcome.Start()
	if outcome.Status != StatusRunning {
		t.Errorf("Expected status 'running', got '%s'", outcome.Status)
	}

	outcome.Fail(StepPush, errors.New("denied"))
	if outcome.Status != StatusFailed {
		t.Errorf("Expected status 'failed', got '%s'", outcome.Status)
	}
	if outcome.Step != StepPush {
		t.Errorf("Expected step 'push', got '%s'", outcome.Step)
	}
	if outcome.ErrorOutput != "denied" {
		t.Errorf("Expected error output 'denied', got '%s'", outcome.ErrorOutput)
	}
	if outcome.EndTime == nil {
		t.Error("Expected EndTime to be set")
	}
}

func TestRunSummary(t *testing.T) {
	completed := NewSyncOutcome(0, SyncEntry{Source: "a", Target: "b"})
	completed.Complete()
	failed := NewSyncOutcome(1, SyncEntry{Source: "c", Target: "d"})
	failed.Fail(StepPull, errors.New("not found"))
	skipped := NewSyncOutcome(2, SyncEntry{Source: "e", Target: "f"})
	skipped.Skip()

	summary := NewRunSummary([]*SyncOutcome{completed, failed, skipped})
	if summary.Total != 3 || summary.Succeeded != 1 || summary.Failed != 1 || summary.Skipped != 1 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
	if summary.AllSucceeded() {
		t.Error("Expected AllSucceeded to be false")
	}

	if !NewRunSummary(nil).AllSucceeded() {
		t.Error("Expected empty run to count as all succeeded")
	}
}

func TestSyncJob_EntriesAreCopied(t *testing.T) {
	entries := []SyncEntry{{Source: "a", Target: "b"}}
	job := NewSyncJob("images.json", entries)

	entries[0].Source = "mutated"
	got := job.Entries()
	got[0].Target = "mutated"

	again := job.Entries()
	if again[0].Source != "a" || again[0].Target != "b" {
		t.Errorf("Expected job entries to be immutable, got %+v", again[0])
	}
	if job.Len() != 1 {
		t.Errorf("Expected Len 1, got %d", job.Len())
	}
}

func TestSecretNeverFormats(t *testing.T) {
	creds := Credentials{Registry: "registry.example.com", Username: "bot", Secret: "hunter2-token"}

	for _, rendered := range []string{
		fmt.Sprintf("%s", creds.Secret),
		fmt.Sprintf("%v", creds),
		fmt.Sprintf("%+v", creds),
		fmt.Sprintf("%#v", creds),
		fmt.Sprintf("%q", creds.Secret),
		fmt.Sprint(creds.Secret),
	} {
		if strings.Contains(rendered, "hunter2") {
			t.Errorf("Secret leaked in %q", rendered)
		}
	}

	if creds.Secret.Reveal() != "hunter2-token" {
		t.Errorf("Expected Reveal to return the raw secret")
	}
}

func TestCredentialsRedact(t *testing.T) {
	creds := Credentials{Secret: "s3cret"}
	got := creds.Redact("error: password s3cret rejected (s3cret)")
	if strings.Contains(got, "s3cret") {
		t.Errorf("Expected secret to be redacted, got %q", got)
	}
	if got != "error: password *** rejected (***)" {
		t.Errorf("Unexpected redaction: %q", got)
	}

	if (Credentials{}).Redact("unchanged") != "unchanged" {
		t.Error("Expected empty secret to leave text unchanged")
	}
}

func TestCredentialsRedactShortSecret(t *testing.T) {
	creds := Credentials{Secret: "ab"}

	tests := map[string]string{
		"about the abyss":       "about the abyss",
		"auth=ab rejected":      "auth=*** rejected",
		"ab":                    "***",
		"user:ab@registry (ab)": "user:***@registry (***)",
		"tab ab abc":            "tab *** abc",
	}
	for in, want := range tests {
		if got := creds.Redact(in); got != want {
			t.Errorf("Redact(%q) = %q, want %q", in, got, want)
		}
	}
}
