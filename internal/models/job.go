// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

package models

import (
	"fmt"
	"strings"
)

// SyncEntry is a single source/target image pair from the job document.
// References are opaque strings; they are never parsed here.
type SyncEntry struct {
	Source string `json:"source"` // Image to pull (e.g., "alpine:3.18")
	Target string `json:"target"` // Image to push (e.g., "registry.example.com/mirror/alpine:3.18")
}

// String returns "source → target".
func (e SyncEntry) String() string {
	return fmt.Sprintf("%s → %s", e.Source, e.Target)
}

// SyncJob is the ordered, read-only list of entries loaded at startup.
type SyncJob struct {
	Path    string      // Document the job was loaded from
	entries []SyncEntry // Execution order equals document order
}

// NewSyncJob creates a job from entries. The slice is copied.
func NewSyncJob(path string, entries []SyncEntry) *SyncJob {
	copied := make([]SyncEntry, len(entries))
	copy(copied, entries)
	return &SyncJob{Path: path, entries: copied}
}

// Entries returns a copy of the job's entries in execution order.
func (j *SyncJob) Entries() []SyncEntry {
	entries := make([]SyncEntry, len(j.entries))
	copy(entries, j.entries)
	return entries
}

// Len returns the number of entries.
func (j *SyncJob) Len() int {
	return len(j.entries)
}

// Secret is a credential that never renders through fmt.
type Secret string

// String implements fmt.Stringer.
func (Secret) String() string { return "***" }

// GoString implements fmt.GoStringer.
func (Secret) GoString() string { return "***" }

// Format implements fmt.Formatter so that every verb, including %s, %v, %q and %x, is masked.
func (Secret) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte("***"))
}

// Reveal returns the raw secret. Only the registry client should call it.
func (s Secret) Reveal() string {
	return string(s)
}

// Credentials authenticate the session against the destination registry.
// They live in memory for the duration of the process and are never persisted.
type Credentials struct {
	Registry string // Registry address (e.g., "registry.example.com")
	Username string // Registry username
	Secret   Secret // Registry password or token
}

// shortSecretLen is the length below which a secret is only redacted where it
// stands as a whole token.
const shortSecretLen = 4

// Redact replaces occurrences of the secret in text with "***".
// Secrets shorter than shortSecretLen are replaced only when not surrounded
// by letters or digits, so "ab" is masked in "auth=ab" but not in "about".
func (c Credentials) Redact(text string) string {
	secret := c.Secret.Reveal()
	if secret == "" {
		return text
	}
	if len(secret) >= shortSecretLen {
		return strings.ReplaceAll(text, secret, "***")
	}

	var b strings.Builder
	for {
		i := strings.Index(text, secret)
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		end := i + len(secret)
		if isWordByte(text, i-1) || isWordByte(text, end) {
			b.WriteString(text[:end])
		} else {
			b.WriteString(text[:i])
			b.WriteString("***")
		}
		text = text[end:]
	}
}

// isWordByte reports whether text[i] exists and is an ASCII letter or digit.
func isWordByte(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return false
	}
	ch := text[i]
	return ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}
