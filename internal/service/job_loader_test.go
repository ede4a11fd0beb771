// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/lazycatapps/image-uploader/internal/pkg/errors"
	"github.com/lazycatapps/image-uploader/internal/pkg/logger"
)

// writeJob writes content to images.json in a temp dir and returns its path.
func writeJob(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "images.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write job file: %v", err)
	}
	return path
}

func TestLoadJob(t *testing.T) {
	path := writeJob(t, `[
		{"source": "alpine:3.18", "target": "registry.example.com/mirror/alpine:3.18"},
		{"source": "nginx:1.25", "target": "registry.example.com/mirror/nginx:1.25", "comment": "ignored"}
	]`)

	job, err := NewJobLoader(logger.Discard()).Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if job.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", job.Len())
	}

	entries := job.Entries()
	if entries[0].Source != "alpine:3.18" || entries[0].Target != "registry.example.com/mirror/alpine:3.18" {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}
	if entries[1].Source != "nginx:1.25" {
		t.Errorf("Expected second entry to keep document order, got %+v", entries[1])
	}
	if job.Path != path {
		t.Errorf("Expected job path %s, got %s", path, job.Path)
	}
}

func TestLoadJobEmptyArray(t *testing.T) {
	job, err := NewJobLoader(logger.Discard()).Load(writeJob(t, `[]`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if job.Len() != 0 {
		t.Errorf("Expected empty job, got %d entries", job.Len())
	}
}

func TestLoadJobDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := `[{"source": "a:1", "target": "b:1"}]`
	if err := os.WriteFile(DefaultJobFile, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write job file: %v", err)
	}

	job, err := NewJobLoader(logger.Discard()).Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if job.Path != DefaultJobFile {
		t.Errorf("Expected path %s, got %s", DefaultJobFile, job.Path)
	}
}

func TestLoadJobErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantKind apperrors.Kind
		wantText []string
	}{
		{
			name:     "invalid JSON",
			content:  `[{"source": "a", "target": }]`,
			wantKind: apperrors.KindConfigParse,
			wantText: []string{"not valid JSON", "offset"},
		},
		{
			name:     "trailing garbage",
			content:  `[] []`,
			wantKind: apperrors.KindConfigParse,
		},
		{
			name:     "top-level object",
			content:  `{"source": "a", "target": "b"}`,
			wantKind: apperrors.KindConfigSchema,
			wantText: []string{"must be a JSON array"},
		},
		{
			name:     "top-level string",
			content:  `"alpine"`,
			wantKind: apperrors.KindConfigSchema,
		},
		{
			name:     "missing target",
			content:  `[{"source": "a:1", "target": "b:1"}, {"source": "orphan:1"}]`,
			wantKind: apperrors.KindConfigSchema,
			wantText: []string{"#1", `{"source":"orphan:1"}`, `missing "target"`},
		},
		{
			name:     "missing source",
			content:  `[{"target": "b:1"}]`,
			wantKind: apperrors.KindConfigSchema,
			wantText: []string{"#0", `missing "source"`},
		},
		{
			name:     "empty value",
			content:  `[{"source": "", "target": "b:1"}]`,
			wantKind: apperrors.KindConfigSchema,
		},
		{
			name:     "non-string value",
			content:  `[{"source": 3, "target": "b:1"}]`,
			wantKind: apperrors.KindConfigSchema,
		},
		{
			name:     "element is an array",
			content:  `[["a", "b"]]`,
			wantKind: apperrors.KindConfigSchema,
			wantText: []string{`["a","b"]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := NewJobLoader(logger.Discard()).Load(writeJob(t, tt.content))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if job != nil {
				t.Error("Expected no partial job on error")
			}
			if kind := apperrors.KindOf(err); kind != tt.wantKind {
				t.Errorf("Expected kind %s, got %s (%v)", tt.wantKind, kind, err)
			}
			for _, text := range tt.wantText {
				if !strings.Contains(err.Error(), text) {
					t.Errorf("Expected error to contain %q, got %q", text, err.Error())
				}
			}
		})
	}
}

func TestLoadJobMissingFile(t *testing.T) {
	_, err := NewJobLoader(logger.Discard()).Load(filepath.Join(t.TempDir(), "nope.json"))
	if !apperrors.Is(err, apperrors.KindConfigRead) {
		t.Errorf("Expected config read error, got %v", err)
	}
}
