// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"

	"github.com/lazycatapps/image-uploader/internal/models"
	apperrors "github.com/lazycatapps/image-uploader/internal/pkg/errors"
	"github.com/lazycatapps/image-uploader/internal/pkg/logger"
	"github.com/lazycatapps/image-uploader/internal/pkg/validator"
)

// DefaultJobFile is the job document read from the working directory when no path is given.
const DefaultJobFile = "images.json"

// JobLoader loads the sync job document.
type JobLoader interface {
	Load(path string) (*models.SyncJob, error)
}

// jobLoader implements the JobLoader interface for JSON documents.
type jobLoader struct {
	logger logger.Logger
}

// NewJobLoader creates a new JobLoader instance.
func NewJobLoader(logger logger.Logger) JobLoader {
	return &jobLoader{
		logger: logger,
	}
}

// Load reads and validates the job document at path.
// The document must be a JSON array of {"source": ..., "target": ...} objects.
// Validation is all-or-nothing: on any violation no job is returned.
func (l *jobLoader) Load(path string) (*models.SyncJob, error) {
	if path == "" {
		path = DefaultJobFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindConfigRead, err, "failed to read %s", path)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, apperrors.Wrap(apperrors.KindConfigParse, err, "%s is not valid JSON (offset %d)", path, syntaxErr.Offset)
		}
		return nil, apperrors.Wrap(apperrors.KindConfigParse, err, "%s is not valid JSON", path)
	}

	if _, ok := doc.([]interface{}); !ok {
		return nil, apperrors.New(apperrors.KindConfigSchema, "%s must be a JSON array", path)
	}

	// Re-decode as raw elements so errors can quote the offending entry verbatim.
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, apperrors.Wrap(apperrors.KindConfigParse, err, "%s is not valid JSON", path)
	}

	entries := make([]models.SyncEntry, 0, len(raws))
	for i, raw := range raws {
		var element interface{}
		if err := json.Unmarshal(raw, &element); err != nil {
			return nil, apperrors.Wrap(apperrors.KindConfigParse, err, "invalid image entry #%d", i)
		}

		source, target, err := validator.ValidateEntry(element)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindConfigSchema, err, "invalid image entry #%d: %s", i, compact(raw))
		}
		entries = append(entries, models.SyncEntry{Source: source, Target: target})
	}

	l.logger.Debug("Loaded %d entries from %s", len(entries), path)
	return models.NewSyncJob(path, entries), nil
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
