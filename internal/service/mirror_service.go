// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

package service

import (
	"context"

	"github.com/lazycatapps/image-uploader/internal/models"
	"github.com/lazycatapps/image-uploader/internal/pkg/logger"
	"github.com/lazycatapps/image-uploader/internal/pkg/progress"
)

// MirrorService runs a whole upload: load the job, then sync it inside a registry session.
type MirrorService struct {
	loader   JobLoader
	session  *Session
	runner   *SyncRunner
	reporter *progress.Reporter
	logger   logger.Logger
}

// NewMirrorService creates a new MirrorService.
func NewMirrorService(loader JobLoader, session *Session, runner *SyncRunner, reporter *progress.Reporter, logger logger.Logger) *MirrorService {
	return &MirrorService{
		loader:   loader,
		session:  session,
		runner:   runner,
		reporter: reporter,
		logger:   logger,
	}
}

// Execute loads the job at configPath and syncs it with creds.
// The job is fully validated before any registry call; a validation error
// means login is never attempted. The returned summary is nil when the run
// never reached the sync phase.
func (m *MirrorService) Execute(ctx context.Context, creds models.Credentials, configPath string) (*models.RunSummary, error) {
	job, err := m.loader.Load(configPath)
	if err != nil {
		return nil, err
	}
	m.logger.Info("Loaded %d entries from %s", job.Len(), job.Path)

	var summary *models.RunSummary
	err = m.session.Run(ctx, creds, func(ctx context.Context) error {
		var runErr error
		summary, runErr = m.runner.RunAll(ctx, job)
		return runErr
	})

	switch {
	case err == nil:
		m.reporter.AllSynced()
	case summary != nil && summary.Total > 1:
		m.reporter.Summary(summary)
	}
	return summary, err
}
