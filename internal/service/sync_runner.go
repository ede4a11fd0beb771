// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package service provides the business logic of the image uploader:
// loading the job, scoping the registry session and running the sync.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lazycatapps/image-uploader/internal/models"
	apperrors "github.com/lazycatapps/image-uploader/internal/pkg/errors"
	"github.com/lazycatapps/image-uploader/internal/pkg/logger"
	"github.com/lazycatapps/image-uploader/internal/pkg/progress"
	"github.com/lazycatapps/image-uploader/internal/registry"
	"github.com/lazycatapps/image-uploader/internal/repository"
)

// SyncRunner executes a job's entries in order against a registry client.
type SyncRunner struct {
	client          registry.Client
	repo            repository.OutcomeRepository
	reporter        *progress.Reporter
	logger          logger.Logger
	continueOnError bool // Keep going after a failed entry instead of aborting
}

// NewSyncRunner creates a new SyncRunner.
func NewSyncRunner(client registry.Client, repo repository.OutcomeRepository, reporter *progress.Reporter, logger logger.Logger, continueOnError bool) *SyncRunner {
	return &SyncRunner{
		client:          client,
		repo:            repo,
		reporter:        reporter,
		logger:          logger,
		continueOnError: continueOnError,
	}
}

// RunAll pulls, tags and pushes every entry of job, one at a time.
//
// By default the first failure aborts the run: the failing entry's error is
// returned and the remaining entries are marked skipped without being attempted.
// With continueOnError every entry is attempted, each failure is reported as it
// happens, and a KindSync error counting the failures is returned.
func (r *SyncRunner) RunAll(ctx context.Context, job *models.SyncJob) (*models.RunSummary, error) {
	entries := job.Entries()

	ids := make([]string, len(entries))
	for i, entry := range entries {
		outcome := models.NewSyncOutcome(i, entry)
		if err := r.repo.Create(outcome); err != nil {
			return nil, fmt.Errorf("failed to record entry %d: %w", i, err)
		}
		ids[i] = outcome.ID
	}

	var firstErr error
	failed := 0
	for i, entry := range entries {
		outcome, err := r.repo.Get(ids[i])
		if err != nil {
			return nil, fmt.Errorf("failed to load outcome of entry %d: %w", i, err)
		}

		if firstErr != nil && !r.continueOnError {
			r.skip(outcome)
			continue
		}
		if err := ctx.Err(); err != nil {
			r.skip(outcome)
			if firstErr == nil {
				firstErr = apperrors.Wrap(apperrors.KindSync, err, "sync interrupted before %s", entry.Source)
			}
			continue
		}

		if err := r.syncEntry(ctx, outcome, entry); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			if r.continueOnError {
				r.reporter.Error(err)
			}
		}
	}

	listed, err := r.repo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	summary := models.NewRunSummary(listed)

	switch {
	case firstErr == nil:
		return summary, nil
	case r.continueOnError && failed > 0:
		return summary, apperrors.New(apperrors.KindSync, "%d of %d images failed to sync", failed, summary.Total)
	default:
		return summary, firstErr
	}
}

// syncEntry runs the pull, tag and push steps for one entry.
func (r *SyncRunner) syncEntry(ctx context.Context, outcome *models.SyncOutcome, entry models.SyncEntry) error {
	outcome.Start()
	r.update(outcome)

	r.reporter.Syncing(entry)
	r.logger.Info("[%s] Starting sync: %s -> %s", outcome.ID, entry.Source, entry.Target)

	steps := []struct {
		step     models.SyncStep
		ref      string
		announce func(string)
		run      func() error
	}{
		{models.StepPull, entry.Source, r.reporter.Pulling, func() error { return r.client.Pull(ctx, entry.Source) }},
		{models.StepTag, entry.Target, r.reporter.Tagging, func() error { return r.client.Tag(ctx, entry.Source, entry.Target) }},
		{models.StepPush, entry.Target, r.reporter.Pushing, func() error { return r.client.Push(ctx, entry.Target) }},
	}

	for _, s := range steps {
		s.announce(s.ref)
		outcome.AddLog(fmt.Sprintf("%s %s", s.step, s.ref))

		if err := s.run(); err != nil {
			stepErr := stepError(s.step, s.ref, err)
			outcome.AddLog(stepErr.Error())
			for _, line := range strings.Split(stepErr.Output, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					outcome.AddLog(line)
				}
			}
			outcome.Fail(s.step, stepErr)
			r.update(outcome)
			// The reporter prints the failure; this line is for diagnostics only.
			r.logger.Debug("[%s] Sync failed at %s: %v", outcome.ID, s.step, err)
			return stepErr
		}
	}

	outcome.Complete()
	r.update(outcome)
	r.logger.Info("[%s] Sync completed successfully", outcome.ID)
	return nil
}

func (r *SyncRunner) skip(outcome *models.SyncOutcome) {
	outcome.Skip()
	r.update(outcome)
	r.logger.Debug("[%s] Skipped %s", outcome.ID, outcome.Source)
}

func (r *SyncRunner) update(outcome *models.SyncOutcome) {
	if err := r.repo.Update(outcome); err != nil {
		r.logger.Error("[%s] Failed to update outcome: %v", outcome.ID, err)
	}
}

// stepError maps a failed client call to the error kind of its step.
func stepError(step models.SyncStep, ref string, err error) *apperrors.AppError {
	kind := apperrors.KindUnknown
	switch step {
	case models.StepPull:
		kind = apperrors.KindPull
	case models.StepTag:
		kind = apperrors.KindTag
	case models.StepPush:
		kind = apperrors.KindPush
	}

	appErr := apperrors.Wrap(kind, err, "failed to %s %s", step, ref)

	var clientErr *registry.Error
	if errors.As(err, &clientErr) {
		appErr.WithOutput(clientErr.Output)
	}
	return appErr
}
