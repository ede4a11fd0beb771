// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package models defines data structures for the image uploader.
package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SyncStatus represents the current state of a sync entry.
type SyncStatus string

const (
	StatusPending   SyncStatus = "pending"   // Entry loaded, not yet started
	StatusRunning   SyncStatus = "running"   // Entry is currently executing
	StatusCompleted SyncStatus = "completed" // Pull, tag and push all succeeded
	StatusFailed    SyncStatus = "failed"    // One of the steps failed
	StatusSkipped   SyncStatus = "skipped"   // Never attempted because an earlier entry failed
)

// SyncStep names a phase of an entry's sync cycle.
type SyncStep string

const (
	StepPull SyncStep = "pull"
	StepTag  SyncStep = "tag"
	StepPush SyncStep = "push"
)

// SyncOutcome records what happened to one entry of the job.
type SyncOutcome struct {
	ID          string     // Unique outcome identifier (UUID), used as log prefix
	Index       int        // Position of the entry in the job
	Source      string     // Source image reference
	Target      string     // Target image reference
	Status      SyncStatus // Current status
	Step        SyncStep   // Step that failed (empty unless Status is failed)
	Message     string     // Human-readable status message
	ErrorOutput string     // Error message (if the entry failed)
	StartTime   time.Time  // Time the outcome was created
	EndTime     *time.Time // Time the entry finished (nil until then)
	LogLines    []string   // Phase log lines
	logMu       sync.Mutex
}

// NewSyncOutcome creates a pending outcome for the entry at index.
func NewSyncOutcome(index int, entry SyncEntry) *SyncOutcome {
	return &SyncOutcome{
		ID:        uuid.New().String(),
		Index:     index,
		Source:    entry.Source,
		Target:    entry.Target,
		Status:    StatusPending,
		Message:   "Entry loaded",
		StartTime: time.Now(),
		LogLines:  []string{},
	}
}

// AddLog appends a log line. Safe for concurrent use.
func (o *SyncOutcome) AddLog(line string) {
	o.logMu.Lock()
	defer o.logMu.Unlock()

	o.LogLines = append(o.LogLines, line)
}

// GetLogLines returns a copy of all log lines.
func (o *SyncOutcome) GetLogLines() []string {
	o.logMu.Lock()
	defer o.logMu.Unlock()

	logs := make([]string, len(o.LogLines))
	copy(logs, o.LogLines)
	return logs
}

// Start marks the outcome as running.
func (o *SyncOutcome) Start() {
	o.Status = StatusRunning
	o.Message = "Syncing image..."
}

// Complete marks the outcome as succeeded.
func (o *SyncOutcome) Complete() {
	o.finish()
	o.Status = StatusCompleted
	o.Message = "Sync completed successfully"
}

// Fail marks the outcome as failed at step.
func (o *SyncOutcome) Fail(step SyncStep, err error) {
	o.finish()
	o.Status = StatusFailed
	o.Step = step
	o.Message = "Sync failed at " + string(step)
	o.ErrorOutput = err.Error()
}

// Skip marks the outcome as never attempted.
func (o *SyncOutcome) Skip() {
	o.finish()
	o.Status = StatusSkipped
	o.Message = "Skipped after earlier failure"
}

func (o *SyncOutcome) finish() {
	endTime := time.Now()
	o.EndTime = &endTime
}

// RunSummary aggregates the outcomes of a run.
type RunSummary struct {
	Total     int            // Number of entries in the job
	Succeeded int            // Entries that completed
	Failed    int            // Entries that failed
	Skipped   int            // Entries never attempted
	Outcomes  []*SyncOutcome // Outcomes in job order
}

// NewRunSummary tallies outcomes.
func NewRunSummary(outcomes []*SyncOutcome) *RunSummary {
	s := &RunSummary{Total: len(outcomes), Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case StatusCompleted:
			s.Succeeded++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// AllSucceeded reports whether every entry completed.
func (s *RunSummary) AllSucceeded() bool {
	return s.Succeeded == s.Total
}
