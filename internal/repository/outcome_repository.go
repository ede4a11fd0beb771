// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package repository provides the data access layer for sync outcomes.
package repository

import (
	"errors"
	"sync"

	"github.com/lazycatapps/image-uploader/internal/models"
)

var (
	// ErrOutcomeNotFound is returned when a requested outcome does not exist.
	ErrOutcomeNotFound = errors.New("outcome not found")
	// ErrOutcomeExists is returned when an outcome with the same ID is created twice.
	ErrOutcomeExists = errors.New("outcome already exists")
)

// OutcomeRepository defines the interface for outcome persistence operations.
type OutcomeRepository interface {
	Create(outcome *models.SyncOutcome) error
	Get(id string) (*models.SyncOutcome, error)
	Update(outcome *models.SyncOutcome) error
	List() ([]*models.SyncOutcome, error)
}

// InMemoryOutcomeRepository implements OutcomeRepository using in-memory storage.
// List returns outcomes in creation order, which is the job's execution order.
// Note: All data is lost when the process exits.
type InMemoryOutcomeRepository struct {
	outcomes map[string]*models.SyncOutcome
	order    []string
	mu       sync.RWMutex
}

// NewInMemoryOutcomeRepository creates a new in-memory outcome repository.
func NewInMemoryOutcomeRepository() *InMemoryOutcomeRepository {
	return &InMemoryOutcomeRepository{
		outcomes: make(map[string]*models.SyncOutcome),
	}
}

// Create adds a new outcome to the repository.
func (r *InMemoryOutcomeRepository) Create(outcome *models.SyncOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.outcomes[outcome.ID]; exists {
		return ErrOutcomeExists
	}
	r.outcomes[outcome.ID] = outcome
	r.order = append(r.order, outcome.ID)
	return nil
}

// Get retrieves an outcome by ID.
func (r *InMemoryOutcomeRepository) Get(id string) (*models.SyncOutcome, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	outcome, exists := r.outcomes[id]
	if !exists {
		return nil, ErrOutcomeNotFound
	}
	return outcome, nil
}

// Update modifies an existing outcome.
func (r *InMemoryOutcomeRepository) Update(outcome *models.SyncOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.outcomes[outcome.ID]; !exists {
		return ErrOutcomeNotFound
	}
	r.outcomes[outcome.ID] = outcome
	return nil
}

// List returns all outcomes in creation order.
func (r *InMemoryOutcomeRepository) List() ([]*models.SyncOutcome, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	outcomes := make([]*models.SyncOutcome, 0, len(r.order))
	for _, id := range r.order {
		outcomes = append(outcomes, r.outcomes[id])
	}
	return outcomes, nil
}
