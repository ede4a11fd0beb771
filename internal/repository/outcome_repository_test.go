// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

package repository

import (
	"testing"

	"github.com/lazycatapps/image-uploader/internal/models"
)

func newOutcome(index int, source, target string) *models.SyncOutcome {
	return models.NewSyncOutcome(index, models.SyncEntry{Source: source, Target: target})
}

func TestInMemoryOutcomeRepository_Create(t *testing.T) {
	repo := NewInMemoryOutcomeRepository()
	outcome := newOutcome(0, "src", "dest")

	err := repo.Create(outcome)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	retrieved, err := repo.Get(outcome.ID)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	if retrieved.Source != "src" {
		t.Errorf("Expected Source 'src', got '%s'", retrieved.Source)
	}
}

func TestInMemoryOutcomeRepository_CreateDuplicate(t *testing.T) {
	repo := NewInMemoryOutcomeRepository()
	outcome := newOutcome(0, "src", "dest")

	repo.Create(outcome)

	if err := repo.Create(outcome); err != ErrOutcomeExists {
		t.Errorf("Expected ErrOutcomeExists, got %v", err)
	}
}

func TestInMemoryOutcomeRepository_Get_NotFound(t *testing.T) {
	repo := NewInMemoryOutcomeRepository()

	_, err := repo.Get("non-existent")
	if err != ErrOutcomeNotFound {
		t.Errorf("Expected ErrOutcomeNotFound, got %v", err)
	}
}

func TestInMemoryOutcomeRepository_Update(t *testing.T) {
	repo := NewInMemoryOutcomeRepository()
	outcome := newOutcome(0, "src", "dest")

	repo.Create(outcome)

	outcome.Complete()

	err := repo.Update(outcome)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	retrieved, _ := repo.Get(outcome.ID)
	if retrieved.Status != models.StatusCompleted {
		t.Errorf("Expected status 'completed', got '%s'", retrieved.Status)
	}
}

func TestInMemoryOutcomeRepository_Update_NotFound(t *testing.T) {
	repo := NewInMemoryOutcomeRepository()

	if err := repo.Update(newOutcome(0, "src", "dest")); err != ErrOutcomeNotFound {
		t.Errorf("Expected ErrOutcomeNotFound, got %v", err)
	}
}

func TestInMemoryOutcomeRepository_ListPreservesOrder(t *testing.T) {
	repo := NewInMemoryOutcomeRepository()

	for i, src := range []string{"first", "second", "third", "fourth"} {
		repo.Create(newOutcome(i, src, "dest"))
	}

	outcomes, err := repo.List()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(outcomes) != 4 {
		t.Fatalf("Expected 4 outcomes, got %d", len(outcomes))
	}

	for i, want := range []string{"first", "second", "third", "fourth"} {
		if outcomes[i].Source != want {
			t.Errorf("Expected outcome %d to be '%s', got '%s'", i, want, outcomes[i].Source)
		}
	}
}
