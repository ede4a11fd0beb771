// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package registry provides the container registry capability used by the uploader.
// Callers depend only on the Client interface; implementations either shell out to a
// container runtime CLI or talk to registries directly.
package registry

import (
	"context"
	"fmt"
)

// Client is the capability the sync runner and session delegate to.
// Every method blocks until the operation finishes.
type Client interface {
	// Login authenticates against registry. The secret must not be placed
	// in process arguments or environment.
	Login(ctx context.Context, registry, username, secret string) error
	// Logout drops the authenticated session for registry.
	Logout(ctx context.Context, registry string) error
	// Pull makes ref available locally.
	Pull(ctx context.Context, ref string) error
	// Tag makes the local image src also available as dst.
	Tag(ctx context.Context, src, dst string) error
	// Push uploads the local image ref to its registry.
	Push(ctx context.Context, ref string) error
}

// Error reports a failed client operation together with its diagnostics.
type Error struct {
	Program  string // Executable that ran the operation, empty for API clients
	Op       string // Operation name (login, logout, pull, tag, push)
	Ref      string // Reference or registry the operation targeted
	ExitCode int    // Process exit code, -1 when not applicable
	Output   string // Combined stdout/stderr or library error text
	Err      error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	op := e.Op
	if e.Program != "" {
		op = e.Program + " " + op
	}
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s %s: exit status %d", op, e.Ref, e.ExitCode)
	}
	return fmt.Sprintf("%s %s: %v", op, e.Ref, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
