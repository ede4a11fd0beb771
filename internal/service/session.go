// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

package service

import (
	"context"
	"errors"

	"github.com/lazycatapps/image-uploader/internal/models"
	apperrors "github.com/lazycatapps/image-uploader/internal/pkg/errors"
	"github.com/lazycatapps/image-uploader/internal/pkg/logger"
	"github.com/lazycatapps/image-uploader/internal/pkg/progress"
	"github.com/lazycatapps/image-uploader/internal/registry"
)

// Session scopes work to an authenticated registry session.
type Session struct {
	client   registry.Client
	reporter *progress.Reporter
	logger   logger.Logger
}

// NewSession creates a new Session.
func NewSession(client registry.Client, reporter *progress.Reporter, logger logger.Logger) *Session {
	return &Session{
		client:   client,
		reporter: reporter,
		logger:   logger,
	}
}

// Run logs in with creds, runs fn, and logs out.
//
// Logout happens exactly once whenever login was attempted, on every exit path
// including a failed login, an error from fn and a panic in fn. It runs on a
// context detached from ctx's cancellation and its failure is never surfaced.
// fn is not called when login fails.
func (s *Session) Run(ctx context.Context, creds models.Credentials, fn func(ctx context.Context) error) error {
	s.reporter.LoggingIn(creds.Registry)
	defer s.logout(ctx, creds.Registry)

	if err := s.client.Login(ctx, creds.Registry, creds.Username, creds.Secret.Reveal()); err != nil {
		return loginError(creds, err)
	}
	s.logger.Info("Logged in to %s as %s", creds.Registry, creds.Username)

	return fn(ctx)
}

func (s *Session) logout(ctx context.Context, registry string) {
	if err := s.client.Logout(context.WithoutCancel(ctx), registry); err != nil {
		s.logger.Debug("Logout from %s failed (ignored): %v", registry, err)
		return
	}
	s.logger.Debug("Logged out from %s", registry)
}

// loginError builds the auth error with every trace of the secret removed.
func loginError(creds models.Credentials, err error) error {
	var output string
	var clientErr *registry.Error
	if errors.As(err, &clientErr) {
		output = clientErr.Output
	}

	cause := errors.New(creds.Redact(err.Error()))
	return apperrors.Wrap(apperrors.KindAuth, cause, "login to %s failed", creds.Registry).
		WithOutput(creds.Redact(output))
}
