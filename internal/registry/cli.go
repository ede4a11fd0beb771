// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

package registry

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/lazycatapps/image-uploader/internal/pkg/logger"
)

// SupportedRuntimes lists the container CLIs that accept the docker subcommand set.
var SupportedRuntimes = []string{"docker", "podman", "nerdctl"}

// CommandRunner runs an external program and returns its combined output and exit code.
// stdin is fed to the process when non-empty.
type CommandRunner interface {
	Run(ctx context.Context, stdin string, program string, args ...string) (output string, exitCode int, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

var _ CommandRunner = ExecRunner{}

// Run executes program and waits for it to exit.
// The environment is inherited unchanged.
func (ExecRunner) Run(ctx context.Context, stdin string, program string, args ...string) (string, int, error) {
	cmd := exec.CommandContext(ctx, program, args...)

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	err := cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return combined.String(), 0, nil
	case errors.As(err, &exitErr):
		return combined.String(), exitErr.ExitCode(), err
	default:
		return combined.String(), -1, err
	}
}

// CLIClient implements Client by invoking a container runtime binary.
type CLIClient struct {
	program string
	runner  CommandRunner
	logger  logger.Logger
	timeout time.Duration // Per-call timeout, 0 means none
}

var _ Client = (*CLIClient)(nil)

// NewCLIClient creates a client for program (e.g., "docker").
func NewCLIClient(program string, runner CommandRunner, logger logger.Logger, timeout time.Duration) *CLIClient {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &CLIClient{
		program: program,
		runner:  runner,
		logger:  logger,
		timeout: timeout,
	}
}

// Login runs "<program> login <registry> -u <username> --password-stdin" with the secret on stdin.
func (c *CLIClient) Login(ctx context.Context, registry, username, secret string) error {
	return c.run(ctx, "login", registry, secret, "login", registry, "-u", username, "--password-stdin")
}

// Logout runs "<program> logout <registry>".
func (c *CLIClient) Logout(ctx context.Context, registry string) error {
	return c.run(ctx, "logout", registry, "", "logout", registry)
}

// Pull runs "<program> pull <ref>".
func (c *CLIClient) Pull(ctx context.Context, ref string) error {
	return c.run(ctx, "pull", ref, "", "pull", ref)
}

// Tag runs "<program> tag <src> <dst>".
func (c *CLIClient) Tag(ctx context.Context, src, dst string) error {
	return c.run(ctx, "tag", src, "", "tag", src, dst)
}

// Push runs "<program> push <ref>".
func (c *CLIClient) Push(ctx context.Context, ref string) error {
	return c.run(ctx, "push", ref, "", "push", ref)
}

func (c *CLIClient) run(ctx context.Context, op, ref, stdin string, args ...string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// args never contain the secret; it only travels through stdin.
	c.logger.Debug("Executing: %s %s", c.program, strings.Join(args, " "))

	output, exitCode, err := c.runner.Run(ctx, stdin, c.program, args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = errors.Join(err, ctx.Err())
		}
		return &Error{
			Program:  c.program,
			Op:       op,
			Ref:      ref,
			ExitCode: exitCode,
			Output:   strings.TrimSpace(output),
			Err:      err,
		}
	}
	return nil
}
