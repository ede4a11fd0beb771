// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package registrytest provides a recording registry.Client for tests.
package registrytest

import (
	"context"
	"strings"
	"sync"

	"github.com/lazycatapps/image-uploader/internal/registry"
)

// Call is one recorded client invocation.
type Call struct {
	Op   string   // login, logout, pull, tag, push
	Args []string // Positional arguments; never contains the login secret
}

// String renders the call as "op arg1 arg2".
func (c Call) String() string {
	return strings.TrimSpace(c.Op + " " + strings.Join(c.Args, " "))
}

// FakeClient records every call and fails the ones matched by FailOn.
type FakeClient struct {
	// FailOn returns a non-nil error to make the call fail. Keys are "op arg1 ...".
	FailOn map[string]error
	// Output is attached to injected failures as captured client output.
	Output string
	// Panic makes the call whose String matches panic instead of returning.
	Panic string

	mu      sync.Mutex
	calls   []Call
	secrets []string
}

var _ registry.Client = (*FakeClient)(nil)

// NewFakeClient creates a client that succeeds on every call.
func NewFakeClient() *FakeClient {
	return &FakeClient{FailOn: make(map[string]error)}
}

// FailWhen makes the call described by "op arg1 ..." fail with err.
func (f *FakeClient) FailWhen(call string, err error) *FakeClient {
	f.FailOn[call] = err
	return f
}

// Calls returns a copy of the recorded calls.
func (f *FakeClient) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	calls := make([]Call, len(f.calls))
	copy(calls, f.calls)
	return calls
}

// CallStrings returns the recorded calls rendered with Call.String.
func (f *FakeClient) CallStrings() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Count returns how many times op was called.
func (f *FakeClient) Count(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Secrets returns the secrets passed to Login.
func (f *FakeClient) Secrets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.secrets...)
}

func (f *FakeClient) Login(_ context.Context, reg, username, secret string) error {
	f.mu.Lock()
	f.secrets = append(f.secrets, secret)
	f.mu.Unlock()
	return f.record("login", reg, "-u", username)
}

func (f *FakeClient) Logout(_ context.Context, reg string) error {
	return f.record("logout", reg)
}

func (f *FakeClient) Pull(_ context.Context, ref string) error {
	return f.record("pull", ref)
}

func (f *FakeClient) Tag(_ context.Context, src, dst string) error {
	return f.record("tag", src, dst)
}

func (f *FakeClient) Push(_ context.Context, ref string) error {
	return f.record("push", ref)
}

func (f *FakeClient) record(op string, args ...string) error {
	call := Call{Op: op, Args: args}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	if f.Panic != "" && call.String() == f.Panic {
		panic("registrytest: injected panic on " + call.String())
	}

	if err, ok := f.FailOn[call.String()]; ok && err != nil {
		return &registry.Error{
			Op:       op,
			Ref:      args[0],
			ExitCode: 1,
			Output:   f.Output,
			Err:      err,
		}
	}
	return nil
}
