// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

package registry

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lazycatapps/image-uploader/internal/pkg/logger"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"
)

// RemoteClient implements Client against registries directly using go-containerregistry.
// Pull pins a reference to its digest in an in-process store keyed by the reference
// string it was pulled or tagged as; Push resolves the pinned digest again and streams
// layers from the source registry to the target.
type RemoteClient struct {
	logger    logger.Logger
	keychain  authn.Keychain
	transport http.RoundTripper
	nameOpts  []name.Option
	timeout   time.Duration

	mu       sync.Mutex
	sessions map[string]authn.Authenticator // registry host -> login credentials
	store    map[string]name.Digest         // local reference -> pinned source digest
}

var _ Client = (*RemoteClient)(nil)

// RemoteOption configures a RemoteClient.
type RemoteOption func(*RemoteClient)

// WithInsecure allows plain HTTP registries.
func WithInsecure(insecure bool) RemoteOption {
	return func(c *RemoteClient) {
		if insecure {
			c.nameOpts = append(c.nameOpts, name.Insecure)
		}
	}
}

// WithKeychain sets the keychain used for registries without a session.
func WithKeychain(kc authn.Keychain) RemoteOption {
	return func(c *RemoteClient) {
		c.keychain = kc
	}
}

// WithHTTPTransport sets the round tripper used for registry requests.
func WithHTTPTransport(t http.RoundTripper) RemoteOption {
	return func(c *RemoteClient) {
		c.transport = t
	}
}

// WithCallTimeout bounds every operation. 0 means no timeout.
func WithCallTimeout(d time.Duration) RemoteOption {
	return func(c *RemoteClient) {
		c.timeout = d
	}
}

// NewRemoteClient creates a registry API client.
func NewRemoteClient(logger logger.Logger, opts ...RemoteOption) *RemoteClient {
	c := &RemoteClient{
		logger:    logger,
		keychain:  authn.DefaultKeychain,
		transport: remote.DefaultTransport,
		sessions:  make(map[string]authn.Authenticator),
		store:     make(map[string]name.Digest),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges the credentials with the registry and keeps them for later calls.
// Token-based registries reject bad credentials here; basic-auth registries only on first use.
func (c *RemoteClient) Login(ctx context.Context, registry, username, secret string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	reg, err := name.NewRegistry(normalizeRegistry(registry), c.nameOpts...)
	if err != nil {
		return remoteError("login", registry, err)
	}

	auth := authn.FromConfig(authn.AuthConfig{Username: username, Password: secret})
	if _, err := transport.NewWithContext(ctx, reg, auth, c.transport, []string{reg.Scope(transport.PullScope)}); err != nil {
		return remoteError("login", registry, err)
	}

	c.mu.Lock()
	c.sessions[reg.RegistryStr()] = auth
	c.mu.Unlock()

	c.logger.Debug("Authenticated to %s as %s", reg.RegistryStr(), username)
	return nil
}

// Logout forgets the credentials for registry.
func (c *RemoteClient) Logout(_ context.Context, registry string) error {
	reg, err := name.NewRegistry(normalizeRegistry(registry), c.nameOpts...)
	if err != nil {
		return remoteError("logout", registry, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions[reg.RegistryStr()]; !ok {
		return remoteError("logout", registry, fmt.Errorf("not logged in to %s", reg.RegistryStr()))
	}
	delete(c.sessions, reg.RegistryStr())
	return nil
}

// Pull resolves ref and pins it to its current digest.
func (c *RemoteClient) Pull(ctx context.Context, ref string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	parsed, err := name.ParseReference(ref, c.nameOpts...)
	if err != nil {
		return remoteError("pull", ref, err)
	}

	desc, err := remote.Get(parsed, c.remoteOptions(ctx, parsed.Context().Registry)...)
	if err != nil {
		return remoteError("pull", ref, err)
	}

	c.mu.Lock()
	c.store[ref] = parsed.Context().Digest(desc.Digest.String())
	c.mu.Unlock()

	c.logger.Debug("Pulled %s (%s, %s)", ref, desc.MediaType, desc.Digest)
	return nil
}

// Tag makes the digest pinned for src available as dst.
func (c *RemoteClient) Tag(_ context.Context, src, dst string) error {
	if _, err := name.ParseReference(dst, c.nameOpts...); err != nil {
		return remoteError("tag", dst, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	digest, ok := c.store[src]
	if !ok {
		return remoteError("tag", src, fmt.Errorf("image %s has not been pulled", src))
	}
	c.store[dst] = digest
	return nil
}

// Push writes the locally stored image or index ref to its registry.
func (c *RemoteClient) Push(ctx context.Context, ref string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	parsed, err := name.ParseReference(ref, c.nameOpts...)
	if err != nil {
		return remoteError("push", ref, err)
	}

	c.mu.Lock()
	digest, ok := c.store[ref]
	c.mu.Unlock()
	if !ok {
		return remoteError("push", ref, fmt.Errorf("image %s does not exist locally", ref))
	}

	desc, err := remote.Get(digest, c.remoteOptions(ctx, digest.Context().Registry)...)
	if err != nil {
		return remoteError("push", ref, err)
	}

	opts := c.remoteOptions(ctx, parsed.Context().Registry)
	if desc.MediaType.IsIndex() {
		idx, err := desc.ImageIndex()
		if err != nil {
			return remoteError("push", ref, err)
		}
		if err := remote.WriteIndex(parsed, idx, opts...); err != nil {
			return remoteError("push", ref, err)
		}
		return nil
	}

	img, err := desc.Image()
	if err != nil {
		return remoteError("push", ref, err)
	}
	if err := remote.Write(parsed, img, opts...); err != nil {
		return remoteError("push", ref, err)
	}
	return nil
}

// remoteOptions picks the session credentials for reg when logged in,
// otherwise falls back to the keychain.
func (c *RemoteClient) remoteOptions(ctx context.Context, reg name.Registry) []remote.Option {
	opts := []remote.Option{
		remote.WithContext(ctx),
		remote.WithTransport(c.transport),
	}

	c.mu.Lock()
	auth, ok := c.sessions[reg.RegistryStr()]
	c.mu.Unlock()

	if ok {
		return append(opts, remote.WithAuth(auth))
	}
	return append(opts, remote.WithAuthFromKeychain(c.keychain))
}

func (c *RemoteClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// normalizeRegistry accepts the forms "docker login" accepts
// ("https://host/v1/", "host:5000/") and returns the bare host.
func normalizeRegistry(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	registry = strings.TrimPrefix(registry, "http://")
	if i := strings.Index(registry, "/"); i >= 0 {
		registry = registry[:i]
	}
	return registry
}

func remoteError(op, ref string, err error) *Error {
	return &Error{
		Op:       op,
		Ref:      ref,
		ExitCode: -1,
		Output:   err.Error(),
		Err:      err,
	}
}
