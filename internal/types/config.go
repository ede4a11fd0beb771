// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package types defines configuration types for the image uploader.
package types

import (
	"fmt"
	"slices"
	"time"
)

// ClientRegistry selects the registry API client instead of a container CLI.
const ClientRegistry = "registry"

// Config represents the complete application configuration.
type Config struct {
	Registry RegistryConfig // Destination registry configuration
	Sync     SyncConfig     // Sync operation configuration
	Client   ClientConfig   // Registry client configuration
	Log      LogConfig      // Diagnostic logging configuration
}

// RegistryConfig defines the destination registry session.
type RegistryConfig struct {
	URL      string // Registry address passed to login/logout (e.g., "registry.example.com")
	Username string // Registry username
}

// SyncConfig defines sync operation behavior.
type SyncConfig struct {
	ConfigFile      string // Job document path (default: "images.json")
	ContinueOnError bool   // Attempt every entry even after a failure (default: false)
	Timeout         int    // Per-call timeout in seconds, 0 for none (default: 0)
}

// ClientConfig defines which registry client performs transfers.
type ClientConfig struct {
	Kind     string // "docker", "podman", "nerdctl" or "registry" (default: "docker")
	Insecure bool   // Allow plain HTTP registries (registry client only)
}

// LogConfig defines diagnostic logging.
type LogConfig struct {
	Level string // logrus level name (default: "warn")
}

// CallTimeout returns the per-call timeout as a duration.
func (c SyncConfig) CallTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Validate checks option values that flags cannot constrain.
func (c *Config) Validate(runtimes []string) error {
	if c.Client.Kind != ClientRegistry && !slices.Contains(runtimes, c.Client.Kind) {
		return fmt.Errorf("unsupported client %q (want one of %v or %q)", c.Client.Kind, runtimes, ClientRegistry)
	}
	if c.Sync.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.Sync.Timeout)
	}
	return nil
}
