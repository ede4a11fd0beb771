// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package validator provides input validation for CLI arguments and job entries.
// Image references are opaque: only presence and non-emptiness are checked.
package validator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyImageName = errors.New("image reference must not be empty")
	ErrEmptyUsername  = errors.New("username must not be empty")
	ErrEmptyPassword  = errors.New("password must not be empty")
	ErrEmptyRegistry  = errors.New("registry URL must not be empty")
)

// ValidateImageName checks that an image reference is present.
func ValidateImageName(image string) error {
	if strings.TrimSpace(image) == "" {
		return ErrEmptyImageName
	}
	return nil
}

// ValidateCredentials checks that both username and password are present.
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}
	if password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// ValidateRegistry checks that a registry address is present.
func ValidateRegistry(registry string) error {
	if strings.TrimSpace(registry) == "" {
		return ErrEmptyRegistry
	}
	return nil
}

// ValidateEntry checks a decoded job element. It must be an object holding
// string "source" and "target" keys with non-empty values.
// On success it returns the source and target references.
func ValidateEntry(element interface{}) (string, string, error) {
	obj, ok := element.(map[string]interface{})
	if !ok {
		return "", "", errors.New("entry must be an object")
	}

	source, err := stringField(obj, "source")
	if err != nil {
		return "", "", err
	}
	target, err := stringField(obj, "target")
	if err != nil {
		return "", "", err
	}
	return source, target, nil
}

func stringField(obj map[string]interface{}, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("missing %q", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%q must be a string", key)
	}
	if err := ValidateImageName(value); err != nil {
		return "", fmt.Errorf("%q: %w", key, err)
	}
	return value, nil
}
