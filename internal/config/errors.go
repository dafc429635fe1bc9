// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN, an empty blob directory, or a
	// non-positive blob size cap).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")

	// ErrInvalidServerConfigs indicates invalid server settings
	// (for example, a missing HTTP listen address).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")

	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a non-positive sweep interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
