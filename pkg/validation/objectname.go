// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for externally supplied names that are
// used in file paths and storage object keys. Using these validators
// prevents path traversal when corpus objects pulled from a remote bucket
// are written to the local filesystem.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// maxObjectNameLen bounds corpus object names. GCS allows up to 1024
// bytes; corpus files never legitimately approach that.
const maxObjectNameLen = 512

// objectSegmentPattern matches one path segment of a corpus object name.
// Allows: letters, digits, dots, hyphens, underscores.
var objectSegmentPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-]*$`)

// ValidateObjectName validates a corpus object name before it is used as
// a storage key or mapped onto a local file path.
//
// Valid names:
//   - 1-512 characters
//   - Slash-separated segments of letters, digits, dots, hyphens,
//     underscores; each segment starts with a letter or digit
//   - No leading or trailing slash, no empty or ".." segments
//
// Returns an error if the name is invalid.
//
// Example:
//
//	if err := validation.ValidateObjectName(obj); err != nil {
//	    return fmt.Errorf("refusing object %q: %w", obj, err)
//	}
//	// Safe to join onto a local directory
func ValidateObjectName(name string) error {
	if name == "" {
		return fmt.Errorf("object name cannot be empty")
	}
	if len(name) > maxObjectNameLen {
		return fmt.Errorf("object name exceeds %d characters", maxObjectNameLen)
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("object name %q cannot start or end with a slash", name)
	}
	if strings.ContainsRune(name, '\\') {
		return fmt.Errorf("object name %q cannot contain backslashes", name)
	}

	for _, segment := range strings.Split(name, "/") {
		if segment == ".." || segment == "." {
			return fmt.Errorf("object name %q contains a traversal segment", name)
		}
		if !objectSegmentPattern.MatchString(segment) {
			return fmt.Errorf("invalid object name segment %q (must be alphanumeric with dots, hyphens, or underscores)", segment)
		}
	}

	return nil
}

// ValidateObjectNames validates multiple object names.
// Returns an error listing all invalid names if any fail validation.
func ValidateObjectNames(names []string) error {
	var invalid []string
	for _, n := range names {
		if err := ValidateObjectName(n); err != nil {
			invalid = append(invalid, n)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid object names: %v", invalid)
	}
	return nil
}

// SanitizeObjectName normalizes and validates a corpus object name.
// Returns the trimmed name if valid, or an error if invalid.
//
// Use this when you need both validation and normalization:
//
//	safeName, err := validation.SanitizeObjectName(userInput)
//	if err != nil {
//	    return err
//	}
//	// safeName is trimmed and validated
func SanitizeObjectName(name string) (string, error) {
	normalized := strings.TrimSpace(name)
	normalized = strings.TrimPrefix(normalized, "./")
	if err := ValidateObjectName(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}
