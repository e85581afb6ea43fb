// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// API keys for hosted backends are held in memguard enclaves so they
// never sit in plain heap memory between calls. Systems without enough
// mlock headroom fall back to plain storage with a logged warning.
package llm

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/awnumar/memguard"
	"golang.org/x/sys/unix"
)

// MinMlockLimitKB is the minimum mlock limit required for enclave
// storage, in kilobytes.
const MinMlockLimitKB = 64

var (
	// memguardInitOnce ensures memguard initialization happens only once.
	memguardInitOnce sync.Once

	// mlockSufficient is set during initialization to indicate if secure
	// memory is available.
	mlockSufficient bool

	// currentMlockLimitKB stores the current mlock limit for logging.
	currentMlockLimitKB int64
)

// initMemguard initializes memguard and probes the mlock limit. Called
// automatically by NewSecureKey; subsequent calls are no-ops.
func initMemguard() {
	memguardInitOnce.Do(func() {
		memguard.CatchInterrupt()
		mlockSufficient, currentMlockLimitKB = checkMlockLimit()
		if mlockSufficient {
			slog.Info("Secure key storage initialized",
				"mlock_limit_kb", currentMlockLimitKB,
				"required_kb", MinMlockLimitKB)
		} else {
			slog.Warn("mlock limit insufficient, API keys held in plain memory",
				"current_limit_kb", currentMlockLimitKB,
				"required_kb", MinMlockLimitKB)
		}
	})
}

// checkMlockLimit queries the kernel's mlock resource limit.
//
// Outputs:
//
//	bool - True if the limit covers MinMlockLimitKB.
//	int64 - Current limit in kilobytes, -1 if unlimited or unknown.
func checkMlockLimit() (bool, int64) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_MEMLOCK, &rlimit); err != nil {
		slog.Warn("Could not determine mlock limit", "error", err)
		return true, -1
	}

	if rlimit.Cur == unix.RLIM_INFINITY {
		return true, -1
	}

	limitKB := int64(rlimit.Cur / 1024)
	return limitKB >= MinMlockLimitKB, limitKB
}

// SecureKey holds a credential in an encrypted memguard enclave,
// decrypted only for the duration of each Use call. On systems without
// sufficient mlock the key stays in plain memory instead.
//
// Thread Safety: safe for concurrent use.
type SecureKey struct {
	enclave *memguard.Enclave
	plain   string
}

// NewSecureKey seals a credential. The raw string the caller passed in
// is the caller's to discard; the key itself lives in the enclave.
func NewSecureKey(raw string) (*SecureKey, error) {
	if raw == "" {
		return nil, fmt.Errorf("key must not be empty")
	}
	initMemguard()

	if !mlockSufficient {
		return &SecureKey{plain: raw}, nil
	}
	return &SecureKey{enclave: memguard.NewEnclave([]byte(raw))}, nil
}

// Use opens the key for the duration of fn and wipes the working copy
// afterwards.
func (k *SecureKey) Use(fn func(key string) error) error {
	if k.enclave == nil {
		return fn(k.plain)
	}

	buf, err := k.enclave.Open()
	if err != nil {
		return fmt.Errorf("open key enclave: %w", err)
	}
	defer buf.Destroy()

	return fn(buf.String())
}

// PurgeAllSecureMemory wipes all memguard-allocated memory. Call during
// graceful shutdown.
func PurgeAllSecureMemory() {
	memguard.Purge()
	slog.Info("Purged all secure memory")
}
