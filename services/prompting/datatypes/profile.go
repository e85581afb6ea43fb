// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// =============================================================================
// Parameter Profile
// =============================================================================

// Hard bounds for generation parameters. Every profile that leaves the
// optimizer satisfies these regardless of caller overrides.
const (
	TemperatureMin = 0.0
	TemperatureMax = 2.0

	NucleusThresholdMin = 0.0
	NucleusThresholdMax = 1.0

	EvidencePoolMin = 1
	EvidencePoolMax = 20
)

// ParameterProfile is the tuned generation-control settings for one request.
//
// # Description
//
// Derived fresh per request by the parameter optimizer from the request's
// context, task type, complexity, and proficiency, or pinned by caller
// overrides. Temperature and NucleusThreshold map onto the backend's
// sampling controls; EvidencePoolSize is consumed on the retrieval side
// as the snippet count requested from the evidence store.
type ParameterProfile struct {
	// Temperature is the sampling temperature, within [0, 2].
	Temperature float64 `json:"temperature"`

	// NucleusThreshold is the top-p cumulative probability cutoff, within [0, 1].
	NucleusThreshold float64 `json:"nucleusThreshold"`

	// EvidencePoolSize is the number of evidence snippets to retrieve, within [1, 20].
	EvidencePoolSize int `json:"evidencePoolSize"`
}

// Clamp returns a copy of the profile with every field forced into its
// hard bounds.
func (p ParameterProfile) Clamp() ParameterProfile {
	return ParameterProfile{
		Temperature:      ClampFloat(p.Temperature, TemperatureMin, TemperatureMax),
		NucleusThreshold: ClampFloat(p.NucleusThreshold, NucleusThresholdMin, NucleusThresholdMax),
		EvidencePoolSize: ClampInt(p.EvidencePoolSize, EvidencePoolMin, EvidencePoolMax),
	}
}

// InBounds reports whether every field already sits inside its hard bounds.
func (p ParameterProfile) InBounds() bool {
	return p == p.Clamp()
}

// Overrides carries optional caller-pinned parameter values. A nil field
// means "let the optimizer decide". A non-nil field wins over every
// preset and nudge, subject only to the hard bounds.
type Overrides struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	NucleusThreshold *float64 `json:"nucleusThreshold,omitempty"`
	EvidencePoolSize *int     `json:"evidencePoolSize,omitempty"`
}

// IsZero returns true if no override is set.
func (o Overrides) IsZero() bool {
	return o.Temperature == nil && o.NucleusThreshold == nil && o.EvidencePoolSize == nil
}

// ClampFloat forces v into [min, max].
func ClampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampInt forces v into [min, max].
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
