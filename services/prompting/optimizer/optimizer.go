// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package optimizer derives generation-control parameters for a request.
//
// Starting from an immutable preset table keyed by (Context, TaskType),
// the optimizer nudges temperature, nucleus threshold, and evidence pool
// size by query complexity and user proficiency, then clamps everything
// to hard bounds. Caller overrides bypass the nudges entirely. The result
// is deterministic and total: every input combination, including
// unrecognized enum values, yields a legal profile.
package optimizer

import (
	"math"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// Config holds the nudge magnitudes applied on top of the preset tables.
//
// The values are heuristic tuning constants. They are exposed as
// configuration rather than hard-coded so deployments can adjust the
// adaptation strength without a rebuild.
type Config struct {
	// SimpleFactor scales temperature down for simple queries.
	SimpleFactor float64

	// ComplexFactor scales temperature up for complex queries.
	ComplexFactor float64

	// BeginnerFactor tightens temperature and nucleus threshold for
	// beginners, trading variety for consistency.
	BeginnerFactor float64

	// AdvancedFactor loosens temperature and nucleus threshold for
	// advanced users.
	AdvancedFactor float64

	// WindowStep is the fraction a windowed value moves toward its
	// preset min (simple) or max (complex) per complexity nudge.
	WindowStep float64

	// CreativeStep is the fraction the nucleus threshold moves toward
	// its preset max when the query carries creative intent.
	CreativeStep float64

	// BeginnerEvidenceBoost adds snippets for beginners, who benefit
	// from more grounding context.
	BeginnerEvidenceBoost int

	// AdvancedEvidenceTrim removes snippets for advanced users, who
	// need less hand-holding.
	AdvancedEvidenceTrim int
}

// DefaultConfig returns the production nudge magnitudes.
func DefaultConfig() Config {
	return Config{
		SimpleFactor:          0.9,
		ComplexFactor:         1.1,
		BeginnerFactor:        0.8,
		AdvancedFactor:        1.1,
		WindowStep:            0.5,
		CreativeStep:          0.5,
		BeginnerEvidenceBoost: 2,
		AdvancedEvidenceTrim:  1,
	}
}

// Optimizer derives parameter profiles. Construct once and reuse.
//
// Thread Safety: safe for concurrent use. All state is immutable after
// construction and every preset lookup is a pure read.
type Optimizer struct {
	cfg Config
}

// NewOptimizer creates an optimizer. A nil config uses DefaultConfig.
func NewOptimizer(config *Config) *Optimizer {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}
	return &Optimizer{cfg: cfg}
}

// Optimize derives the parameter profile for one request.
//
// Description:
//
//	Looks up the (Context, TaskType) preset, applies complexity and
//	proficiency nudges per parameter, then clamps to the preset window
//	and the hard global bounds. A caller override pins its parameter to
//	the supplied value, subject only to the global bounds. Unknown
//	Context or TaskType values fall back to the default preset; unknown
//	Proficiency or ComplexityLevel values apply no nudge. The function
//	never fails.
//
// Inputs:
//
//	context     - Parameter preset family selector.
//	task        - Task type, part of the preset key.
//	complexity  - Complexity report from the analyzer. Both the optimizer
//	              and the strategy builder must see the same report for a
//	              given request.
//	proficiency - Declared user proficiency.
//	overrides   - Optional caller-pinned values. Nil means no overrides.
//
// Outputs:
//
//	datatypes.ParameterProfile - Always within hard bounds.
//
// Thread Safety: safe for concurrent use.
func (o *Optimizer) Optimize(
	context datatypes.Context,
	task datatypes.TaskType,
	complexity datatypes.Complexity,
	proficiency datatypes.Proficiency,
	overrides *datatypes.Overrides,
) datatypes.ParameterProfile {
	preset, _ := PresetFor(context, task)

	profile := datatypes.ParameterProfile{
		Temperature:      o.temperature(preset, complexity, proficiency),
		NucleusThreshold: o.nucleus(preset, complexity, proficiency),
		EvidencePoolSize: o.evidence(preset, complexity, proficiency),
	}

	// Overrides win over every preset and nudge.
	if overrides != nil {
		if overrides.Temperature != nil {
			profile.Temperature = *overrides.Temperature
		}
		if overrides.NucleusThreshold != nil {
			profile.NucleusThreshold = *overrides.NucleusThreshold
		}
		if overrides.EvidencePoolSize != nil {
			profile.EvidencePoolSize = *overrides.EvidencePoolSize
		}
	}

	return profile.Clamp()
}

// temperature scales the preset scalar by complexity and proficiency.
func (o *Optimizer) temperature(preset Preset, complexity datatypes.Complexity, proficiency datatypes.Proficiency) float64 {
	t := preset.Temperature

	switch complexity.Level {
	case datatypes.ComplexitySimple:
		t *= o.cfg.SimpleFactor
	case datatypes.ComplexityComplex:
		t *= o.cfg.ComplexFactor
	}

	switch proficiency {
	case datatypes.ProficiencyBeginner:
		t *= o.cfg.BeginnerFactor
	case datatypes.ProficiencyAdvanced:
		t *= o.cfg.AdvancedFactor
	}

	return t
}

// nucleus nudges the preset default within its window.
func (o *Optimizer) nucleus(preset Preset, complexity datatypes.Complexity, proficiency datatypes.Proficiency) float64 {
	w := preset.Nucleus
	v := w.Default

	switch complexity.Level {
	case datatypes.ComplexitySimple:
		v = stepToward(v, w.Min, o.cfg.WindowStep)
	case datatypes.ComplexityComplex:
		v = stepToward(v, w.Max, o.cfg.WindowStep)
	}

	if complexity.HasCreativeElements {
		v = stepToward(v, w.Max, o.cfg.CreativeStep)
	}

	switch proficiency {
	case datatypes.ProficiencyBeginner:
		v *= o.cfg.BeginnerFactor
	case datatypes.ProficiencyAdvanced:
		v *= o.cfg.AdvancedFactor
	}

	return datatypes.ClampFloat(v, w.Min, w.Max)
}

// evidence nudges the preset default pool size within its window.
func (o *Optimizer) evidence(preset Preset, complexity datatypes.Complexity, proficiency datatypes.Proficiency) int {
	w := preset.Evidence
	v := float64(w.Default)

	switch complexity.Level {
	case datatypes.ComplexitySimple:
		v = stepToward(v, float64(w.Min), o.cfg.WindowStep)
	case datatypes.ComplexityComplex:
		v = stepToward(v, float64(w.Max), o.cfg.WindowStep)
	}

	n := int(math.Round(v))

	switch proficiency {
	case datatypes.ProficiencyBeginner:
		n += o.cfg.BeginnerEvidenceBoost
	case datatypes.ProficiencyAdvanced:
		n -= o.cfg.AdvancedEvidenceTrim
	}

	return datatypes.ClampInt(n, w.Min, w.Max)
}

// stepToward moves value a fraction of the distance to bound.
func stepToward(value, bound, fraction float64) float64 {
	return value + (bound-value)*fraction
}
