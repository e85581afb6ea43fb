// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package optimizer

import (
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// =============================================================================
// Preset Tables
// =============================================================================

// Window is an inclusive float range with a starting default.
type Window struct {
	Min     float64
	Max     float64
	Default float64
}

// IntWindow is an inclusive integer range with a starting default.
type IntWindow struct {
	Min     int
	Max     int
	Default int
}

// Preset is the base generation profile for one (Context, TaskType) pair.
//
// Temperature is a single scalar; the nucleus threshold and evidence pool
// carry a window so complexity and proficiency nudges have bounds to move
// within.
type Preset struct {
	Temperature float64
	Nucleus     Window
	Evidence    IntWindow
}

type presetKey struct {
	Context datatypes.Context
	Task    datatypes.TaskType
}

// defaultPreset backs any (Context, TaskType) pair without its own entry,
// including unrecognized enum values. Lookups never fail.
var defaultPreset = Preset{
	Temperature: 0.7,
	Nucleus:     Window{Min: 0.70, Max: 0.95, Default: 0.90},
	Evidence:    IntWindow{Min: 2, Max: 10, Default: 5},
}

// presets maps each known (Context, TaskType) pair to its base profile.
//
// The table is populated once at init and read-only afterwards; every
// lookup is a pure read. The numbers are tuning defaults: education and
// research contexts run cooler with deeper evidence pools, the general
// public context runs warmer with shallower ones, and creative tasks get
// the widest sampling.
var presets = map[presetKey]Preset{
	// Constitutional education: accuracy first, generous evidence.
	{datatypes.ContextConstitutionalEducation, datatypes.TaskDebate}: {
		Temperature: 0.70,
		Nucleus:     Window{Min: 0.70, Max: 0.95, Default: 0.90},
		Evidence:    IntWindow{Min: 3, Max: 10, Default: 6},
	},
	{datatypes.ContextConstitutionalEducation, datatypes.TaskAnalysis}: {
		Temperature: 0.50,
		Nucleus:     Window{Min: 0.70, Max: 0.90, Default: 0.85},
		Evidence:    IntWindow{Min: 3, Max: 10, Default: 6},
	},
	{datatypes.ContextConstitutionalEducation, datatypes.TaskComparison}: {
		Temperature: 0.60,
		Nucleus:     Window{Min: 0.70, Max: 0.92, Default: 0.88},
		Evidence:    IntWindow{Min: 4, Max: 12, Default: 7},
	},
	{datatypes.ContextConstitutionalEducation, datatypes.TaskExplanation}: {
		Temperature: 0.40,
		Nucleus:     Window{Min: 0.65, Max: 0.90, Default: 0.85},
		Evidence:    IntWindow{Min: 2, Max: 8, Default: 4},
	},
	{datatypes.ContextConstitutionalEducation, datatypes.TaskQuiz}: {
		Temperature: 0.30,
		Nucleus:     Window{Min: 0.60, Max: 0.85, Default: 0.80},
		Evidence:    IntWindow{Min: 2, Max: 8, Default: 4},
	},

	// Academic research: coolest sampling, deepest evidence pools.
	{datatypes.ContextAcademicResearch, datatypes.TaskDebate}: {
		Temperature: 0.60,
		Nucleus:     Window{Min: 0.70, Max: 0.92, Default: 0.88},
		Evidence:    IntWindow{Min: 4, Max: 14, Default: 8},
	},
	{datatypes.ContextAcademicResearch, datatypes.TaskAnalysis}: {
		Temperature: 0.40,
		Nucleus:     Window{Min: 0.65, Max: 0.90, Default: 0.82},
		Evidence:    IntWindow{Min: 4, Max: 14, Default: 8},
	},
	{datatypes.ContextAcademicResearch, datatypes.TaskComparison}: {
		Temperature: 0.50,
		Nucleus:     Window{Min: 0.65, Max: 0.90, Default: 0.85},
		Evidence:    IntWindow{Min: 4, Max: 14, Default: 8},
	},
	{datatypes.ContextAcademicResearch, datatypes.TaskExplanation}: {
		Temperature: 0.40,
		Nucleus:     Window{Min: 0.65, Max: 0.88, Default: 0.82},
		Evidence:    IntWindow{Min: 3, Max: 10, Default: 6},
	},
	{datatypes.ContextAcademicResearch, datatypes.TaskQuiz}: {
		Temperature: 0.30,
		Nucleus:     Window{Min: 0.60, Max: 0.85, Default: 0.78},
		Evidence:    IntWindow{Min: 3, Max: 10, Default: 5},
	},

	// Public policy: balanced, slightly conservative.
	{datatypes.ContextPublicPolicy, datatypes.TaskDebate}: {
		Temperature: 0.65,
		Nucleus:     Window{Min: 0.70, Max: 0.93, Default: 0.89},
		Evidence:    IntWindow{Min: 3, Max: 12, Default: 6},
	},
	{datatypes.ContextPublicPolicy, datatypes.TaskAnalysis}: {
		Temperature: 0.50,
		Nucleus:     Window{Min: 0.68, Max: 0.90, Default: 0.85},
		Evidence:    IntWindow{Min: 3, Max: 12, Default: 6},
	},
	{datatypes.ContextPublicPolicy, datatypes.TaskComparison}: {
		Temperature: 0.55,
		Nucleus:     Window{Min: 0.68, Max: 0.90, Default: 0.86},
		Evidence:    IntWindow{Min: 3, Max: 12, Default: 6},
	},
	{datatypes.ContextPublicPolicy, datatypes.TaskExplanation}: {
		Temperature: 0.50,
		Nucleus:     Window{Min: 0.65, Max: 0.90, Default: 0.84},
		Evidence:    IntWindow{Min: 2, Max: 10, Default: 5},
	},
	{datatypes.ContextPublicPolicy, datatypes.TaskQuiz}: {
		Temperature: 0.35,
		Nucleus:     Window{Min: 0.60, Max: 0.85, Default: 0.80},
		Evidence:    IntWindow{Min: 2, Max: 8, Default: 4},
	},

	// General public: warmer, approachable, lighter evidence.
	{datatypes.ContextGeneralPublic, datatypes.TaskDebate}: {
		Temperature: 0.80,
		Nucleus:     Window{Min: 0.75, Max: 0.95, Default: 0.92},
		Evidence:    IntWindow{Min: 2, Max: 8, Default: 4},
	},
	{datatypes.ContextGeneralPublic, datatypes.TaskAnalysis}: {
		Temperature: 0.60,
		Nucleus:     Window{Min: 0.70, Max: 0.92, Default: 0.88},
		Evidence:    IntWindow{Min: 2, Max: 8, Default: 4},
	},
	{datatypes.ContextGeneralPublic, datatypes.TaskComparison}: {
		Temperature: 0.65,
		Nucleus:     Window{Min: 0.70, Max: 0.92, Default: 0.88},
		Evidence:    IntWindow{Min: 2, Max: 8, Default: 4},
	},
	{datatypes.ContextGeneralPublic, datatypes.TaskExplanation}: {
		Temperature: 0.70,
		Nucleus:     Window{Min: 0.72, Max: 0.94, Default: 0.90},
		Evidence:    IntWindow{Min: 1, Max: 6, Default: 3},
	},
	{datatypes.ContextGeneralPublic, datatypes.TaskQuiz}: {
		Temperature: 0.50,
		Nucleus:     Window{Min: 0.65, Max: 0.90, Default: 0.85},
		Evidence:    IntWindow{Min: 1, Max: 6, Default: 3},
	},

	// Creative tasks: widest sampling, evidence as inspiration only.
	{datatypes.ContextCreativeTasks, datatypes.TaskDebate}: {
		Temperature: 0.95,
		Nucleus:     Window{Min: 0.80, Max: 0.98, Default: 0.95},
		Evidence:    IntWindow{Min: 1, Max: 6, Default: 3},
	},
	{datatypes.ContextCreativeTasks, datatypes.TaskAnalysis}: {
		Temperature: 0.75,
		Nucleus:     Window{Min: 0.75, Max: 0.96, Default: 0.92},
		Evidence:    IntWindow{Min: 1, Max: 6, Default: 3},
	},
	{datatypes.ContextCreativeTasks, datatypes.TaskComparison}: {
		Temperature: 0.80,
		Nucleus:     Window{Min: 0.75, Max: 0.96, Default: 0.92},
		Evidence:    IntWindow{Min: 1, Max: 6, Default: 3},
	},
	{datatypes.ContextCreativeTasks, datatypes.TaskExplanation}: {
		Temperature: 0.85,
		Nucleus:     Window{Min: 0.78, Max: 0.97, Default: 0.94},
		Evidence:    IntWindow{Min: 1, Max: 5, Default: 2},
	},
	{datatypes.ContextCreativeTasks, datatypes.TaskQuiz}: {
		Temperature: 0.70,
		Nucleus:     Window{Min: 0.72, Max: 0.95, Default: 0.90},
		Evidence:    IntWindow{Min: 1, Max: 5, Default: 2},
	},
}

// PresetFor returns the base profile for a (Context, TaskType) pair.
//
// Description:
//
//	Unknown or unregistered pairs fall back to the documented default
//	preset rather than failing. The second return reports whether the
//	pair had its own entry.
//
// Outputs:
//
//	Preset - Base profile, by value so callers cannot mutate the table.
//	bool   - True when the pair had a dedicated entry.
func PresetFor(context datatypes.Context, task datatypes.TaskType) (Preset, bool) {
	p, ok := presets[presetKey{Context: context, Task: task}]
	if !ok {
		return defaultPreset, false
	}
	return p, true
}

// DefaultPreset returns the fallback profile used for unknown pairs.
func DefaultPreset() Preset {
	return defaultPreset
}
