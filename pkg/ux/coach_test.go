// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// debateResult builds a schema-conforming debate result object.
func debateResult() map[string]any {
	return map[string]any{
		"stance":        "The basic structure doctrine is a legitimate judicial check.",
		"counterStance": "The doctrine substitutes judicial preference for the amending power.",
		"citations":     []any{"Article 368", "Kesavananda Bharati v. State of Kerala (1973)"},
		"quiz": []any{
			map[string]any{
				"question": "Which case established the basic structure doctrine?",
				"answer":   "Kesavananda Bharati v. State of Kerala (1973).",
			},
		},
	}
}

// =============================================================================
// Header Tests
// =============================================================================

func TestCoachUI_Header_MachineMode(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityMachine)

	ui.Header(HeaderConfig{
		TaskType:    "debate",
		Strategy:    "structured_role",
		Proficiency: "advanced",
		Backend:     "ollama",
	})

	output := buf.String()
	if !strings.HasPrefix(output, "RUN_START: ") {
		t.Errorf("expected RUN_START prefix, got %q", output)
	}
	for _, want := range []string{"task=debate", "strategy=structured_role", "proficiency=advanced", "backend=ollama"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in header, got %q", want, output)
		}
	}
}

func TestCoachUI_Header_MachineMode_OmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityMachine)

	ui.Header(HeaderConfig{TaskType: "quiz"})

	output := buf.String()
	if strings.Contains(output, "strategy=") {
		t.Errorf("empty strategy should be omitted, got %q", output)
	}
	if strings.Contains(output, "backend=") {
		t.Errorf("empty backend should be omitted, got %q", output)
	}
}

func TestCoachUI_Header_FullMode(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityFull)

	ui.Header(HeaderConfig{TaskType: "debate", Backend: "mock"})

	output := buf.String()
	if !strings.Contains(output, "CivicsCoach") {
		t.Errorf("expected brand in header, got %q", output)
	}
	if !strings.Contains(output, "debate") {
		t.Errorf("expected task in header, got %q", output)
	}
}

func TestCoachUI_Header_MinimalMode(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityMinimal)

	ui.Header(HeaderConfig{TaskType: "analysis"})

	output := buf.String()
	if !strings.Contains(output, "analysis") {
		t.Errorf("expected task in minimal header, got %q", output)
	}
	if strings.Contains(output, "╭") {
		t.Errorf("minimal header should not draw boxes, got %q", output)
	}
}

// =============================================================================
// Pipeline Tests
// =============================================================================

func TestCoachUI_Pipeline_MachineMode(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityMachine)

	ui.Pipeline(PipelineInfo{
		ComplexityLevel:  "moderate",
		ComplexityScore:  3,
		Temperature:      0.7,
		NucleusThreshold: 0.9,
		EvidencePoolSize: 5,
	})

	output := buf.String()
	if !strings.Contains(output, "PIPELINE: complexity=moderate score=3") {
		t.Errorf("expected pipeline readout, got %q", output)
	}
	if !strings.Contains(output, "temperature=0.70") {
		t.Errorf("expected temperature, got %q", output)
	}
	if !strings.Contains(output, "evidence_pool=5") {
		t.Errorf("expected evidence pool, got %q", output)
	}
}

func TestCoachUI_Pipeline_FullMode_ShowsFactors(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityFull)

	ui.Pipeline(PipelineInfo{
		ComplexityLevel: "complex",
		ComplexityScore: 4,
		Factors:         []string{"long_query", "domain_terms"},
	})

	output := buf.String()
	if !strings.Contains(output, "long_query") {
		t.Errorf("expected factors in output, got %q", output)
	}
}

func TestCoachUI_Pipeline_MinimalMode_HidesFactors(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityMinimal)

	ui.Pipeline(PipelineInfo{
		ComplexityLevel: "simple",
		Factors:         []string{"medium_query"},
	})

	if strings.Contains(buf.String(), "factors:") {
		t.Errorf("minimal mode should hide factors, got %q", buf.String())
	}
}

// =============================================================================
// Result Tests
// =============================================================================

func TestCoachUI_Result_MachineMode_EmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityMachine)

	ui.Result("debate", debateResult())

	output := buf.String()
	if !strings.HasPrefix(output, "RESULT: ") {
		t.Fatalf("expected RESULT prefix, got %q", output)
	}

	var decoded map[string]any
	payload := strings.TrimSpace(strings.TrimPrefix(output, "RESULT: "))
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("machine result should be valid JSON: %v", err)
	}
	if decoded["stance"] == "" {
		t.Error("decoded result should have a stance")
	}
}

func TestCoachUI_Result_Debate_FullMode(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityFull)

	ui.Result("debate", debateResult())

	output := buf.String()
	for _, want := range []string{
		"Stance",
		"Counter-stance",
		"legitimate judicial check",
		"Citations",
		"Article 368",
		"Check yourself",
		"basic structure doctrine",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in debate output, got %q", want, output)
		}
	}
}

func TestCoachUI_Result_Debate_MinimalMode(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityMinimal)

	ui.Result("debate", debateResult())

	output := buf.String()
	if !strings.Contains(output, "STANCE: ") {
		t.Errorf("expected STANCE prefix, got %q", output)
	}
	if !strings.Contains(output, "COUNTER: ") {
		t.Errorf("expected COUNTER prefix, got %q", output)
	}
	if !strings.Contains(output, "CITE: Article 368") {
		t.Errorf("expected CITE lines, got %q", output)
	}
}

func TestCoachUI_Result_Analysis(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityFull)

	ui.Result("analysis", map[string]any{
		"thesis":       "Judicial review anchors constitutional supremacy.",
		"keyPoints":    []any{"Article 13 voids inconsistent laws."},
		"implications": []any{"Parliament cannot amend away Part III wholesale."},
		"citations":    []any{"Article 13"},
	})

	output := buf.String()
	for _, want := range []string{"Judicial review anchors", "Key points", "Implications", "Article 13"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in analysis output, got %q", want, output)
		}
	}
}

func TestCoachUI_Result_Comparison(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityFull)

	ui.Result("comparison", map[string]any{
		"similarities": []any{"Both bind the state."},
		"differences":  []any{"Rights are justiciable, principles are not."},
		"verdict":      "Rights and principles are complementary halves.",
		"citations":    []any{"Part III", "Part IV"},
	})

	output := buf.String()
	for _, want := range []string{"Similarities", "Differences", "Verdict", "complementary halves"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in comparison output, got %q", want, output)
		}
	}
}

func TestCoachUI_Result_Explanation(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityFull)

	ui.Result("explanation", map[string]any{
		"summary":   "A money bill deals only with taxation and spending.",
		"details":   []any{"Only the Lok Sabha can introduce one."},
		"analogy":   "Like a household budget only one spouse may propose.",
		"citations": []any{"Article 110"},
	})

	output := buf.String()
	for _, want := range []string{"money bill", "Details", "household budget", "Article 110"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in explanation output, got %q", want, output)
		}
	}
}

func TestCoachUI_Result_Quiz(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityFull)

	ui.Result("quiz", map[string]any{
		"questions": []any{
			map[string]any{"question": "How many schedules did the Constitution start with?", "answer": "Eight."},
			map[string]any{"question": "Who chairs the Rajya Sabha?", "answer": "The Vice-President."},
		},
	})

	output := buf.String()
	if !strings.Contains(output, "Q1.") || !strings.Contains(output, "Q2.") {
		t.Errorf("expected numbered questions, got %q", output)
	}
	if !strings.Contains(output, "Vice-President") {
		t.Errorf("expected answers, got %q", output)
	}
}

func TestCoachUI_Result_UnknownTask_RendersGenerically(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityFull)

	ui.Result("essay", map[string]any{
		"title": "Federalism",
		"score": 7,
	})

	output := buf.String()
	if !strings.Contains(output, "title") || !strings.Contains(output, "Federalism") {
		t.Errorf("expected generic key rendering, got %q", output)
	}
	if !strings.Contains(output, "7") {
		t.Errorf("expected non-string values encoded, got %q", output)
	}
}

func TestCoachUI_Result_Debate_NoCitations(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityFull)

	result := debateResult()
	result["citations"] = []any{}
	ui.Result("debate", result)

	if !strings.Contains(buf.String(), "No citations returned.") {
		t.Errorf("expected empty-citations notice, got %q", buf.String())
	}
}

// =============================================================================
// Warnings / Footer / Error Tests
// =============================================================================

func TestCoachUI_Warnings_MachineMode(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityMachine)

	ui.Warnings([]string{"unexpected field: confidence"})

	if !strings.Contains(buf.String(), "WARNING: unexpected field: confidence") {
		t.Errorf("expected warning line, got %q", buf.String())
	}
}

func TestCoachUI_Warnings_Empty(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityFull)

	ui.Warnings(nil)

	if buf.Len() != 0 {
		t.Errorf("no warnings should render nothing, got %q", buf.String())
	}
}

func TestCoachUI_Footer_MachineMode(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityMachine)

	ui.Footer(RunStats{Backend: "ollama", Attempts: 2, GenerationMS: 843, EvidenceCount: 5})

	output := buf.String()
	if !strings.Contains(output, "RUN_END: backend=ollama attempts=2 generation_ms=843 evidence=5") {
		t.Errorf("expected machine footer, got %q", output)
	}
}

func TestCoachUI_Footer_StandardMode_NoTip(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityStandard)

	ui.Footer(RunStats{Backend: "mock", Attempts: 1})

	if strings.Contains(buf.String(), "Tip:") {
		t.Errorf("standard mode should not show tips, got %q", buf.String())
	}
}

func TestCoachUI_Error(t *testing.T) {
	var buf bytes.Buffer
	ui := NewCoachUIWithWriter(&buf, PersonalityMachine)

	ui.Error(errors.New("backend unreachable"))

	if !strings.Contains(buf.String(), "ERROR: backend unreachable") {
		t.Errorf("expected error line, got %q", buf.String())
	}
}

// =============================================================================
// Study Tip Tests
// =============================================================================

func TestRandomTip_NonEmpty(t *testing.T) {
	for i := 0; i < 20; i++ {
		if RandomTip() == "" {
			t.Fatal("RandomTip returned empty string")
		}
	}
}

func TestTipCount_Positive(t *testing.T) {
	if TipCount() <= 0 {
		t.Error("expected at least one study tip")
	}
}

// =============================================================================
// Field Extraction Tests
// =============================================================================

func TestResultString(t *testing.T) {
	m := map[string]any{"stance": "yes", "score": 3}
	if got := resultString(m, "stance"); got != "yes" {
		t.Errorf("resultString = %q, want 'yes'", got)
	}
	if got := resultString(m, "score"); got != "" {
		t.Errorf("non-string field should return empty, got %q", got)
	}
	if got := resultString(m, "missing"); got != "" {
		t.Errorf("missing field should return empty, got %q", got)
	}
}

func TestResultStrings(t *testing.T) {
	m := map[string]any{
		"citations": []any{"Article 14", 42, "Article 21"},
		"stance":    "not an array",
	}
	got := resultStrings(m, "citations")
	if len(got) != 2 {
		t.Fatalf("expected 2 strings (non-strings skipped), got %d", len(got))
	}
	if got[0] != "Article 14" || got[1] != "Article 21" {
		t.Errorf("unexpected values: %v", got)
	}
	if resultStrings(m, "stance") != nil {
		t.Error("non-array field should return nil")
	}
}

func TestResultQuizCards(t *testing.T) {
	m := map[string]any{
		"quiz": []any{
			map[string]any{"question": "Q1", "answer": "A1"},
			map[string]any{"question": "Q2"}, // missing answer, skipped
			"not an object",                  // skipped
		},
	}
	got := resultQuizCards(m, "quiz")
	if len(got) != 1 {
		t.Fatalf("expected 1 valid card, got %d", len(got))
	}
	if got[0].Question != "Q1" || got[0].Answer != "A1" {
		t.Errorf("unexpected card: %+v", got[0])
	}
	if resultQuizCards(m, "missing") != nil {
		t.Error("missing field should return nil")
	}
}
