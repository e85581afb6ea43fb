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
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderConfig contains configuration for displaying the run header.
//
// # Description
//
// HeaderConfig groups all optional parameters for the run header display.
// This allows extending the header with new fields without breaking
// existing callers of the Header() method.
//
// # Fields
//
//   - TaskType: Required. The pipeline task (debate, analysis, ...).
//   - Strategy: Prompt strategy name. Empty means the default.
//   - Proficiency: Learner proficiency level. Empty means intermediate.
//   - Backend: Generation backend name (e.g., "ollama", "mock").
type HeaderConfig struct {
	TaskType    string
	Strategy    string
	Proficiency string
	Backend     string
}

// PipelineInfo carries the analyzer and optimizer readouts for display.
//
// The CLI maps the orchestration metadata into this view model so the
// ux package stays free of service imports.
type PipelineInfo struct {
	ComplexityLevel  string
	ComplexityScore  int
	Factors          []string
	Temperature      float64
	NucleusThreshold float64
	EvidencePoolSize int
}

// RunStats aggregates generation metrics for the footer.
type RunStats struct {
	Backend       string
	Attempts      int
	GenerationMS  int64
	EvidenceCount int
}

// QuizCard is one question/answer pair for display.
type QuizCard struct {
	Question string
	Answer   string
}

// CoachUI defines the interface for rendering pipeline results.
// Implementations handle rendering to different outputs.
type CoachUI interface {
	// Header displays the run header with task and configuration.
	Header(config HeaderConfig)

	// Pipeline displays the complexity and parameter readout.
	Pipeline(info PipelineInfo)

	// Result displays the validated output object for the given task.
	Result(taskType string, result map[string]any)

	// Warnings displays non-fatal validation findings.
	Warnings(warnings []string)

	// Footer displays generation stats and an optional study tip.
	Footer(stats RunStats)

	// Error displays a run error message.
	Error(err error)
}

// terminalCoachUI implements CoachUI for terminal output
type terminalCoachUI struct {
	writer      io.Writer
	personality PersonalityLevel
}

// NewCoachUI creates a new terminal-based CoachUI
func NewCoachUI() CoachUI {
	return &terminalCoachUI{
		writer:      os.Stdout,
		personality: GetPersonality().Level,
	}
}

// NewCoachUIWithWriter creates a CoachUI with a custom writer (for testing)
func NewCoachUIWithWriter(w io.Writer, personality PersonalityLevel) CoachUI {
	return &terminalCoachUI{
		writer:      w,
		personality: personality,
	}
}

// write is a helper that writes formatted output and handles errors.
// Errors are silently ignored as there's no meaningful recovery for
// terminal output.
func (u *terminalCoachUI) write(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(u.writer, format, args...); err != nil {
		return
	}
}

// writeln is a helper that writes a line and handles errors.
func (u *terminalCoachUI) writeln(args ...interface{}) {
	if _, err := fmt.Fprintln(u.writer, args...); err != nil {
		return
	}
}

// =============================================================================
// Header
// =============================================================================

// Header displays the run header with task and configuration.
func (u *terminalCoachUI) Header(config HeaderConfig) {
	if u.personality == PersonalityMachine {
		parts := []string{fmt.Sprintf("task=%s", config.TaskType)}
		if config.Strategy != "" {
			parts = append(parts, fmt.Sprintf("strategy=%s", config.Strategy))
		}
		if config.Proficiency != "" {
			parts = append(parts, fmt.Sprintf("proficiency=%s", config.Proficiency))
		}
		if config.Backend != "" {
			parts = append(parts, fmt.Sprintf("backend=%s", config.Backend))
		}
		u.write("RUN_START: %s\n", strings.Join(parts, " "))
		return
	}

	if u.personality == PersonalityMinimal {
		u.write("CivicsCoach %s\n", config.TaskType)
		return
	}

	var content strings.Builder
	content.WriteString(Styles.Highlight.Render("CivicsCoach"))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("Task: %s", Styles.Success.Render(config.TaskType)))
	if config.Strategy != "" {
		content.WriteString(fmt.Sprintf(" | Strategy: %s", Styles.Success.Render(config.Strategy)))
	}
	if config.Proficiency != "" {
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("Proficiency: %s", Styles.Subtitle.Render(config.Proficiency)))
	}
	if config.Backend != "" {
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("Backend: %s", Styles.Muted.Render(config.Backend)))
	}

	boxStyle := Styles.Box.Width(60)
	u.writeln(boxStyle.Render(content.String()))
	u.writeln()
}

// =============================================================================
// Pipeline Readout
// =============================================================================

// Pipeline displays the complexity and parameter readout.
func (u *terminalCoachUI) Pipeline(info PipelineInfo) {
	if u.personality == PersonalityMachine {
		u.write("PIPELINE: complexity=%s score=%d temperature=%.2f top_p=%.2f evidence_pool=%d\n",
			info.ComplexityLevel, info.ComplexityScore,
			info.Temperature, info.NucleusThreshold, info.EvidencePoolSize)
		return
	}

	line := fmt.Sprintf("complexity %s (score %d) %s temp %.2f · top_p %.2f · evidence %d",
		Styles.Bold.Render(info.ComplexityLevel), info.ComplexityScore,
		string(IconArrow),
		info.Temperature, info.NucleusThreshold, info.EvidencePoolSize)
	u.writeln(Styles.Muted.Render(line))

	if u.personality != PersonalityMinimal && len(info.Factors) > 0 {
		u.writeln(Styles.Muted.Render("factors: " + strings.Join(info.Factors, ", ")))
	}
	u.writeln()
}

// =============================================================================
// Result Panels
// =============================================================================

// Panel styles for the debate layout. Stance and counter-stance get the
// green and saffron borders so the two positions read apart at a glance.
var (
	stancePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorGreen).
				Padding(0, 1)

	counterPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorSaffron).
				Padding(0, 1)

	verdictPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorChakraBright).
				Padding(0, 1)
)

const panelWidth = 72

// Result displays the validated output object for the given task.
//
// Machine mode emits the object as canonical JSON on a single line.
// Richer modes lay the fields out per task: a debate gets opposing
// stance panels, a quiz gets numbered cards, and so on. Unknown task
// types fall back to a generic key listing.
func (u *terminalCoachUI) Result(taskType string, result map[string]any) {
	if u.personality == PersonalityMachine {
		encoded, err := json.Marshal(result)
		if err != nil {
			u.write("RESULT_ERROR: %v\n", err)
			return
		}
		u.write("RESULT: %s\n", string(encoded))
		return
	}

	switch taskType {
	case "debate":
		u.renderDebate(result)
	case "analysis":
		u.renderAnalysis(result)
	case "comparison":
		u.renderComparison(result)
	case "explanation":
		u.renderExplanation(result)
	case "quiz":
		u.renderQuiz(resultQuizCards(result, "questions"))
	default:
		u.renderGeneric(result)
	}
}

func (u *terminalCoachUI) renderDebate(result map[string]any) {
	stance := resultString(result, "stance")
	counter := resultString(result, "counterStance")

	if u.personality == PersonalityMinimal {
		u.write("STANCE: %s\n\n", stance)
		u.write("COUNTER: %s\n\n", counter)
	} else {
		u.writeln(stancePanelStyle.Width(panelWidth).Render(
			Styles.Success.Bold(true).Render("Stance") + "\n" + stance))
		u.writeln(counterPanelStyle.Width(panelWidth).Render(
			Styles.Warning.Bold(true).Render("Counter-stance") + "\n" + counter))
		u.writeln()
	}

	u.renderCitations(resultStrings(result, "citations"))
	u.renderQuiz(resultQuizCards(result, "quiz"))
}

func (u *terminalCoachUI) renderAnalysis(result map[string]any) {
	u.writeln(Styles.Highlight.Render(resultString(result, "thesis")))
	u.writeln()
	u.renderBullets("Key points", resultStrings(result, "keyPoints"))
	u.renderBullets("Implications", resultStrings(result, "implications"))
	u.renderCitations(resultStrings(result, "citations"))
}

func (u *terminalCoachUI) renderComparison(result map[string]any) {
	u.renderBullets("Similarities", resultStrings(result, "similarities"))
	u.renderBullets("Differences", resultStrings(result, "differences"))

	verdict := resultString(result, "verdict")
	if u.personality == PersonalityMinimal {
		u.write("VERDICT: %s\n\n", verdict)
	} else {
		u.writeln(verdictPanelStyle.Width(panelWidth).Render(
			Styles.Subtitle.Bold(true).Render("Verdict") + "\n" + verdict))
		u.writeln()
	}
	u.renderCitations(resultStrings(result, "citations"))
}

func (u *terminalCoachUI) renderExplanation(result map[string]any) {
	u.writeln(resultString(result, "summary"))
	u.writeln()
	u.renderBullets("Details", resultStrings(result, "details"))

	if analogy := resultString(result, "analogy"); analogy != "" {
		if u.personality == PersonalityMinimal {
			u.write("ANALOGY: %s\n\n", analogy)
		} else {
			u.writeln(Styles.Muted.Render(string(IconQuill) + " " + analogy))
			u.writeln()
		}
	}
	u.renderCitations(resultStrings(result, "citations"))
}

func (u *terminalCoachUI) renderQuiz(cards []QuizCard) {
	if len(cards) == 0 {
		return
	}

	if u.personality == PersonalityMinimal {
		for i, card := range cards {
			u.write("Q%d: %s\n", i+1, card.Question)
			u.write("A%d: %s\n", i+1, card.Answer)
		}
		u.writeln()
		return
	}

	u.writeln(Styles.Bold.Render("Check yourself"))
	for i, card := range cards {
		u.write("%s %s\n", Styles.Subtitle.Render(fmt.Sprintf("Q%d.", i+1)), card.Question)
		u.write("   %s\n", Styles.Muted.Render(card.Answer))
	}
	u.writeln()
}

func (u *terminalCoachUI) renderCitations(citations []string) {
	if len(citations) == 0 {
		if u.personality != PersonalityMinimal {
			u.writeln(Styles.Muted.Render("No citations returned."))
			u.writeln()
		}
		return
	}

	if u.personality == PersonalityMinimal {
		for _, c := range citations {
			u.write("CITE: %s\n", c)
		}
		u.writeln()
		return
	}

	u.writeln(Styles.Bold.Render(string(IconScales) + " Citations"))
	for _, c := range citations {
		u.write("  %s %s\n", Styles.Muted.Render(string(IconBullet)), c)
	}
	u.writeln()
}

func (u *terminalCoachUI) renderBullets(heading string, items []string) {
	if len(items) == 0 {
		return
	}
	if u.personality == PersonalityMinimal {
		for _, item := range items {
			u.write("%s %s\n", string(IconBullet), item)
		}
		u.writeln()
		return
	}
	u.writeln(Styles.Bold.Render(heading))
	for _, item := range items {
		u.write("  %s %s\n", Styles.Muted.Render(string(IconBullet)), item)
	}
	u.writeln()
}

// renderGeneric lists string and string-array fields of an unrecognized
// result object. Non-string values are JSON-encoded inline.
func (u *terminalCoachUI) renderGeneric(result map[string]any) {
	for key, value := range result {
		switch v := value.(type) {
		case string:
			u.write("%s: %s\n", Styles.Bold.Render(key), v)
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				continue
			}
			u.write("%s: %s\n", Styles.Bold.Render(key), string(encoded))
		}
	}
	u.writeln()
}

// =============================================================================
// Warnings, Footer, Error
// =============================================================================

// Warnings displays non-fatal validation findings.
func (u *terminalCoachUI) Warnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	if u.personality == PersonalityMachine {
		for _, w := range warnings {
			u.write("WARNING: %s\n", w)
		}
		return
	}
	for _, w := range warnings {
		u.write("%s %s\n", IconWarning.Render(), Styles.Warning.Render(w))
	}
	u.writeln()
}

// Footer displays generation stats and an optional study tip.
func (u *terminalCoachUI) Footer(stats RunStats) {
	if u.personality == PersonalityMachine {
		u.write("RUN_END: backend=%s attempts=%d generation_ms=%d evidence=%d\n",
			stats.Backend, stats.Attempts, stats.GenerationMS, stats.EvidenceCount)
		return
	}

	u.writeln(Styles.Muted.Render(fmt.Sprintf("%s · %d attempt(s) · %dms · %d evidence snippet(s)",
		stats.Backend, stats.Attempts, stats.GenerationMS, stats.EvidenceCount)))

	if u.personality == PersonalityFull && GetPersonality().ShowTips {
		u.writeln()
		u.writeln(Styles.Muted.Render("Tip: " + RandomTip()))
	}
}

// Error displays a run error message.
func (u *terminalCoachUI) Error(err error) {
	if u.personality == PersonalityMachine {
		u.write("ERROR: %v\n", err)
		return
	}
	u.write("%s %s\n", IconError.Render(), Styles.Error.Render(err.Error()))
}

// =============================================================================
// Study Tips
// =============================================================================

var studyTips = []string{
	"Article 13 voids any law inconsistent with the fundamental rights.",
	"The Preamble was amended exactly once, by the 42nd Amendment in 1976.",
	"A money bill can only be introduced in the Lok Sabha, per Article 110.",
	"Kesavananda Bharati (1973) fixed the basic structure doctrine at a 7-6 split.",
	"Article 368 needs state ratification only for the federal provisions it lists.",
	"The Directive Principles in Part IV are non-justiciable but not non-binding on policy.",
}

// RandomTip returns a random constitutional study tip.
func RandomTip() string {
	return studyTips[rand.Intn(len(studyTips))]
}

// TipCount reports how many study tips are available.
func TipCount() int {
	return len(studyTips)
}

// =============================================================================
// Result Field Extraction
// =============================================================================

// resultString pulls a string field out of a result object, tolerating
// absence and wrong types. Validation upstream guarantees presence for
// known tasks, but the renderer never trusts that.
func resultString(result map[string]any, key string) string {
	if v, ok := result[key].(string); ok {
		return v
	}
	return ""
}

// resultStrings pulls an array-of-strings field out of a result object.
// Non-string elements are skipped.
func resultStrings(result map[string]any, key string) []string {
	raw, ok := result[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// resultQuizCards pulls an array of question/answer objects out of a
// result object. Entries missing either key are skipped.
func resultQuizCards(result map[string]any, key string) []QuizCard {
	raw, ok := result[key].([]any)
	if !ok {
		return nil
	}
	cards := make([]QuizCard, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		question, qok := obj["question"].(string)
		answer, aok := obj["answer"].(string)
		if !qok || !aok {
			continue
		}
		cards = append(cards, QuizCard{Question: question, Answer: answer})
	}
	return cards
}
