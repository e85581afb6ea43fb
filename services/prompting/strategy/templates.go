// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package strategy

import (
	"strings"
	"text/template"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// =============================================================================
// Templates and Wording Tables
// =============================================================================
//
// The fixed scaffolds are text/template so their shape is visible in one
// place; the wording tables supply the per-enum phrases. Everything here
// is parsed or populated at package init and read-only afterwards, which
// keeps payload assembly deterministic.

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

var roleTemplate = template.Must(template.New("role").Funcs(templateFuncs).Parse(
	`You are CivicsCoach, a constitutional education assistant grounded in Indian and comparative constitutional law.
Audience: {{.Audience}}
Reader level: {{.ProficiencyNote}}`))

var evidenceTemplate = template.Must(template.New("evidence").Funcs(templateFuncs).Parse(
	`Ground every claim in the evidence below. Cite snippets by their bracketed id in the citations field.
{{- range .Snippets}}
[{{.ID}}] {{.Source}}: {{.Text}}
{{- end}}`))

type roleData struct {
	Audience        string
	ProficiencyNote string
}

type evidenceData struct {
	Snippets []datatypes.Snippet
}

// constraintsText is the standing limits block shared by every strategy.
const constraintsText = `Constraints:
- Stay within constitutional law and civics; decline unrelated requests.
- Do not present contested interpretations as settled law; attribute them.
- Do not offer legal advice for specific personal situations.
- Never invent citations; cite only material you were given or can name precisely.`

// audienceByContext supplies the audience line of the role block.
var audienceByContext = map[datatypes.Context]string{
	datatypes.ContextConstitutionalEducation: "students studying constitutional law and civics",
	datatypes.ContextAcademicResearch:        "academic researchers who expect precise, source-anchored argument",
	datatypes.ContextPublicPolicy:            "policy professionals weighing institutional consequences",
	datatypes.ContextGeneralPublic:           "members of the general public with no legal background",
	datatypes.ContextCreativeTasks:           "learners exploring constitutional ideas through creative exercises",
}

// defaultAudience backs unknown contexts so assembly stays total.
const defaultAudience = "learners of constitutional law"

// proficiencyNotes supplies the reader-level line of the role block.
var proficiencyNotes = map[datatypes.Proficiency]string{
	datatypes.ProficiencyBeginner:     "beginner. Use plain words, define every technical term, and prefer concrete examples.",
	datatypes.ProficiencyIntermediate: "intermediate. Use standard legal terminology with brief definitions where helpful.",
	datatypes.ProficiencyAdvanced:     "advanced. Use precise doctrinal terminology and engage with nuance and counter-argument.",
}

// taskDirectives state each task's objective in the payload.
var taskDirectives = map[datatypes.TaskType]string{
	datatypes.TaskDebate:      "Present a structured debate: argue a clear stance, then the strongest counter-stance in good faith, support both with citations, and close with comprehension quiz questions.",
	datatypes.TaskAnalysis:    "Analyze the topic: state a thesis, develop the key points that support it, and draw out the implications, grounding each step in citations.",
	datatypes.TaskComparison:  "Compare the subjects: identify genuine similarities and differences, then give a reasoned verdict supported by citations.",
	datatypes.TaskExplanation: "Explain the concept: summarize it briefly, unpack the supporting details, offer one everyday analogy, and cite your sources.",
	datatypes.TaskQuiz:        "Write a quiz: self-contained questions, each paired with its correct answer.",
}

// -----------------------------------------------------------------------------
// Complexity-adaptive wording
// -----------------------------------------------------------------------------

// reasoningDepth varies how much visible reasoning the backend is asked for.
var reasoningDepth = map[datatypes.ComplexityLevel]string{
	datatypes.ComplexitySimple:   "Keep reasoning minimal: answer directly and do not explore side issues.",
	datatypes.ComplexityModerate: "Reason through the main considerations step by step before concluding.",
	datatypes.ComplexityComplex:  "Reason exhaustively: separate the sub-questions, weigh competing interpretations, and account for their interactions before concluding.",
}

// outputFormat varies the shape of prose inside the schema's fields.
var outputFormat = map[datatypes.ComplexityLevel]string{
	datatypes.ComplexitySimple:   "Keep each field short: single sentences or brief bullet-like points.",
	datatypes.ComplexityModerate: "Develop each field in compact, self-contained sentences.",
	datatypes.ComplexityComplex:  "Develop each field fully, with structured argument where the schema allows prose.",
}

// auxiliaryGuidance adds per-proficiency instructions on top of the
// reasoning and format lines.
var auxiliaryGuidance = map[datatypes.Proficiency]string{
	datatypes.ProficiencyBeginner:     "Before using any doctrine by name, state in one plain sentence what it means.",
	datatypes.ProficiencyIntermediate: "Name the doctrines and cases you rely on; brief parenthetical context is enough.",
	datatypes.ProficiencyAdvanced:     "Engage the strongest objections to your reading and say why they do not prevail.",
}

// -----------------------------------------------------------------------------
// Structured-role specializations
// -----------------------------------------------------------------------------

// specializationClauses are optional add-on constraint clauses for the
// structured-role strategy. Unknown names are skipped.
var specializationClauses = map[string]string{
	"academic": "Use precise legal terminology and cite primary sources by article number and full case name.",
	"beginner": "Avoid jargon entirely; if a technical term is unavoidable, define it in the same sentence.",
	"policy":   "Frame every implication for current policy debates and name the institutions it touches.",
}

// -----------------------------------------------------------------------------
// Lookup helpers with fallbacks
// -----------------------------------------------------------------------------

func audienceFor(c datatypes.Context) string {
	if a, ok := audienceByContext[c]; ok {
		return a
	}
	return defaultAudience
}

func proficiencyNoteFor(p datatypes.Proficiency) string {
	if n, ok := proficiencyNotes[p]; ok {
		return n
	}
	return proficiencyNotes[datatypes.ProficiencyIntermediate]
}

func reasoningDepthFor(l datatypes.ComplexityLevel) string {
	if r, ok := reasoningDepth[l]; ok {
		return r
	}
	return reasoningDepth[datatypes.ComplexityModerate]
}

func outputFormatFor(l datatypes.ComplexityLevel) string {
	if f, ok := outputFormat[l]; ok {
		return f
	}
	return outputFormat[datatypes.ComplexityModerate]
}

func auxiliaryGuidanceFor(p datatypes.Proficiency) string {
	if g, ok := auxiliaryGuidance[p]; ok {
		return g
	}
	return auxiliaryGuidance[datatypes.ProficiencyIntermediate]
}

// renderRole executes the role template for a request.
func renderRole(c datatypes.Context, p datatypes.Proficiency) string {
	var b strings.Builder
	// The template is static and the data is plain strings; execution
	// cannot fail at runtime.
	_ = roleTemplate.Execute(&b, roleData{
		Audience:        audienceFor(c),
		ProficiencyNote: proficiencyNoteFor(p),
	})
	return b.String()
}

// renderEvidence formats the snippet list, or "" when there is none.
func renderEvidence(snippets []datatypes.Snippet) string {
	if len(snippets) == 0 {
		return ""
	}
	var b strings.Builder
	_ = evidenceTemplate.Execute(&b, evidenceData{Snippets: snippets})
	return b.String()
}
