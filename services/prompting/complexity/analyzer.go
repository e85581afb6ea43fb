// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package complexity classifies a query's linguistic and domain complexity.
//
// The analyzer scores a raw query on length, constitutional-domain
// terminology, and question form, then buckets the score into simple,
// moderate, or complex. The parameter optimizer and the strategy builder
// both consume the resulting report, so it is computed once per request
// and shared.
package complexity

import (
	"regexp"
	"strings"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// Factor strings reported in Complexity.Factors.
const (
	FactorLongQuery    = "long query"
	FactorMediumQuery  = "medium-length query"
	FactorDomainTerms  = "domain terminology"
	FactorMultiConcept = "multi-concept"
	FactorAnalytical   = "analytical question"
	FactorCreative     = "creative elements"
)

// defaultDomainTerms is the constitutional-law lexicon. Matching is by
// case-insensitive substring, so "constitution" also fires inside
// "constitutional" and "constitutionally".
var defaultDomainTerms = []string{
	// Core documents and doctrine
	"constitution",
	"constitutional",
	"amendment",
	"doctrine",
	"preamble",

	// Institutions and powers
	"jurisdiction",
	"judicial",
	"legislature",
	"judiciary",
	"federalism",
	"sovereignty",

	// Rights vocabulary
	"fundamental",
	"directive principle",
	"due process",
}

// defaultConjunctionTerms signal multi-concept queries. These are matched
// as whole words so "and" does not fire inside "understand".
var defaultConjunctionTerms = []string{
	"and",
	"or",
	"versus",
	"vs",
	"compared",
	"difference",
}

// defaultCreativeTerms signal creative intent. Matched by substring so
// "designing" and "created" also fire.
var defaultCreativeTerms = []string{
	"imagine",
	"create",
	"design",
	"innovate",
	"brainstorm",
}

// defaultAnalyticalOpeners are question words that mark an analytical
// rather than factual question when they open the query.
var defaultAnalyticalOpeners = []string{
	"why",
	"how",
}

// Config holds the analyzer's lexicons and thresholds.
//
// The numeric values are heuristics carried over from production tuning,
// exposed here so deployments can adjust them without code changes.
type Config struct {
	// DomainTerms is the domain lexicon, matched case-insensitively by
	// substring.
	DomainTerms []string

	// ConjunctionTerms mark multi-concept queries, matched as whole words.
	ConjunctionTerms []string

	// CreativeTerms mark creative intent, matched by substring.
	CreativeTerms []string

	// AnalyticalOpeners are leading question words that add one point.
	AnalyticalOpeners []string

	// LongQueryWords is the word count above which a query scores +2.
	LongQueryWords int

	// MediumQueryWords is the word count above which a query scores +1
	// when it is not already long.
	MediumQueryWords int

	// DomainScoreCap bounds the points contributed by domain-term hits.
	DomainScoreCap int

	// SimpleMax is the highest score still bucketed as simple.
	SimpleMax int

	// ModerateMax is the highest score still bucketed as moderate.
	ModerateMax int
}

// DefaultConfig returns the production lexicons and thresholds.
func DefaultConfig() Config {
	return Config{
		DomainTerms:       defaultDomainTerms,
		ConjunctionTerms:  defaultConjunctionTerms,
		CreativeTerms:     defaultCreativeTerms,
		AnalyticalOpeners: defaultAnalyticalOpeners,
		LongQueryWords:    15,
		MediumQueryWords:  8,
		DomainScoreCap:    2,
		SimpleMax:         1,
		ModerateMax:       3,
	}
}

// Analyzer classifies queries. Construct once and reuse.
//
// Thread Safety: safe for concurrent use after initialization.
type Analyzer struct {
	cfg Config

	// conjunctionPattern is the compiled whole-word matcher for
	// ConjunctionTerms.
	conjunctionPattern *regexp.Regexp
}

// NewAnalyzer creates an analyzer. A nil config uses DefaultConfig.
//
// Description:
//
//	Compiles the conjunction lexicon into a single case-insensitive
//	word-boundary regex, mirroring how wide-lexicon matchers are built
//	elsewhere in this codebase. The other lexicons use substring checks
//	and need no compilation.
//
// Outputs:
//
//	*Analyzer - Ready for concurrent use.
func NewAnalyzer(config *Config) *Analyzer {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}

	escaped := make([]string, len(cfg.ConjunctionTerms))
	for i, term := range cfg.ConjunctionTerms {
		escaped[i] = regexp.QuoteMeta(term)
	}
	combined := `(?i)\b(` + strings.Join(escaped, "|") + `)\b`

	return &Analyzer{
		cfg:                cfg,
		conjunctionPattern: regexp.MustCompile(combined),
	}
}

// Analyze scores a raw query and returns its complexity report.
//
// Description:
//
//	Pure function over the query text: tokenizes on whitespace for the
//	word count, scans the domain, conjunction, and creative lexicons,
//	and checks the opening question word. Same input always yields the
//	same report. No I/O, no side effects, never panics.
//
//	Scoring: +2 for a long query (else +1 for a medium one), up to
//	DomainScoreCap for domain-term hits, +1 for an analytical opener.
//	Conjunction markers and creative terms contribute factors but no
//	points. An empty or whitespace-only query scores 0 with no factors.
//
// Inputs:
//
//	query - Raw query text. Empty input is fine.
//
// Outputs:
//
//	datatypes.Complexity - Level, score, contributing factors, and the
//	creative-intent flag.
//
// Example:
//
//	a := NewAnalyzer(nil)
//	c := a.Analyze("What is the Constitution?")
//	// c.Level == datatypes.ComplexitySimple
//
// Thread Safety: safe for concurrent use.
func (a *Analyzer) Analyze(query string) datatypes.Complexity {
	words := strings.Fields(query)
	lower := strings.ToLower(query)

	score := 0
	factors := []string{}

	// Length contribution.
	switch {
	case len(words) > a.cfg.LongQueryWords:
		score += 2
		factors = append(factors, FactorLongQuery)
	case len(words) > a.cfg.MediumQueryWords:
		score++
		factors = append(factors, FactorMediumQuery)
	}

	// Domain terminology, capped.
	domainHits := 0
	for _, term := range a.cfg.DomainTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			domainHits++
		}
	}
	if domainHits > 0 {
		if domainHits > a.cfg.DomainScoreCap {
			domainHits = a.cfg.DomainScoreCap
		}
		score += domainHits
		factors = append(factors, FactorDomainTerms)
	}

	// Conjunction markers flag multi-concept queries without scoring.
	if len(words) > 0 && a.conjunctionPattern.MatchString(query) {
		factors = append(factors, FactorMultiConcept)
	}

	// Analytical openers: "why"/"how" questions need reasoning, while
	// "what"/"which" questions are factual lookups.
	if first := firstWord(words); first != "" {
		for _, opener := range a.cfg.AnalyticalOpeners {
			if first == opener {
				score++
				factors = append(factors, FactorAnalytical)
				break
			}
		}
	}

	// Creative intent is independent of the score.
	creative := false
	for _, term := range a.cfg.CreativeTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			creative = true
			factors = append(factors, FactorCreative)
			break
		}
	}

	return datatypes.Complexity{
		Level:               a.levelFor(score),
		Score:               score,
		Factors:             factors,
		HasCreativeElements: creative,
	}
}

// levelFor buckets a score into a complexity level.
func (a *Analyzer) levelFor(score int) datatypes.ComplexityLevel {
	switch {
	case score <= a.cfg.SimpleMax:
		return datatypes.ComplexitySimple
	case score <= a.cfg.ModerateMax:
		return datatypes.ComplexityModerate
	default:
		return datatypes.ComplexityComplex
	}
}

// firstWord returns the first token lowercased with trailing punctuation
// stripped, or "" for an empty query.
func firstWord(words []string) string {
	if len(words) == 0 {
		return ""
	}
	return strings.TrimFunc(strings.ToLower(words[0]), func(r rune) bool {
		return r < 'a' || r > 'z'
	})
}
