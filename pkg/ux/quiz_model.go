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
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Quiz Session
// =============================================================================

// QuizCards extracts the question cards from a validated quiz result.
// Entries missing a question or answer string are skipped.
func QuizCards(result map[string]any) []QuizCard {
	return resultQuizCards(result, "questions")
}

// QuizResult summarizes one interactive quiz session.
type QuizResult struct {
	// Total is the number of cards in the deck.
	Total int

	// Answered is the number of cards the user graded.
	Answered int

	// Correct is the number of cards the user marked right.
	Correct int

	// Cancelled is true when the user quit before the last card.
	Cancelled bool
}

// RunQuiz drills the given cards as interactive flash cards.
//
// # Description
//
// For each card the user types an attempt, sees the model answer, and
// self-grades with y/n. The session renders on stderr so stdout stays
// clean for redirection. The caller decides whether the terminal is
// interactive; see IsInteractive.
//
// # Inputs
//
//   - cards: The question/answer deck. Must be non-empty.
//
// # Outputs
//
//   - QuizResult: Score for the session, partial if cancelled.
//   - error: Terminal setup or event loop failure.
func RunQuiz(cards []QuizCard) (QuizResult, error) {
	if len(cards) == 0 {
		return QuizResult{}, fmt.Errorf("no quiz cards to run")
	}

	m := newQuizModel(cards)

	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return QuizResult{}, err
	}

	// Defensive type assertion - finalModel should never be nil when err is nil,
	// but we check anyway to prevent potential panic
	result, ok := finalModel.(quizModel)
	if !ok {
		return QuizResult{}, fmt.Errorf("unexpected model type from bubbletea: %T", finalModel)
	}

	return result.summary(), nil
}

// =============================================================================
// Model
// =============================================================================

// quizPhase tracks where the session is within the current card.
type quizPhase int

const (
	// quizAsking is the answer-entry state.
	quizAsking quizPhase = iota

	// quizRevealed shows the model answer and waits for a self-grade.
	quizRevealed
)

// quizModel is the bubbletea model for the flash-card loop.
type quizModel struct {
	cards []QuizCard
	input textinput.Model

	// Current navigation state
	index int
	phase quizPhase

	// User answers, one slot per card
	responses []string

	// Running score
	graded  int
	correct int

	// Terminal width for wrapping, 0 until the first WindowSizeMsg
	width int

	// State flags
	quitting  bool
	cancelled bool
}

// newQuizModel creates a quiz model over the given cards.
func newQuizModel(cards []QuizCard) quizModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 80

	return quizModel{
		cards:     cards,
		input:     ti,
		responses: make([]string, len(cards)),
	}
}

// Init implements tea.Model.
func (m quizModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m quizModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.phase == quizRevealed {
			return m.handleGradeKey(msg)
		}

		switch msg.Type {
		case tea.KeyEnter:
			m.responses[m.index] = strings.TrimSpace(m.input.Value())
			m.phase = quizRevealed
			m.input.Blur()
			return m, nil

		case tea.KeyCtrlC:
			m.cancelled = true
			m.quitting = true
			return m, tea.Quit
		}
	}

	// Handle other input
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleGradeKey processes the self-grade prompt after a reveal.
func (m quizModel) handleGradeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.graded++
		m.correct++
		return m.advance()

	case "n", "N":
		m.graded++
		return m.advance()

	case "q", "Q", "esc", "ctrl+c":
		m.cancelled = true
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// advance moves to the next card, or ends the session after the last one.
func (m *quizModel) advance() (tea.Model, tea.Cmd) {
	if m.index+1 >= len(m.cards) {
		m.quitting = true
		return *m, tea.Quit
	}

	m.index++
	m.phase = quizAsking
	m.input.SetValue("")
	m.input.Focus()
	return *m, textinput.Blink
}

// summary builds the session result from the model state.
func (m quizModel) summary() QuizResult {
	return QuizResult{
		Total:     len(m.cards),
		Answered:  m.graded,
		Correct:   m.correct,
		Cancelled: m.cancelled,
	}
}

// =============================================================================
// View
// =============================================================================

// View implements tea.Model.
func (m quizModel) View() string {
	// The command prints the persistent summary after the program
	// exits, so leave nothing behind on quit.
	if m.quitting {
		return ""
	}

	card := m.cards[m.index]

	var b strings.Builder
	b.WriteString(Styles.Subtitle.Render(fmt.Sprintf("Question %d of %d", m.index+1, len(m.cards))))
	b.WriteString("\n\n")
	b.WriteString(m.wrap(Styles.Bold.Render(card.Question)))
	b.WriteString("\n\n")

	switch m.phase {
	case quizAsking:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(Styles.Muted.Render("enter to check · ctrl+c to quit"))

	case quizRevealed:
		response := m.responses[m.index]
		if response == "" {
			response = Styles.Muted.Render("(no answer)")
		}
		b.WriteString(Styles.Muted.Render("Your answer:  "))
		b.WriteString(response)
		b.WriteString("\n")
		b.WriteString(Styles.Muted.Render("Model answer: "))
		b.WriteString(m.wrap(Styles.Success.Render(card.Answer)))
		b.WriteString("\n\n")
		b.WriteString(Styles.Highlight.Render("Did you get it right?"))
		b.WriteString(" ")
		b.WriteString(Styles.Muted.Render("y/n · q to quit"))
	}

	b.WriteString("\n")
	return b.String()
}

// wrap bounds text to the terminal width once it is known.
func (m quizModel) wrap(text string) string {
	if m.width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(m.width - 2).Render(text)
}
