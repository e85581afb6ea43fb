// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"context"
	"sync"
)

// DefaultMockText is the canned output a MockClient returns when no
// script is loaded. It satisfies the debate output contract, so a
// mock-backed server exercises the full validation path.
const DefaultMockText = `{
  "stance": "The basic structure doctrine is a legitimate judicial check on the amending power.",
  "counterStance": "An unelected judiciary should not veto amendments passed by elected supermajorities.",
  "citations": ["Article 368", "Kesavananda Bharati v. State of Kerala (1973)"],
  "quiz": [{"question": "Which case established the basic structure doctrine?", "answer": "Kesavananda Bharati v. State of Kerala (1973)"}]
}`

// MockResponse is one scripted outcome for a MockClient call.
type MockResponse struct {
	Text string
	Err  error
}

// MockCall records the arguments of one MockClient call.
type MockCall struct {
	// Prompt is set for Generate calls, Messages for Chat calls.
	Prompt   string
	Messages []Message
	Params   GenerationParams
}

// MockClient is a scripted client for testing. Responses are served
// from Script in order, with the last entry repeating once the script
// runs out; an empty script serves DefaultMockText forever.
type MockClient struct {
	mu     sync.Mutex
	Script []MockResponse
	Calls  []MockCall
	cursor int
}

// NewMockClient creates a mock that returns the given texts in order.
func NewMockClient(texts ...string) *MockClient {
	m := &MockClient{}
	for _, text := range texts {
		m.Script = append(m.Script, MockResponse{Text: text})
	}
	return m
}

func (m *MockClient) next() MockResponse {
	if len(m.Script) == 0 {
		return MockResponse{Text: DefaultMockText}
	}
	resp := m.Script[m.cursor]
	if m.cursor < len(m.Script)-1 {
		m.cursor++
	}
	return resp
}

// Generate implements the Client interface.
func (m *MockClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Prompt: prompt, Params: params})
	resp := m.next()
	return resp.Text, resp.Err
}

// Chat implements the Client interface.
func (m *MockClient) Chat(ctx context.Context, messages []Message, params GenerationParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Messages: messages, Params: params})
	resp := m.next()
	return resp.Text, resp.Err
}

// CallCount returns the number of recorded calls.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent recorded call, or a zero value when
// nothing has been called yet.
func (m *MockClient) LastCall() MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Calls) == 0 {
		return MockCall{}
	}
	return m.Calls[len(m.Calls)-1]
}
