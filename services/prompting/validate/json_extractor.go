// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package validate

import (
	"encoding/json"
	"errors"
	"strings"
)

// ExtractJSON pulls the first complete JSON object out of raw model
// output.
//
// Description:
//
//	Model output rarely arrives clean: it comes wrapped in markdown
//	fences, preceded by "Here is my analysis:", or followed by sign-off
//	text. This scans for a brace-balanced candidate object, tracking
//	string and escape state so braces inside string values do not
//	confuse the match, and returns the first candidate that is valid
//	JSON. Fences never need stripping because they contain no braces.
//
// Inputs:
//
//	raw - Raw backend output.
//
// Outputs:
//
//	[]byte - The extracted JSON object, ready for json.Unmarshal.
//	error  - Non-nil when the input holds no valid JSON object.
func ExtractJSON(raw string) ([]byte, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, errors.New("empty input")
	}

	from := 0
	for {
		rel := strings.IndexByte(s[from:], '{')
		if rel < 0 {
			return nil, errors.New("no JSON object found")
		}
		start := from + rel

		end, ok := matchObject(s, start)
		if ok {
			candidate := s[start : end+1]
			if json.Valid([]byte(candidate)) {
				return []byte(candidate), nil
			}
			// Balanced but not valid JSON; try the next opening brace.
		}
		from = start + 1
	}
}

// matchObject returns the index of the brace closing the object opened at
// start, honoring JSON string and escape rules. ok is false when the
// object never closes.
func matchObject(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return i, true
				}
			}
		}
	}
	return 0, false
}
