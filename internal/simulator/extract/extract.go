// Package extract locates and parses the JSON payload embedded in free-form
// model output.
package extract

import (
	"bytes"
	"encoding/json"
	"strings"
)

type Shape int

const (
	Object Shape = iota
	Array
)

func (s Shape) String() string {
	if s == Array {
		return "array"
	}
	return "object"
}

func (s Shape) delims() (openCh, closeCh byte) {
	if s == Array {
		return '[', ']'
	}
	return '{', '}'
}

// StripFences trims the text and removes a leading ``` fence (with its language tag)
// and a trailing ``` fence. Text without a leading fence is returned trimmed.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimLeft(s[3:], "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Extract returns the JSON value of the given shape embedded in raw.
//
// The primary candidate is the outer-greedy span from the first opening delimiter
// to the last closing one. If that span does not parse (for example prose after the
// payload contains stray braces), every balanced span is tried and the longest one
// that parses wins, so a small fragment quoted in leading prose cannot shadow the
// payload.
func Extract(raw string, shape Shape) (json.RawMessage, error) {
	s := StripFences(raw)
	openCh, closeCh := shape.delims()

	start := strings.IndexByte(s, openCh)
	end := strings.LastIndexByte(s, closeCh)
	if start < 0 || end < start {
		return nil, &ExtractionError{Shape: shape, Preview: preview(s)}
	}

	outer := s[start : end+1]
	firstErr := validate(outer)
	if firstErr == nil {
		return compact(outer), nil
	}

	best := ""
	for i := start; i < len(s); {
		span, ok := balancedSpan(s, i, openCh, closeCh)
		if ok && len(span) > len(best) && validate(span) == nil {
			best = span
		}
		next := strings.IndexByte(s[i+1:], openCh)
		if next < 0 {
			break
		}
		i += next + 1
	}
	if best != "" {
		return compact(best), nil
	}
	return nil, &MalformedPayloadError{Shape: shape, Span: preview(outer), Err: firstErr}
}

// DecodeInto extracts a payload of the given shape and unmarshals it into T.
func DecodeInto[T any](raw string, shape Shape) (T, error) {
	var out T
	payload, err := Extract(raw, shape)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, &MalformedPayloadError{Shape: shape, Span: preview(string(payload)), Err: err}
	}
	return out, nil
}

func validate(span string) error {
	var v any
	return json.Unmarshal([]byte(span), &v)
}

func compact(span string) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(span)); err != nil {
		return json.RawMessage(span)
	}
	return json.RawMessage(buf.Bytes())
}

// balancedSpan scans from s[start] (which must be openCh) to the matching closeCh,
// honoring JSON string literals and escapes. Nested delimiters of either kind are
// tracked on a stack; a mismatch ends the scan.
func balancedSpan(s string, start int, openCh, closeCh byte) (string, bool) {
	if start >= len(s) || s[start] != openCh {
		return "", false
	}
	stack := make([]byte, 0, 8)
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return "", false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				if c != closeCh {
					return "", false
				}
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
