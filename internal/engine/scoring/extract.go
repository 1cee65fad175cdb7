// Package scoring extracts answers and reasoning from model output and scores them
// against ground truth.
package scoring

import (
	"strings"
	"unicode"
)

// Reasoning span markers emitted by the reasoning model.
const (
	ThinkStart     = "<think>"
	ThinkEnd       = "</think>"
	EndOfThinking  = "<｜end▁of▁thinking｜>"
	boxedOpen      = `\boxed{`
	redactedSymbol = '.'
)

// ExtractFinalAnswer returns the brace-balanced content of the last top-level
// \boxed{...} in text. A \boxed nested inside another one is part of its content.
// It reports false when there is no \boxed{ or the last one never balances.
func ExtractFinalAnswer(text string) (string, bool) {
	answer, found := "", false
	for i := 0; i < len(text); {
		j := strings.Index(text[i:], boxedOpen)
		if j == -1 {
			break
		}
		contentStart := i + j + len(boxedOpen)
		end := closingBrace(text, contentStart)
		if end == -1 {
			return "", false
		}
		answer, found = text[contentStart:end], true
		i = end + 1
	}
	return answer, found
}

// closingBrace returns the index of the '}' balancing an already opened '{' whose
// content starts at from, or -1.
func closingBrace(text string, from int) int {
	depth := 1
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ExtractReasoning returns the text between the first <think> and the first </think>.
// When </think> is absent the end-of-thinking token closes the span instead.
// It reports false when either marker is missing.
func ExtractReasoning(text string) (string, bool) {
	start := strings.Index(text, ThinkStart)
	if start == -1 {
		return "", false
	}

	end := strings.Index(text, ThinkEnd)
	if end == -1 {
		end = strings.Index(text, EndOfThinking)
	}
	if end == -1 {
		return "", false
	}

	contentStart := start + len(ThinkStart)
	if end < contentStart {
		return "", true
	}
	return text[contentStart:end], true
}

// Redact replaces every non-whitespace rune with a dot, keeping whitespace in place.
func Redact(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return r
		}
		return redactedSymbol
	}, text)
}

// FindBetween returns the text between the last occurrence of left and the last
// occurrence of right. A missing delimiter anchors to the start or end of s.
func FindBetween(left, right, s string) string {
	start := 0
	if i := strings.LastIndex(s, left); i != -1 {
		start = i + len(left)
	}
	end := len(s)
	if i := strings.LastIndex(s, right); i != -1 {
		end = i
	}
	if end < start {
		return ""
	}
	return s[start:end]
}
