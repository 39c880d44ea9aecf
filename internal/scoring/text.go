// Package scoring holds the deterministic heuristics behind the practice tool:
// speech analysis of transcribed answers and ATS-style resume scoring.
package scoring

import (
	"math"
	"strings"
	"unicode"
)

// tokenize lowercases text and splits it into words with surrounding punctuation stripped.
// Inner apostrophes and symbols such as "c++" or "node.js" survive.
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// splitSentences returns the non-empty sentences of text, split on terminal punctuation.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	sentences := parts[:0]
	for _, p := range parts {
		if len(tokenize(p)) > 0 {
			sentences = append(sentences, strings.TrimSpace(p))
		}
	}
	return sentences
}

// countPhrase counts non-overlapping occurrences of a space separated phrase in a token stream.
func countPhrase(words []string, phrase string) int {
	parts := strings.Fields(phrase)
	if len(parts) == 0 || len(parts) > len(words) {
		return 0
	}
	count := 0
	for i := 0; i+len(parts) <= len(words); {
		match := true
		for j, p := range parts {
			if words[i+j] != p {
				match = false
				break
			}
		}
		if match {
			count++
			i += len(parts)
			continue
		}
		i++
	}
	return count
}

// clamp bounds v to [0, 100] and rounds it.
func clamp(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

func capAt(v, limit float64) float64 {
	return math.Min(v, limit)
}
