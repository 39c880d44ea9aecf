package llm

import (
	"testing"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"overall_score\": 80}\n```",
			expected: `{"overall_score": 80}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"overall_score\": 80}\n```",
			expected: `{"overall_score": 80}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n[{\"id\": 1}]\n```",
			expected: `[{"id": 1}]`,
		},
		{
			name:     "plain JSON",
			input:    `{"question": "Why Go?"}`,
			expected: `{"question": "Why Go?"}`,
		},
		{
			name:     "preamble before object",
			input:    "Here is my evaluation of the candidate:\n{\"overall_score\": 72, \"strengths\": [\"clear\"]}",
			expected: `{"overall_score": 72, "strengths": ["clear"]}`,
		},
		{
			name:     "preamble before array",
			input:    "Sure! Questions follow.\n\n[{\"id\": 1, \"question\": \"Tell me about yourself.\"}]",
			expected: `[{"id": 1, "question": "Tell me about yourself."}]`,
		},
		{
			name:     "trailing chatter",
			input:    "{\"recommendation\": \"Hire\"}\n\nGood luck with the interview!",
			expected: `{"recommendation": "Hire"}`,
		},
		{
			name:     "escaped quotes and braces in strings",
			input:    "Result: {\"detailed_feedback\": \"She said \\\"use {braces}\\\"\"}",
			expected: `{"detailed_feedback": "She said \"use {braces}\""}`,
		},
		{
			name:     "no json at all",
			input:    "  I cannot help with that.  ",
			expected: "I cannot help with that.",
		},
		{
			name:     "unbalanced json left alone",
			input:    `{"overall_score": 80`,
			expected: `{"overall_score": 80`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple object", `{"key": "value"}`, `{"key": "value"}`},
		{"nested objects", `{"scores": {"confidence": 70}}`, `{"scores": {"confidence": 70}}`},
		{"object with array", `{"items": [1, 2, 3]}`, `{"items": [1, 2, 3]}`},
		{"object with trailing text", `{"key": "value"} and more`, `{"key": "value"}`},
		{"string with braces inside", `{"template": "Hello {name}!"}`, `{"template": "Hello {name}!"}`},
		{"empty input", "", ""},
		{"not starting with brace", "not json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractJSONObject(tt.input)
			if result != tt.expected {
				t.Errorf("ExtractJSONObject() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple array", `["a", "b", "c"]`, `["a", "b", "c"]`},
		{"nested arrays", `[[1, 2], [3, 4]]`, `[[1, 2], [3, 4]]`},
		{"array of objects", `[{"id": 1}, {"id": 2}]`, `[{"id": 1}, {"id": 2}]`},
		{"array with trailing text", `[1, 2, 3] extra stuff`, `[1, 2, 3]`},
		{"bracket inside string", `["a]b", "c"]`, `["a]b", "c"]`},
		{"empty input", "", ""},
		{"not starting with bracket", "not array", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractJSONArray(tt.input)
			if result != tt.expected {
				t.Errorf("ExtractJSONArray() = %q, want %q", result, tt.expected)
			}
		})
	}
}
