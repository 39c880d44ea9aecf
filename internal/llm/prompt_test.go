package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONPrompt_Build(t *testing.T) {
	p := JSONPrompt{
		Instructions: "Evaluate the candidate's answer.",
		Fields: []PromptField{
			{Name: "overall_score", Type: "integer 0-100"},
			{Name: "strengths", Type: "[]string", Description: "what went well"},
		},
		Context: []ContextBlock{
			{Label: "Question", Text: "What is a goroutine?"},
			{Label: "Resume", Text: "   "},
		},
		Rules: []string{"Be specific."},
	}

	out := p.Build()
	assert.True(t, strings.HasPrefix(out, "Evaluate the candidate's answer."))
	assert.Contains(t, out, "Question:\n\"\"\"\nWhat is a goroutine?\n\"\"\"")
	assert.NotContains(t, out, "Resume:", "blank context blocks are skipped")
	assert.Contains(t, out, `"overall_score": integer 0-100,`)
	assert.Contains(t, out, `"strengths": []string // what went well`)
	assert.Contains(t, out, "- Be specific.")
	assert.Contains(t, out, "valid JSON matching this exact structure")
}

func TestJSONPrompt_BuildArray(t *testing.T) {
	out := JSONPrompt{Instructions: "Write questions.", Array: true, Fields: []PromptField{{Name: "question"}}}.Build()
	assert.Contains(t, out, "JSON array")
	assert.Contains(t, out, `"question": string`)
}
