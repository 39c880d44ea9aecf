package llm

import (
	"fmt"
	"strings"
)

// JSONPrompt describes a structured-output request: instructions for the
// model, the fields the JSON reply must carry and the context it works from.
type JSONPrompt struct {
	Instructions string
	Array        bool // reply is an array of objects with Fields
	Fields       []PromptField
	Context      []ContextBlock
	Rules        []string
}

// PromptField is one field in the expected JSON output.
type PromptField struct {
	Name        string
	Type        string // "string", "integer 0-100", "[]string", ...
	Description string
}

// ContextBlock is one labelled block of input text.
type ContextBlock struct {
	Label string
	Text  string
}

// Build renders the prompt.
func (p JSONPrompt) Build() string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(p.Instructions))
	sb.WriteString("\n\n")

	for _, c := range p.Context {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		sb.WriteString(c.Label)
		sb.WriteString(":\n\"\"\"\n")
		sb.WriteString(text)
		sb.WriteString("\n\"\"\"\n\n")
	}

	open, closing := "{", "}"
	if p.Array {
		sb.WriteString("Return ONLY a valid JSON array whose elements match this structure:\n")
	} else {
		sb.WriteString("Return ONLY valid JSON matching this exact structure:\n")
	}
	sb.WriteString(open + "\n")
	for i, field := range p.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		sb.WriteString(fmt.Sprintf("  %q: %s", field.Name, typeHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(p.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(closing + "\n\n")

	sb.WriteString("IMPORTANT:\n")
	for _, rule := range p.Rules {
		sb.WriteString("- ")
		sb.WriteString(rule)
		sb.WriteString("\n")
	}
	sb.WriteString("- Return ONLY the JSON, no markdown, no explanation, no code blocks.\n")

	return sb.String()
}
