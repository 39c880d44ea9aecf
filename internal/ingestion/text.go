// Package ingestion turns uploaded, pasted or form-built resumes into clean plain text.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	multiSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankRuns  = regexp.MustCompile(`\n\n\n+`)
)

// CleanText cleans and normalizes text content while preserving structure:
// line endings become LF, runs of spaces collapse, bullets and headings keep
// their shape and at most one blank line separates paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u200b", "")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = blankRuns.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving structure
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	// Markdown headings lose their indentation
	if strings.HasPrefix(trimmed, "#") {
		return multiSpace.ReplaceAllString(trimmed, " ")
	}

	indent := len(line) - len(trimmed)
	content := multiSpace.ReplaceAllString(trimmed, " ")
	if isBulletLine(trimmed) {
		content = normalizeBullet(content)
	}
	if indent > 0 {
		return strings.Repeat(" ", indent) + content
	}
	return content
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	for _, b := range []string{"- ", "* ", "• ", "· ", "▪ ", "◦ "} {
		if strings.HasPrefix(trimmed, b) {
			return true
		}
	}
	return false
}

// normalizeBullet rewrites typographic bullets to "- ".
func normalizeBullet(line string) string {
	for _, b := range []string{"• ", "· ", "▪ ", "◦ "} {
		if strings.HasPrefix(line, b) {
			return "- " + strings.TrimPrefix(line, b)
		}
	}
	return line
}
