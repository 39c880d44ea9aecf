// Package observability provides formatted output utilities for the CLI's
// text mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/interview-partner/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for text mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes up to limit items as bullets, noting how many were left out.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintATSResult outputs the resume score with its category breakdown.
func (p *Printer) PrintATSResult(result *types.ATSResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total:  %d/100 (%s)\n", result.TotalScore, result.Grade))
	sb.WriteString(fmt.Sprintf("Words:  %d\n\n", result.WordCount))

	for _, c := range result.Categories {
		sb.WriteString(fmt.Sprintf("%-16s %3d/%-3d %s\n", c.Name, c.Score, c.MaxScore, bar(c.Score, c.MaxScore, 20)))
	}
	sb.WriteString("\n")

	if len(result.MatchedSkills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills: %s\n\n", truncate(strings.Join(result.MatchedSkills, ", "), 45)))
	}
	writeList(&sb, "Suggestions", result.Suggestions, maxItemsToShow)

	p.printBox("ATS RESUME SCORE", strings.TrimRight(sb.String(), "\n"))
}

// PrintSpeechAnalysis outputs the speech metrics and derived scores.
func (p *Printer) PrintSpeechAnalysis(a *types.SpeechAnalysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Words: %d   Sentences: %d\n", a.WordCount, a.SentenceCount))
	if a.WordsPerMinute > 0 {
		sb.WriteString(fmt.Sprintf("Pace:  %.0f words/min\n", a.WordsPerMinute))
	}
	sb.WriteString(fmt.Sprintf("Fillers: %d (%.1f%%)   Hedges: %d   Assertive: %d\n\n",
		a.FillerCount, a.FillerRatio*100, a.HedgeCount, a.AssertiveCount))

	b := a.Breakdown
	for _, row := range []struct {
		name  string
		score int
	}{
		{"Communication", b.Communication},
		{"Confidence", b.Confidence},
		{"Technical", b.Technical},
		{"Pace", b.Pace},
		{"Filler words", b.FillerWords},
		{"Overall", b.Overall},
	} {
		sb.WriteString(fmt.Sprintf("%-14s %3d %s\n", row.name, row.score, bar(row.score, 100, 20)))
	}
	sb.WriteString("\n")

	if len(a.FillersFound) > 0 {
		fillers := make([]string, 0, len(a.FillersFound))
		for word, n := range a.FillersFound {
			fillers = append(fillers, fmt.Sprintf("%s×%d", word, n))
		}
		sort.Strings(fillers)
		sb.WriteString(fmt.Sprintf("Fillers used: %s\n\n", strings.Join(fillers, ", ")))
	}
	writeList(&sb, "Feedback", a.Feedback, maxItemsToShow)

	p.printBox("SPEECH ANALYSIS", strings.TrimRight(sb.String(), "\n"))
}

// bar draws score out of total as a fixed-width bar.
func bar(score, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := min(max(score*width/total, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
