package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	input := "# Jane Doe\n\n## Experience\n\n### Senior Engineer"
	assert.Equal(t, "# Jane Doe\n\n## Experience\n\n### Senior Engineer", CleanText(input))
}

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "Experience\n- Built APIs\n* Led migrations\n• Reduced latency by 40%"
	expected := "Experience\n- Built APIs\n* Led migrations\n- Reduced latency by 40%"
	assert.Equal(t, expected, CleanText(input))
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	input := "Built    services\twith   Go"
	assert.Equal(t, "Built services with Go", CleanText(input))
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	input := "Summary\n\n\n\n\nExperience"
	assert.Equal(t, "Summary\n\nExperience", CleanText(input))
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	assert.Equal(t, "line1\nline2\nline3", CleanText("line1\r\nline2\rline3"))
}

func TestCleanText_DeterministicOutput(t *testing.T) {
	input := "  Jane Doe  \r\n\r\n\r\n• Go   developer  "
	first := CleanText(input)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, CleanText(input))
	}
}

func TestCleanText_EmptyInput(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("   \n\t\n  "))
}

func TestCleanText_PreserveIndentation(t *testing.T) {
	input := "Projects\n  - nested   item"
	assert.Equal(t, "Projects\n  - nested item", CleanText(input))
}

func TestCleanText_StripsZeroWidthSpaces(t *testing.T) {
	assert.Equal(t, "Kubernetes", CleanText("Kuber\u200bnetes"))
}
