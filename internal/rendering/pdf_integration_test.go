//go:build integration

package rendering

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromePDF_RenderPDF(t *testing.T) {
	html, err := RenderReportHTML(sampleReport())
	require.NoError(t, err)

	renderer := NewChromePDF(os.Getenv("CHROME_PATH"), 0, nil)
	pdf, err := renderer.RenderPDF(context.Background(), html)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
