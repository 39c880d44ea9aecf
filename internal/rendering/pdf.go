package rendering

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// DefaultPDFTimeout bounds a single PDF render.
const DefaultPDFTimeout = 30 * time.Second

// A4 paper size in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// PDFRenderer prints HTML to PDF.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromePDF renders PDFs with a headless Chrome/Chromium instance.
// Requires Chrome/Chromium to be installed on the system.
type ChromePDF struct {
	// ExecPath overrides the browser binary; empty uses chromedp's lookup.
	ExecPath string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewChromePDF creates a renderer. A zero timeout falls back to DefaultPDFTimeout.
func NewChromePDF(execPath string, timeout time.Duration, logger *zap.Logger) *ChromePDF {
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromePDF{ExecPath: execPath, Timeout: timeout, Logger: logger}
}

// RenderPDF loads html into a blank page and prints it.
func (c *ChromePDF) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, c.Timeout)
	defer cancel()

	start := time.Now()
	stage := StageLaunch
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			stage = StageLoad
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			stage = StagePrint
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		c.Logger.Warn("report pdf rendering failed", zap.String("stage", stage), zap.Error(err))
		return nil, &PDFError{Stage: stage, Cause: err}
	}

	c.Logger.Debug("rendered report pdf",
		zap.Int("bytes", len(pdf)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return pdf, nil
}
