// Package pdf renders uploaded receipt images into a single PDF document
// using Chrome DevTools Protocol.
package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	ledgerapp "github.com/bahikhata/backend/internal/application/ledger"
	"go.uber.org/zap"
)

const (
	defaultRenderTimeout = 30 * time.Second

	// A4 in inches
	paperWidth  = 8.27
	paperHeight = 11.69
	pageMargin  = 0.4
)

// Ensure ChromedpRenderer implements the application port
var _ ledgerapp.PDFRenderer = (*ChromedpRenderer)(nil)

// Config contains configuration for the chromedp renderer
type Config struct {
	// Timeout for one render operation
	Timeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional).
	// If empty, chromedp launches a local browser.
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpRenderer renders receipt images to a PDF via headless Chrome.
type ChromedpRenderer struct {
	config      *Config
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a new chromedp-based renderer
func NewChromedpRenderer(config *Config) (*ChromedpRenderer, error) {
	if config == nil {
		config = &Config{}
	}
	if config.Timeout == 0 {
		config.Timeout = defaultRenderTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ChromedpRenderer{
		config: config,
		logger: logger,
	}
	r.initAllocator()

	return r, nil
}

func (r *ChromedpRenderer) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
	)

	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
	} else {
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
}

// Render lays the images out one per page and prints the document to PDF.
func (r *ChromedpRenderer) Render(ctx context.Context, images [][]byte) ([]byte, error) {
	if len(images) == 0 {
		return nil, errors.New("at least one image is required")
	}

	html, err := buildDocument(images)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	var pdfData []byte

	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(false).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(pageMargin).
				WithMarginRight(pageMargin).
				WithMarginBottom(pageMargin).
				WithMarginLeft(pageMargin).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("pdf rendering timed out after %v: %w", r.config.Timeout, err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}

	if len(pdfData) == 0 {
		return nil, errors.New("generated PDF is empty")
	}

	r.logger.Info("Receipt PDF rendered",
		zap.Int("images", len(images)),
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", time.Since(start)))

	return pdfData, nil
}

// Close releases resources held by the renderer
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// buildDocument embeds each image as a data URL, one per printed page.
func buildDocument(images [][]byte) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html><html><head><meta charset=\"UTF-8\"><style>")
	buf.WriteString("img{display:block;max-width:100%;max-height:100%;margin:0 auto;page-break-after:always;}")
	buf.WriteString("img:last-child{page-break-after:auto;}")
	buf.WriteString("</style></head><body>")

	for i, img := range images {
		if len(img) == 0 {
			return "", fmt.Errorf("image %d is empty", i)
		}
		contentType := http.DetectContentType(img)
		buf.WriteString("<img src=\"data:")
		buf.WriteString(contentType)
		buf.WriteString(";base64,")
		buf.WriteString(base64.StdEncoding.EncodeToString(img))
		buf.WriteString("\">")
	}

	buf.WriteString("</body></html>")
	return buf.String(), nil
}
