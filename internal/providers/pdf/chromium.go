package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second

	// A4 in inches.
	a4Width  = 8.27
	a4Height = 11.69
	margin   = 0.4
)

type ChromiumConfig struct {
	// RemoteURL points at a running Chrome DevTools endpoint. When empty a
	// local headless browser is launched.
	RemoteURL string
	NoSandbox bool
	Timeout   time.Duration
}

// ChromiumProvider prints the rendered HTML template, so organization CSS
// applies to the PDF as it does to the email body.
type ChromiumProvider struct {
	cfg         ChromiumConfig
	log         *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewChromium(cfg ChromiumConfig, log *zap.Logger) *ChromiumProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultChromeTimeout
	}

	p := &ChromiumProvider{cfg: cfg, log: log.Named("pdf.chromium")}
	if cfg.RemoteURL != "" {
		p.allocCtx, p.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return p
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	p.allocCtx, p.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return p
}

func (p *ChromiumProvider) GenerateInvoice(ctx context.Context, doc Document) ([]byte, error) {
	if strings.TrimSpace(doc.HTML) == "" {
		return nil, ErrEmptyDocument
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(p.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			p.log.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// Tie the browser tab to the request deadline.
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	var out []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc.HTML).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				Do(ctx)
			if err != nil {
				return err
			}
			out = data
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("pdf rendering timed out after %v: %w", p.cfg.Timeout, err)
		}
		return nil, fmt.Errorf("chromium print failed: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrEmptyDocument
	}

	p.log.Debug("invoice pdf printed", zap.Int("bytes", len(out)))
	return out, nil
}

func (p *ChromiumProvider) Close() error {
	if p.allocCancel != nil {
		p.allocCancel()
	}
	return nil
}

var _ Provider = (*ChromiumProvider)(nil)
