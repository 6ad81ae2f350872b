package report

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const printStyle = `html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;}
h2[data-page-break-before="true"]{break-before:page;page-break-before:always;}
@media print{ @page{size:auto;margin:12mm;} body{margin:0;} }`

// PDFRenderer prints quote documents through a headless Chromium.
type PDFRenderer struct {
	webDir     string
	chromePath string
	styleOnce  sync.Once
	styleCSS   string
	styleErr   error
}

// NewPDFRenderer returns a renderer that prefers webDir/style.css over the
// built-in page style when that file exists.
func NewPDFRenderer(webDir string) *PDFRenderer {
	return &PDFRenderer{
		webDir:     webDir,
		chromePath: detectChromePath(),
	}
}

// A4 in inches, the unit PrintToPDF takes. Margins leave room for the footer.
const (
	a4Width      = 8.27
	a4Height     = 11.69
	marginSide   = 0.6
	marginTop    = 0.6
	marginFooter = 0.8
	printTimeout = 30 * time.Second
)

// Render prints doc to an A4 PDF with a footer naming the quote.
func (r *PDFRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	page, err := r.buildHTML(doc)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, printTimeout)
	defer cancel()
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	printPDF := func(ctx context.Context) error {
		out, _, err := cdppage.PrintToPDF().
			WithPrintBackground(true).
			WithDisplayHeaderFooter(true).
			WithHeaderTemplate(`<span></span>`).
			WithFooterTemplate(footerTemplate(doc)).
			WithPaperWidth(a4Width).
			WithPaperHeight(a4Height).
			WithMarginTop(marginTop).
			WithMarginBottom(marginFooter).
			WithMarginLeft(marginSide).
			WithMarginRight(marginSide).
			Do(ctx)
		pdf = out
		return err
	}

	src := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(page))
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(src),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(printPDF),
	); err != nil {
		return nil, fmt.Errorf("print quote pdf: %w", err)
	}
	return pdf, nil
}

func (r *PDFRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	return opts
}

// footerTemplate labels each page with the quote title, its log id when it
// has one, and the page count.
func footerTemplate(doc Document) string {
	label := doc.Title
	if ref, ok := doc.Field("Reference"); ok {
		label += " (ref " + ref + ")"
	}
	return `<div style="width:100%;font-size:8px;color:#555;padding:0 12mm;display:flex;justify-content:space-between;">` +
		`<span>` + html.EscapeString(label) + `</span>` +
		`<span>Page <span class="pageNumber"></span> of <span class="totalPages"></span></span></div>`
}

func (r *PDFRenderer) buildHTML(doc Document) (string, error) {
	css, err := r.loadStyleCSS()
	if err != nil {
		return "", err
	}
	out, err := htmlPage(doc, css+"\n"+printStyle)
	if err != nil {
		return "", err
	}
	return applyPrintLayoutHooks(out), nil
}

var overheadHeading = regexp.MustCompile(`(?i)<h2([^>]*)>\s*Overheads \(monthly\)\s*</h2>`)

// applyPrintLayoutHooks starts the overhead detail on its own page.
func applyPrintLayoutHooks(contentHTML string) string {
	return overheadHeading.ReplaceAllString(contentHTML, `<h2$1 data-page-break-before="true">Overheads (monthly)</h2>`)
}

func (r *PDFRenderer) loadStyleCSS() (string, error) {
	r.styleOnce.Do(func() {
		r.styleCSS = pageStyle
		if r.webDir == "" {
			return
		}
		b, err := os.ReadFile(filepath.Join(r.webDir, "style.css"))
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err != nil {
			r.styleErr = fmt.Errorf("read style.css: %w", err)
			return
		}
		r.styleCSS = string(b)
	})
	return r.styleCSS, r.styleErr
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
