package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const renderTimeout = 30 * time.Second

// ChromiumRenderer prints a markdown document to PDF through a headless
// Chromium instance. Each Render call spawns its own browser context, so the
// renderer is safe for concurrent use.
type ChromiumRenderer struct {
	chromePath string
	md         goldmark.Markdown
}

func NewChromiumRenderer() *ChromiumRenderer {
	return &ChromiumRenderer{
		chromePath: detectChromePath(),
		md:         goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (r *ChromiumRenderer) Render(ctx context.Context, markdown string) ([]byte, error) {
	htmlDoc, err := r.buildHTML(markdown)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
				`Стр. <span class="pageNumber"></span> из <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.55).
				WithMarginRight(0.55).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return pdf, nil
}

func (r *ChromiumRenderer) buildHTML(markdown string) (string, error) {
	var content strings.Builder
	if err := r.md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	return "<!doctype html><html><head><meta charset='utf-8'><title>Отчёт</title>" +
		"<style>" + documentCSS + "</style></head><body>" +
		"<div class='report'>" + content.String() + "</div>" +
		"</body></html>", nil
}

const documentCSS = `
html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;}
body{font-family:'DejaVu Sans',Arial,sans-serif;font-size:10pt;color:#1c1917;background:#fff;margin:0;}
.report{max-width:1000px;margin:0 auto;}
h1{font-size:14pt;text-align:center;margin-bottom:4pt;}
h2{font-size:11pt;margin-top:14pt;margin-bottom:6pt;}
table{width:100%;border-collapse:collapse;border:1px solid #a8a29e;font-size:9pt;margin-bottom:8pt;}
th,td{border:1px solid #a8a29e;padding:4pt 5pt;text-align:left;vertical-align:top;}
thead th{background:#f1f5f9;font-weight:700;}
hr{border:none;border-top:1px solid #a8a29e;margin-top:16pt;}
@media print{ @page{size:A4;margin:12mm;} }
`

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
