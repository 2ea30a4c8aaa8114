package widget

import (
	"context"
	"io"
	"net/http"
	"time"
)

// loadStylesheet fetches the configured external stylesheet. Any failure is
// non-fatal: the widget logs it and renders with the built-in style set.
func (w *Widget) loadStylesheet(ctx context.Context) string {
	if w.cfg.CSSURL == "" {
		return fallbackStylesheet
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.cfg.CSSURL, nil)
	if err != nil {
		w.log.Warn("failed to load external widget CSS, using inline fallback", "error", err)
		return fallbackStylesheet
	}

	client := w.cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		w.log.Warn("failed to load external widget CSS, using inline fallback", "error", err)
		return fallbackStylesheet
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		w.log.Warn("failed to load external widget CSS, using inline fallback", "status", resp.StatusCode)
		return fallbackStylesheet
	}
	css, err := io.ReadAll(resp.Body)
	if err != nil {
		w.log.Warn("failed to load external widget CSS, using inline fallback", "error", err)
		return fallbackStylesheet
	}
	return string(css)
}

// fallbackStylesheet is the built-in style set used when no external CSS is
// configured or it cannot be fetched. Everything is scoped under pdw- class
// names so nothing bleeds into the host page.
const fallbackStylesheet = `
:host {
  --pdw-text: #1a1a1a;
  --pdw-text-light: #666;
  --pdw-border: #e0e0e0;
  --pdw-error: #d32f2f;
  --pdw-success: #388e3c;
  display: block;
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
  font-size: 14px;
  line-height: 1.5;
  color: var(--pdw-text);
  box-sizing: border-box;
}
.pdw-container {
  background: var(--pdw-bg);
  border: 1px solid var(--pdw-border);
  border-radius: 8px;
  padding: 16px;
  max-width: 400px;
}
.pdw-title { font-size: 16px; font-weight: 600; margin: 0; }
.pdw-description { font-size: 13px; color: var(--pdw-text-light); margin: 0 0 16px 0; }
.pdw-product-name { font-weight: 600; margin-bottom: 4px; }
.pdw-product-price { color: var(--pdw-accent); font-weight: 700; font-size: 14px; }
.pdw-input { width: 100%; padding: 10px 12px; border: 2px solid var(--pdw-border); border-radius: 6px; }
.pdw-input:focus { border-color: var(--pdw-accent); }
.pdw-button { width: 100%; padding: 10px 16px; background: var(--pdw-accent); color: white; border: none; border-radius: 6px; font-weight: 600; cursor: pointer; }
.pdw-button:disabled { opacity: 0.6; cursor: not-allowed; }
.pdw-message { padding: 10px 12px; border-radius: 6px; font-size: 13px; margin-top: 12px; }
.pdw-message.success { background: #e8f5e9; color: var(--pdw-success); }
.pdw-message.error { background: #ffebee; color: var(--pdw-error); }
`
