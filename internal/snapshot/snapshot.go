// Package snapshot renders portal pages to PNG with headless Chrome.
package snapshot

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Options controls the browser and capture
type Options struct {
	Headless bool
	Width    int
	Height   int
	// Time given to the map to load tiles after the page is ready
	Settle  time.Duration
	Timeout time.Duration
}

// DefaultOptions returns default capture settings
func DefaultOptions() Options {
	return Options{
		Headless: true,
		Width:    1440,
		Height:   900,
		Settle:   3 * time.Second,
		Timeout:  45 * time.Second,
	}
}

// Renderer drives one Chrome instance
type Renderer struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	opts     Options
}

// New creates a renderer; call Start before Capture
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Start launches the browser
func (r *Renderer) Start() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(r.opts.Width, r.opts.Height),
	)

	r.allocCtx, r.cancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return nil
}

// Stop closes the browser
func (r *Renderer) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

// Capture loads pageURL and returns a full-page PNG. A non-empty token is
// sent as a bearer header only on requests to the portal's own origin; lang
// sets Accept-Language on every request.
func (r *Renderer) Capture(ctx context.Context, pageURL, token, lang string) ([]byte, error) {
	if r.allocCtx == nil {
		return nil, fmt.Errorf("renderer not started")
	}

	taskCtx, cancel := chromedp.NewContext(r.allocCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	taskCtx, cancel = context.WithTimeout(taskCtx, r.opts.Timeout)
	defer cancel()

	actions := []chromedp.Action{network.Enable()}
	if token != "" {
		chromedp.ListenTarget(taskCtx, func(ev any) {
			paused, ok := ev.(*fetch.EventRequestPaused)
			if !ok {
				return
			}
			// Handlers must not block the event loop
			go func() {
				c := chromedp.FromContext(taskCtx)
				headers := RequestHeaders(paused.Request.Headers, pageURL, paused.Request.URL, token, lang)
				fetch.ContinueRequest(paused.RequestID).
					WithHeaders(headers).
					Do(cdp.WithExecutor(taskCtx, c.Target))
			}()
		})
		actions = append(actions, fetch.Enable())
	} else if lang != "" {
		actions = append(actions, network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": lang}))
	}

	var buf []byte
	actions = append(actions,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.opts.Settle),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err := chromedp.Run(taskCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("capture failed: %w", err)
	}

	return buf, nil
}

// RequestHeaders returns the headers a paused request continues with: the
// original ones plus Accept-Language, and the bearer token when reqURL shares
// the origin of pageURL. Entries are sorted by name.
func RequestHeaders(orig network.Headers, pageURL, reqURL, token, lang string) []*fetch.HeaderEntry {
	h := make(map[string]string, len(orig)+2)
	for name, v := range orig {
		if strings.EqualFold(name, "Authorization") || (lang != "" && strings.EqualFold(name, "Accept-Language")) {
			continue
		}
		h[name] = fmt.Sprint(v)
	}
	if lang != "" {
		h["Accept-Language"] = lang
	}
	if token != "" && SameOrigin(pageURL, reqURL) {
		h["Authorization"] = "Bearer " + token
	}

	entries := make([]*fetch.HeaderEntry, 0, len(h))
	for _, name := range slices.Sorted(maps.Keys(h)) {
		entries = append(entries, &fetch.HeaderEntry{Name: name, Value: h[name]})
	}
	return entries
}

// SameOrigin reports whether a and b share scheme, host and port
func SameOrigin(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil || ua.Host == "" {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return strings.EqualFold(ua.Scheme, ub.Scheme) && strings.EqualFold(ua.Host, ub.Host)
}

// VenueURL returns the portal address that opens a venue's detail panel
func VenueURL(baseURL, venueID, lang string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	q := u.Query()
	if venueID != "" {
		q.Set("venue", venueID)
	}
	if lang != "" {
		q.Set("lang", lang)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
