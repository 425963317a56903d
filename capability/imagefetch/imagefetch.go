// Package imagefetch implements the best-effort image-by-keyword capability.
// It simplifies noisy product titles into short search terms, runs an image
// search, scrapes candidate URLs out of the result page and downloads the
// first plausible image. Every step is allowed to fail; callers bound each
// attempt with a context deadline and skip misses.
package imagefetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	minImageBytes    = 1000
	maxAttempts      = 5
)

// simplifications maps verbose product phrasing to short search terms. Probed
// in order; first hit wins.
var simplifications = []struct{ verbose, simple string }{
	{"scandinavian solid wood rectangle panel headboard bed frame", "wooden bed frame"},
	{"southerland scandinavian", "scandinavian mattress"},
	{"latex foam mattress", "mattress"},
	{"memory foam mattress", "mattress"},
	{"tempur-pedic", "memory foam mattress"},
	{"platform bed", "bed frame"},
	{"bed frame", "bed"},
	{"nightstand", "bedside table"},
	{"dresser", "bedroom dresser"},
	{"office chair", "desk chair"},
	{"desk", "writing desk"},
	{"sofa", "couch"},
	{"coffee table", "coffee table"},
	{"bookshelf", "bookcase"},
}

// furnitureKeywords is the fixed collapse list applied when no simplification
// matched.
var furnitureKeywords = []string{"bed", "mattress", "nightstand", "dresser", "desk", "chair", "sofa", "table", "shelf"}

var (
	measurementRe = regexp.MustCompile(`\d+["']?|\d+x\d+|\b\d+\b`)
	brandRe       = regexp.MustCompile(`(?i)\b(ikea|west elm|article|cb2|herman miller|tempur-pedic|southerland|casper)\b`)
	imageURLRe    = regexp.MustCompile(`https?://[^\s"]+\.(?:jpg|jpeg|png|webp)`)
)

// SimplifyKeyword reduces a product title to a short, generic search term.
// Known verbose phrases map to canonical terms first; otherwise the title
// collapses to the first recognized furniture keyword. Long titles with no
// recognizable keyword fall back to "modern furniture". Measurements and
// common brand names are always stripped.
func SimplifyKeyword(title string) string {
	lower := strings.ToLower(title)

	term := lower
	for _, s := range simplifications {
		if strings.Contains(lower, s.verbose) {
			term = s.simple
			break
		}
	}

	found := false
	for _, kw := range furnitureKeywords {
		if strings.Contains(lower, kw) {
			term = kw
			found = true
			break
		}
	}
	if !found && len(term) > 30 {
		term = "modern furniture"
	}

	term = measurementRe.ReplaceAllString(term, "")
	term = brandRe.ReplaceAllString(term, "")
	return strings.Join(strings.Fields(term), " ")
}

// Options configure the Fetcher.
type Options struct {
	SearchBaseURL string // image search endpoint; %s receives the query
	UserAgent     string
	HTTPClient    *http.Client
}

// Fetcher implements capability.ImageFetcher over an HTML image search page.
type Fetcher struct {
	opts Options
}

// New creates a Fetcher with sane scraping defaults. The HTTP client carries
// no global timeout; callers pass a context with a deadline per attempt.
func New(optFns ...func(o *Options)) *Fetcher {
	opts := Options{
		SearchBaseURL: "https://www.google.com/search?q=%s&tbm=isch",
		UserAgent:     defaultUserAgent,
		HTTPClient:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Fetcher{opts: opts}
}

// FetchImage implements capability.ImageFetcher. It simplifies the keyword,
// loads the search page, collects candidate image URLs and returns the first
// download that looks like a real image.
func (f *Fetcher) FetchImage(ctx context.Context, keyword string) ([]byte, error) {
	term := SimplifyKeyword(keyword)
	if term == "" {
		term = "modern furniture"
	}
	searchURL := fmt.Sprintf(f.opts.SearchBaseURL, url.QueryEscape(term))

	page, err := f.get(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	candidates := collectCandidates(page)
	attempts := 0
	for _, candidate := range candidates {
		if attempts >= maxAttempts {
			break
		}
		attempts++
		data, err := f.get(ctx, candidate)
		if err != nil || len(data) < minImageBytes {
			continue
		}
		return data, nil
	}
	return nil, fmt.Errorf("imagefetch: no usable image for %q", term)
}

// get performs a GET with browser-ish headers and returns the body.
func (f *Fetcher) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	resp, err := f.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imagefetch: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// collectCandidates extracts plausible product image URLs from a search
// result page: og:image first, then img tags, then raw URL scanning. Search
// engine chrome assets are filtered out.
func collectCandidates(page []byte) []string {
	var candidates []string
	seen := map[string]bool{}
	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		if strings.HasPrefix(u, "//") {
			u = "https:" + u
		}
		if !strings.HasPrefix(u, "http") {
			return
		}
		lower := strings.ToLower(u)
		if strings.Contains(lower, "gstatic") || strings.Contains(lower, "google") {
			return
		}
		for _, skip := range []string{"icon", "logo", "sprite", "pixel"} {
			if strings.Contains(lower, skip) {
				return
			}
		}
		if len(u) < 50 {
			return
		}
		seen[u] = true
		candidates = append(candidates, u)
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page))); err == nil {
		if og, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
			add(og)
		}
		doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
			if src, ok := sel.Attr("src"); ok {
				add(src)
			}
			if src, ok := sel.Attr("data-src"); ok {
				add(src)
			}
		})
	}
	for _, u := range imageURLRe.FindAllString(string(page), -1) {
		add(u)
	}
	return candidates
}
