package source

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/norden-group/locintel-cli/internal/model"
)

// userAgents is rotated per request so the listings site does not
// fingerprint the client.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

var sizeRe = regexp.MustCompile(`(\d[\d,.]*)\s*(?:sqm|m²)`)

// ScrapedAdapter fetches the public listings page and parses property
// cards out of it. Individual malformed cards are skipped; a page with no
// recognizable listing structure at all is a ParseError.
type ScrapedAdapter struct {
	url        string
	httpClient *http.Client
	rng        *rand.Rand
}

// ScrapedOption configures the ScrapedAdapter.
type ScrapedOption func(*ScrapedAdapter)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ScrapedOption {
	return func(a *ScrapedAdapter) {
		a.httpClient = hc
	}
}

// NewScrapedAdapter creates a ScrapedAdapter targeting the given listings URL.
func NewScrapedAdapter(url string, opts ...ScrapedOption) *ScrapedAdapter {
	a := &ScrapedAdapter{
		url:        url,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements Adapter.
func (a *ScrapedAdapter) Name() string { return "scraped" }

// Source implements Adapter.
func (a *ScrapedAdapter) Source() model.Source { return model.SourceScraped }

// Fetch implements Adapter.
func (a *ScrapedAdapter) Fetch(ctx context.Context, filter model.Filter) ([]RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.listingsURL(filter), nil)
	if err != nil {
		return nil, &FetchError{Err: eris.Wrap(err, "scraped adapter: build request")}
	}
	req.Header.Set("User-Agent", userAgents[a.rng.Intn(len(userAgents))])

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: eris.Wrap(err, "scraped adapter: request")}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Err:        eris.Errorf("scraped adapter: status %d", resp.StatusCode),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &ParseError{Err: eris.Wrap(err, "scraped adapter: parse html")}
	}

	cards := doc.Find("div.property-card, div.property-listing, article.property")
	if cards.Length() == 0 {
		return nil, &ParseError{Err: eris.New("scraped adapter: no property listings on page")}
	}

	var records []RawRecord
	var skipped int
	cards.Each(func(i int, card *goquery.Selection) {
		raw, ok := parseCard(i, card)
		if !ok {
			skipped++
			return
		}
		records = append(records, raw)
	})

	if skipped > 0 {
		zap.L().Debug("scraped adapter: skipped malformed listings",
			zap.Int("skipped", skipped),
			zap.Int("parsed", len(records)),
		)
	}
	return records, nil
}

// listingsURL appends filter query parameters the site understands.
func (a *ScrapedAdapter) listingsURL(filter model.Filter) string {
	var params []string
	if filter.PropertyType != "" {
		params = append(params, "type="+strings.ToLower(filter.PropertyType))
	}
	if filter.City != "" {
		params = append(params, "location="+strings.ToLower(filter.City))
	}
	if len(params) == 0 {
		return a.url
	}
	return a.url + "?" + strings.Join(params, "&")
}

// parseCard extracts one listing. Cards without an address are unusable
// and reported as not-ok so the caller can count them.
func parseCard(idx int, card *goquery.Selection) (RawRecord, bool) {
	addressText := textOf(card, "div.property-address, span.property-location")
	if addressText == "" {
		return nil, false
	}

	raw := RawRecord{
		"listing_id": fmt.Sprintf("WEB-%d", idx+1),
		"address":    addressText,
	}

	if title := textOf(card, "h2.property-title"); title != "" {
		raw["title"] = title
	}
	if ptype := textOf(card, "span.property-type, div.property-type"); ptype != "" {
		raw["type"] = ptype
	}
	if sizeText := textOf(card, "span.property-size, div.property-size"); sizeText != "" {
		if m := sizeRe.FindStringSubmatch(sizeText); m != nil {
			raw["size"] = strings.NewReplacer(",", "", ".", "").Replace(m[1])
		}
	}
	return raw, true
}

func textOf(card *goquery.Selection, selector string) string {
	return strings.TrimSpace(card.Find(selector).First().Text())
}
