package folio

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/bfonseca/folio/date"
)

const yahooURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooProvider fetches daily closing prices from the Yahoo Finance chart
// API. Responses go through the daily on-disk HTTP cache, so repeated runs in
// one day hit the network at most once per key.
type YahooProvider struct {
	base   string
	client *http.Client
}

// NewYahooProvider returns a provider caching HTTP responses under cacheDir.
func NewYahooProvider(cacheDir string) *YahooProvider {
	return &YahooProvider{base: yahooURL, client: cachingClient(cacheDir)}
}

// yahooSymbol maps a QuoteKey to Yahoo's symbology: currency pairs get the
// "=X" suffix, tickers pass through.
func yahooSymbol(key QuoteKey) string {
	if key.IsPair() {
		return string(key) + "=X"
	}
	return string(key)
}

// Fetch implements Provider.
func (p *YahooProvider) Fetch(key QuoteKey) (*date.History[float64], error) {
	addr := fmt.Sprintf("%s/%s?range=20y&interval=1d&events=history", p.base, url.PathEscape(yahooSymbol(key)))

	var jobj any
	if err := jwget(p.client, addr, &jobj); err != nil {
		return nil, err
	}

	// The chart API reports unknown symbols inside the payload, not with a
	// status code.
	if code, err := jsonpath.Get("$.chart.error.code", jobj); err == nil && code != nil {
		return nil, fmt.Errorf("%q: %w", key, ErrQuoteNotFound)
	}

	stamps, err := jsonList(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		return nil, fmt.Errorf("parsing quotes for %q: %w", key, err)
	}
	closes, err := jsonList(jobj, "$.chart.result[0].indicators.quote[0].close")
	if err != nil {
		return nil, fmt.Errorf("parsing quotes for %q: %w", key, err)
	}
	if len(stamps) != len(closes) {
		return nil, fmt.Errorf("parsing quotes for %q: %d timestamps but %d closes", key, len(stamps), len(closes))
	}

	h := &date.History[float64]{}
	for i, s := range stamps {
		ts, ok := s.(float64)
		if !ok {
			continue
		}
		// Null closes mark non-trading entries.
		c, ok := closes[i].(float64)
		if !ok {
			continue
		}
		h.Append(date.FromTime(time.Unix(int64(ts), 0)), c)
	}
	if h.Len() == 0 {
		return nil, fmt.Errorf("%q: empty history: %w", key, ErrQuoteNotFound)
	}
	return h, nil
}

// jsonList evaluates a jsonpath expected to yield a JSON array.
func jsonList(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("%q: not a list", path)
	}
	return jlist, nil
}
