package folio

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/bfonseca/folio/date"
)

// QuoteKey identifies a priced entity: an instrument ticker, or a currency
// pair like "USDEUR" built with PairKey.
type QuoteKey string

func (k QuoteKey) String() string { return string(k) }

// PairKey returns the QuoteKey of the FX rate from one currency to another.
func PairKey(from, to string) QuoteKey { return QuoteKey(from + to) }

// IsPair reports whether the key looks like a six-letter currency pair.
func (k QuoteKey) IsPair() bool {
	return len(k) == 6 && k == QuoteKey(strings.ToUpper(string(k)))
}

// QuoteKeysFor lists every key a run over these events may need to resolve:
// one per traded instrument and one FX pair per foreign currency seen, in
// deterministic order.
func QuoteKeysFor(events []Event, base string) []QuoteKey {
	seen := make(map[QuoteKey]bool)
	var keys []QuoteKey
	add := func(k QuoteKey) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, ev := range events {
		if ev.Kind == Buy || ev.Kind == Sell {
			add(QuoteKey(ev.Instrument))
		}
		if c := ev.Currency(); c != "" && c != base {
			add(PairKey(c, base))
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// A Provider supplies historical quotes for a key. It returns the full known
// history (sparse, daily) or ErrQuoteNotFound when the key is unknown. A
// provider may be backed by a network API, an on-disk cache, or both.
type Provider interface {
	Fetch(key QuoteKey) (*date.History[float64], error)
}

// Resolver answers point-in-time price queries with a strict no-look-ahead
// policy: the answer is the quote at the requested day, or the most recent
// one before it, never one after.
//
// Histories are populated lazily from the Provider and memoized for the
// lifetime of the run. The cache supports concurrent readers; population of
// a given key is serialized so at most one underlying fetch occurs per key,
// however many instrument workers ask for it.
type Resolver struct {
	provider Provider

	mu     sync.RWMutex
	quotes map[QuoteKey]*date.History[float64]
	flight singleflight.Group
}

// NewResolver returns a Resolver backed by the given provider.
func NewResolver(provider Provider) *Resolver {
	return &Resolver{
		provider: provider,
		quotes:   make(map[QuoteKey]*date.History[float64]),
	}
}

// Seed installs a known history for a key, bypassing the provider. Used for
// keys whose prices come from the event stream itself, and in tests.
func (r *Resolver) Seed(key QuoteKey, h *date.History[float64]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes[key] = h
}

// Resolve returns the price of key as of the given day. It fails with a
// NoQuoteError when no quote at or before the day exists; the cache is pure
// memoization and never fabricates a value to hide that.
func (r *Resolver) Resolve(key QuoteKey, on date.Date) (float64, error) {
	h, err := r.history(key)
	if err != nil {
		if errors.Is(err, ErrQuoteNotFound) {
			return 0, &NoQuoteError{Key: key, On: on}
		}
		return 0, fmt.Errorf("fetching quotes for %s: %w", key, err)
	}
	price, ok := h.ValueAsOf(on)
	if !ok {
		return 0, &NoQuoteError{Key: key, On: on}
	}
	return price, nil
}

// history returns the memoized history for key, fetching it once on first
// use.
func (r *Resolver) history(key QuoteKey) (*date.History[float64], error) {
	r.mu.RLock()
	h, ok := r.quotes[key]
	r.mu.RUnlock()
	if ok {
		return h, nil
	}

	v, err, _ := r.flight.Do(string(key), func() (any, error) {
		// Re-check under the flight: another caller may have won the race
		// before this one joined.
		r.mu.RLock()
		h, ok := r.quotes[key]
		r.mu.RUnlock()
		if ok {
			return h, nil
		}
		fetched, err := r.provider.Fetch(key)
		if errors.Is(err, ErrQuoteNotFound) {
			// Remember the miss as an empty history: later queries fail
			// fast with NoQuoteError instead of refetching.
			fetched = &date.History[float64]{}
		} else if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.quotes[key] = fetched
		r.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*date.History[float64]), nil
}
