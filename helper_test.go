package folio

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/bfonseca/folio/date"
)

// staticProvider serves quote histories from a fixed map, counting fetches.
// The engine fetches from parallel instrument workers, so the counter is
// atomic.
type staticProvider struct {
	histories map[QuoteKey]*date.History[float64]
	fetches   atomic.Int32
}

func (p *staticProvider) Fetch(key QuoteKey) (*date.History[float64], error) {
	p.fetches.Add(1)
	h, ok := p.histories[key]
	if !ok {
		return nil, ErrQuoteNotFound
	}
	return h, nil
}

// concurrentProvider is a goroutine-safe provider serving one history for any
// key, slow enough that concurrent callers overlap.
type concurrentProvider struct {
	history *date.History[float64]
	fetches atomic.Int32
}

func (p *concurrentProvider) Fetch(key QuoteKey) (*date.History[float64], error) {
	p.fetches.Add(1)
	time.Sleep(10 * time.Millisecond)
	return p.history, nil
}

// history builds a History from day/price pairs.
func history(t *testing.T, points ...any) *date.History[float64] {
	t.Helper()
	if len(points)%2 != 0 {
		t.Fatal("history wants day, price pairs")
	}
	h := &date.History[float64]{}
	for i := 0; i < len(points); i += 2 {
		h.Append(date.MustParse(points[i].(string)), points[i+1].(float64))
	}
	return h
}

// testConverter builds a EUR converter over the given quote histories.
func testConverter(t *testing.T, histories map[QuoteKey]*date.History[float64]) *Converter {
	t.Helper()
	resolver := NewResolver(&staticProvider{histories: histories})
	conv, err := NewConverter("EUR", resolver)
	if err != nil {
		t.Fatalf("NewConverter() failed: %v", err)
	}
	return conv
}

// ts parses an RFC3339 timestamp for event literals.
func ts(t *testing.T, s string) time.Time {
	t.Helper()
	at, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad timestamp %q: %v", s, err)
	}
	return at.UTC()
}
