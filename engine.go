package folio

import (
	"context"
	"runtime"
	"sort"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/bfonseca/folio/date"
)

// Source is one broker export: a schema tag plus its raw records, in export
// order.
type Source struct {
	Tag     string
	Records []Record
}

// Result is the complete output of one engine run. It is only produced when
// the whole run succeeds; a failed run exposes no partial state.
type Result struct {
	Events    []Event
	Snapshots *SnapshotSeries
}

// Engine reconstructs the portfolio from the full event history. Each run is
// a single batch pass: normalize, sort, replay per-instrument ledgers,
// aggregate, report. Runs are idempotent: the same events and quotes produce
// byte-identical tables.
type Engine struct {
	cfg      Config
	period   date.Period
	asOf     date.Date
	resolver *Resolver
	conv     *Converter
}

// NewEngine validates the configuration and builds an engine on top of the
// given quote provider.
func NewEngine(cfg Config, provider Provider) (*Engine, error) {
	period, asOf, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	resolver := NewResolver(provider)
	conv, err := NewConverter(cfg.BaseCurrency, resolver)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:      cfg,
		period:   period,
		asOf:     asOf,
		resolver: resolver,
		conv:     conv,
	}, nil
}

// Resolver exposes the engine's quote resolver, mainly to seed histories in
// tests and tools.
func (e *Engine) Resolver() *Resolver { return e.resolver }

// Base returns the validated base currency of the run.
func (e *Engine) Base() string { return e.conv.Base() }

// AsOf returns the last day of the reconstruction.
func (e *Engine) AsOf() date.Date { return e.asOf }

// Run executes the full reconstruction over the given sources.
func (e *Engine) Run(ctx context.Context, sources ...Source) (*Result, error) {
	events, err := e.normalize(sources)
	if err != nil {
		return nil, err
	}
	SortEvents(events)

	ends := periodEnds(events, e.period, e.asOf)
	grouped, instruments := groupByInstrument(events)

	// Instrument ledgers share no mutable state and run in parallel; the
	// quote resolver is the only shared component and serializes its own
	// cache population. Failures from independent instruments are all
	// collected so one run reports every bad instrument at once.
	done := make([][]Snapshot, len(instruments))
	realized := make([][]RealizedGain, len(instruments))
	errs := make([]error, len(instruments))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, name := range instruments {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			snaps, gains, err := instrumentSeries(name, grouped[name], ends, e.conv, e.resolver)
			if err != nil {
				errs[i] = err
				return nil // keep sibling instruments running
			}
			done[i], realized[i] = snaps, gains
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := multierr.Combine(errs...); err != nil {
		return nil, err
	}
	series := make(map[string][]Snapshot, len(instruments))
	for i, name := range instruments {
		series[name] = done[i]
	}

	cash, err := cashSeries(events, ends, e.conv)
	if err != nil {
		return nil, err
	}

	var allRealized []RealizedGain
	for _, gains := range realized {
		allRealized = append(allRealized, gains...)
	}
	sort.SliceStable(allRealized, func(i, j int) bool {
		a, b := allRealized[i], allRealized[j]
		if !a.RealizedAt.Equal(b.RealizedAt) {
			return a.RealizedAt.Before(b.RealizedAt)
		}
		return a.Instrument < b.Instrument
	})

	snapshots := &SnapshotSeries{
		Base:        e.conv.Base(),
		Period:      e.period,
		Ends:        ends,
		Instruments: instruments,
		Series:      series,
		Cash:        cash,
		Realized:    allRealized,
	}
	snapshots.computeLinked()

	return &Result{Events: events, Snapshots: snapshots}, nil
}

// normalize maps every source through its tagged normalizer, concatenating
// the canonical events in input order.
func (e *Engine) normalize(sources []Source) ([]Event, error) {
	var events []Event
	for _, src := range sources {
		n, err := NormalizerFor(src.Tag)
		if err != nil {
			return nil, err
		}
		for i, rec := range src.Records {
			evs, err := n.Normalize(rec, i)
			if err != nil {
				return nil, err
			}
			for _, ev := range evs {
				ev.Index = len(events)
				events = append(events, ev)
			}
		}
	}
	return events, nil
}
