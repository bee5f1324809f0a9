package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/bfonseca/folio"
)

// fetchCmd warms the on-disk quote cache for every key the sources need, so
// a later report runs offline.
type fetchCmd struct {
	runFlags
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "prefetch quotes for all instruments and currencies" }
func (*fetchCmd) Usage() string {
	return `fol fetch -src trading212=exports/

  Resolves a quote for every traded instrument and foreign currency pair,
  populating the on-disk cache. Missing quotes are reported but do not stop
  the fetch.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) { c.runFlags.SetFlags(f) }

func (c *fetchCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, sources, err := c.engine()
	if err != nil {
		return fail(err)
	}

	var events []folio.Event
	for _, src := range sources {
		evs, err := folio.Normalize(src.Tag, src.Records)
		if err != nil {
			return fail(err)
		}
		events = append(events, evs...)
	}

	status := subcommands.ExitSuccess
	for _, key := range folio.QuoteKeysFor(events, engine.Base()) {
		price, err := engine.Resolver().Resolve(key, engine.AsOf())
		if err != nil {
			fmt.Printf("%-12s no quote (%v)\n", key, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%-12s %.4f\n", key, price)
	}
	return status
}
