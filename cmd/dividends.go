package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/bfonseca/folio"
)

// dividendsCmd prints dividend income per instrument.
type dividendsCmd struct {
	runFlags
}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "display dividend income per instrument" }
func (*dividendsCmd) Usage() string {
	return `fol dividends -src trading212=exports/

  Displays cumulative dividends per instrument with the yield on current
  cost basis.
`
}

func (c *dividendsCmd) SetFlags(f *flag.FlagSet) { c.runFlags.SetFlags(f) }

func (c *dividendsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, sources, err := c.engine()
	if err != nil {
		return fail(err)
	}
	result, err := engine.Run(ctx, sources...)
	if err != nil {
		return fail(err)
	}
	if err := emit(folio.DividendTable(result.Snapshots), ""); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
