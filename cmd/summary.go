package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/bfonseca/folio"
)

// summaryCmd prints the portfolio summary table.
type summaryCmd struct {
	runFlags
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio summary" }
func (*summaryCmd) Usage() string {
	return `fol summary -src trading212=exports/ [-as-of 2026-06-30]

  Displays per-instrument cost, market value, gains, dividends and
  allocation as of the requested date.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.runFlags.SetFlags(f) }

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, sources, err := c.engine()
	if err != nil {
		return fail(err)
	}
	result, err := engine.Run(ctx, sources...)
	if err != nil {
		return fail(err)
	}
	if err := emit(folio.SummaryTable(result.Snapshots), ""); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
