package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/bfonseca/folio"
)

// timelineCmd prints the period-by-period market value of the portfolio.
type timelineCmd struct {
	runFlags
}

func (*timelineCmd) Name() string     { return "timeline" }
func (*timelineCmd) Synopsis() string { return "display the portfolio value over time" }
func (*timelineCmd) Usage() string {
	return `fol timeline -src trading212=exports/ [-period monthly]

  Displays one row per period with the market value of every instrument,
  the cash balance and the portfolio total.
`
}

func (c *timelineCmd) SetFlags(f *flag.FlagSet) { c.runFlags.SetFlags(f) }

func (c *timelineCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, sources, err := c.engine()
	if err != nil {
		return fail(err)
	}
	result, err := engine.Run(ctx, sources...)
	if err != nil {
		return fail(err)
	}
	if err := emit(folio.TimelineTable(result.Snapshots), ""); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
