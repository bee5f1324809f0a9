package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/bfonseca/folio"
)

// realizedCmd prints the realized-gain audit trail.
type realizedCmd struct {
	runFlags
}

func (*realizedCmd) Name() string     { return "realized" }
func (*realizedCmd) Synopsis() string { return "display every realized gain record" }
func (*realizedCmd) Usage() string {
	return `fol realized -src trading212=exports/

  Displays one row per matched lot chunk: sale date, acquisition date,
  proceeds, cost basis and gain.
`
}

func (c *realizedCmd) SetFlags(f *flag.FlagSet) { c.runFlags.SetFlags(f) }

func (c *realizedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, sources, err := c.engine()
	if err != nil {
		return fail(err)
	}
	result, err := engine.Run(ctx, sources...)
	if err != nil {
		return fail(err)
	}
	if err := emit(folio.RealizedTable(result.Snapshots), ""); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
