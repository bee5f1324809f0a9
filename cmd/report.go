package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/bfonseca/folio"
)

// reportCmd runs the full reconstruction and exports every table.
type reportCmd struct {
	runFlags
	out string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "reconstruct the portfolio and export all report tables" }
func (*reportCmd) Usage() string {
	return `fol report -src trading212=exports/ [-o out/] [-c folio.yaml]

  Runs the full reconstruction and writes the summary, timeline, breakdown,
  dividend and realized-gain tables as CSV.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.runFlags.SetFlags(f)
	f.StringVar(&c.out, "o", "reports", "output directory for the CSV tables")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, sources, err := c.engine()
	if err != nil {
		return fail(err)
	}
	result, err := engine.Run(ctx, sources...)
	if err != nil {
		return fail(err)
	}

	s := result.Snapshots
	tables := []*folio.Table{
		folio.SummaryTable(s),
		folio.TimelineTable(s),
		folio.DividendTable(s),
		folio.RealizedTable(s),
		folio.PerformanceTable(s),
	}
	for _, name := range s.Instruments {
		t, err := folio.BreakdownTable(s, name)
		if err != nil {
			return fail(err)
		}
		tables = append(tables, t)
	}
	for _, t := range tables {
		if err := emit(t, c.out); err != nil {
			return fail(err)
		}
	}
	return subcommands.ExitSuccess
}
