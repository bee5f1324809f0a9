// Package cmd implements the CLI application that drives the portfolio
// engine.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/bfonseca/folio"
)

// Commands is the list of registered subcommands. A main package iterates
// it, registers each and executes the user-selected one.
var Commands = []subcommands.Command{
	&reportCmd{},
	&summaryCmd{},
	&timelineCmd{},
	&dividendsCmd{},
	&realizedCmd{},
	&fetchCmd{},
}

// sourceList collects repeated -src flags of the form tag=path, where path
// is a CSV file or a directory of CSV files.
type sourceList []string

func (s *sourceList) String() string { return strings.Join(*s, ",") }

func (s *sourceList) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("source %q: want tag=path", v)
	}
	*s = append(*s, v)
	return nil
}

// runFlags holds the flags shared by every command that executes a run.
type runFlags struct {
	config   string
	base     string
	period   string
	asOf     string
	cacheDir string
	sources  sourceList
}

func (r *runFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.config, "c", "folio.yaml", "path to the YAML configuration file")
	f.StringVar(&r.base, "base", "", "base currency, overrides the configuration")
	f.StringVar(&r.period, "period", "", "reporting period (daily..yearly), overrides the configuration")
	f.StringVar(&r.asOf, "as-of", "", "last day of the reconstruction (YYYY-MM-DD), defaults to today")
	f.StringVar(&r.cacheDir, "cache-dir", "", "quote cache directory, overrides the configuration")
	f.Var(&r.sources, "src", "broker source as tag=path, repeatable (tags: trading212, schwab)")
}

// engine builds the engine and loads the sources according to the flags. A
// missing default configuration file is not an error: flags alone can carry
// a full configuration.
func (r *runFlags) engine() (*folio.Engine, []folio.Source, error) {
	cfg, err := folio.LoadConfig(r.config)
	if errors.Is(err, fs.ErrNotExist) && r.config == "folio.yaml" {
		cfg, err = folio.Config{}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if r.base != "" {
		cfg.BaseCurrency = r.base
	}
	if r.period != "" {
		cfg.Period = r.period
	}
	if r.asOf != "" {
		cfg.AsOf = r.asOf
	}
	if r.cacheDir != "" {
		cfg.CacheDir = r.cacheDir
	}

	engine, err := folio.NewEngine(cfg, folio.NewYahooProvider(cfg.CacheDir))
	if err != nil {
		return nil, nil, err
	}

	var sources []folio.Source
	for _, entry := range r.sources {
		tag, path, _ := strings.Cut(entry, "=")
		info, err := os.Stat(path)
		if err != nil {
			return nil, nil, err
		}
		var src folio.Source
		if info.IsDir() {
			src, err = folio.LoadSourceDir(tag, path)
		} else {
			src, err = folio.LoadSource(tag, path)
		}
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return nil, nil, errors.New("no sources: pass at least one -src tag=path")
	}
	return engine, sources, nil
}

// emit writes a table to stdout, or to <dir>/<name>.csv when dir is set.
func emit(t *folio.Table, dir string) error {
	if dir == "" {
		return t.WriteCSV(os.Stdout)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(dir + "/" + t.Name + ".csv")
	if err != nil {
		return err
	}
	defer f.Close()
	return t.WriteCSV(f)
}

// fail prints an error and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
