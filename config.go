package folio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/bfonseca/folio/date"
)

// Config carries the per-run settings of the engine. It is constructed once
// per run and passed explicitly; there is no process-wide mutable
// configuration.
type Config struct {
	// BaseCurrency is the ISO code all monetary outputs are expressed in.
	BaseCurrency string `yaml:"base_currency"`
	// Period is the reporting granularity: daily, weekly, monthly,
	// quarterly or yearly. Defaults to monthly.
	Period string `yaml:"period"`
	// CostBasis selects the lot matching strategy. Only "fifo" is
	// implemented; the field exists as a documented extension point.
	CostBasis string `yaml:"cost_basis"`
	// CacheDir is where the HTTP quote cache lives. Empty means the system
	// temp directory.
	CacheDir string `yaml:"cache_dir"`
	// AsOf is the last day of the reconstruction, ISO formatted. Empty
	// means today.
	AsOf string `yaml:"as_of"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.UnmarshalStrict(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate fills defaults and checks the configuration, returning the parsed
// period and as-of date.
func (c *Config) Validate() (date.Period, date.Date, error) {
	if c.BaseCurrency == "" {
		return 0, date.Date{}, &CurrencyConfigError{}
	}
	if err := ValidateCurrency(c.BaseCurrency); err != nil {
		return 0, date.Date{}, &CurrencyConfigError{Code: c.BaseCurrency}
	}

	if c.CostBasis == "" {
		c.CostBasis = "fifo"
	}
	if c.CostBasis != "fifo" {
		return 0, date.Date{}, fmt.Errorf("cost basis method %q is not implemented (only fifo)", c.CostBasis)
	}

	if c.Period == "" {
		c.Period = "monthly"
	}
	period, err := date.ParsePeriod(c.Period)
	if err != nil {
		return 0, date.Date{}, err
	}

	asOf := date.Today()
	if c.AsOf != "" {
		if asOf, err = date.Parse(c.AsOf); err != nil {
			return 0, date.Date{}, err
		}
	}
	return period, asOf, nil
}
