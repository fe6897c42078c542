// Package config loads the settings of the flexquery tool.
//
// Settings come, by increasing priority, from the defaults, a YAML file, the
// environment (a local .env file is loaded first) and finally the command line
// flags, applied by the commands themselves.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/etnz/flexquery"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FLEXQUERY_"

// DefaultOutputDir is where reports are downloaded by default.
const DefaultOutputDir = "reports"

// Config holds the settings shared by the commands.
type Config struct {
	Token                 string   `yaml:"token"`                   // Flex Web Service token.
	OutputDir             string   `yaml:"output_dir"`              // directory of downloaded reports.
	DefaultCurrency       string   `yaml:"default_currency"`        // currency of records without one.
	CashHolding           string   `yaml:"cash_holding"`            // Parqet cash holding id of the cash table.
	ExcludedActivityCodes []string `yaml:"excluded_activity_codes"` // activity codes never imported.
}

// Default returns the default settings.
func Default() Config {
	return Config{
		OutputDir:             DefaultOutputDir,
		DefaultCurrency:       flexquery.DefaultCurrency,
		CashHolding:           flexquery.DefaultHolding,
		ExcludedActivityCodes: flexquery.DefaultExcluded(),
	}
}

// Load returns the settings read from the YAML file at path, if not empty,
// and the environment.
//
// A .env file in the working directory is loaded into the environment first,
// it is fine if there is none. Variables already set are not overridden.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("cannot load .env file: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("cannot read config: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("cannot decode config %q: %w", path, err)
		}
	}

	env := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	env("TOKEN", &cfg.Token)
	env("OUTPUT_DIR", &cfg.OutputDir)
	env("DEFAULT_CURRENCY", &cfg.DefaultCurrency)
	env("CASH_HOLDING", &cfg.CashHolding)
	if v, ok := os.LookupEnv(EnvPrefix + "EXCLUDED_ACTIVITY_CODES"); ok {
		cfg.ExcludedActivityCodes = SplitCodes(v)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	var errs []error
	if c.DefaultCurrency != "" {
		if err := flexquery.ValidateCurrency(strings.ToUpper(c.DefaultCurrency)); err != nil {
			errs = append(errs, fmt.Errorf("invalid default currency: %w", err))
		}
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output directory is empty"))
	}
	return errors.Join(errs...)
}

// SplitCodes splits a comma separated list of activity codes. An empty string
// is an empty, non nil, list.
func SplitCodes(s string) []string {
	codes := []string{}
	for _, c := range strings.Split(s, ",") {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

// Environ returns the settings as the environment variables read by Load.
func (c Config) Environ() []string {
	return []string{
		EnvPrefix + "TOKEN=" + c.Token,
		EnvPrefix + "OUTPUT_DIR=" + c.OutputDir,
		EnvPrefix + "DEFAULT_CURRENCY=" + c.DefaultCurrency,
		EnvPrefix + "CASH_HOLDING=" + c.CashHolding,
		EnvPrefix + "EXCLUDED_ACTIVITY_CODES=" + strings.Join(c.ExcludedActivityCodes, ","),
	}
}

// ExtractorOptions returns the extractor settings of c.
func (c Config) ExtractorOptions() flexquery.ExtractorOptions {
	return flexquery.ExtractorOptions{
		Excluded:        c.ExcludedActivityCodes,
		DefaultCurrency: c.DefaultCurrency,
	}
}
