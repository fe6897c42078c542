package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/flexquery"
	"github.com/etnz/flexquery/config"
	"github.com/etnz/flexquery/renderer"
)

type convertCmd struct {
	output   string
	holding  string
	exclude  string
	currency string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert a Flex Query XML report into Parqet CSV tables" }
func (*convertCmd) Usage() string {
	return `convert [-o <file.csv>] [-holding <id>] [-exclude <CODE,...>] [-currency <code>] <statement.xml>

  Converts the open lots and the statement of funds of a report into the
  Parqet security table <file.csv> and cash table <file>_cash.csv.

  The output defaults to the report name with a .csv extension.
  See 'flexquery topic parqet'.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Security table file, the cash table is written next to it")
	f.StringVar(&c.holding, "holding", "", "Parqet id of the cash holding, overrides the configured one")
	f.StringVar(&c.exclude, "exclude", "", "Comma separated activity codes not to import, overrides the configured ones")
	f.StringVar(&c.currency, "currency", "", "Currency of the records without one, overrides the configured one")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	input, resp, status := readStatement(f)
	if status != subcommands.ExitSuccess {
		return status
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.currency != "" {
		if err := flexquery.ValidateCurrency(strings.ToUpper(c.currency)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		cfg.DefaultCurrency = c.currency
	}
	if isSet(f, "exclude") {
		cfg.ExcludedActivityCodes = config.SplitCodes(c.exclude)
	}
	holding := first(c.holding, cfg.CashHolding)
	output := first(c.output, withExt(input, ".csv"))

	log := newLogger()
	defer log.Sync()

	opts := cfg.ExtractorOptions()
	opts.Logger = log
	res := flexquery.NewConverter(opts).Convert(resp)

	written, err := flexquery.WriteParqet(output, res.Transactions, holding, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing Parqet tables: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderSummary(renderer.NewSummary(filepath.Base(input), res.Summary, written, holding)))
	return subcommands.ExitSuccess
}

// isSet reports whether the flag name was given on the command line.
func isSet(f *flag.FlagSet, name string) bool {
	set := false
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}
