package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/flexquery/date"
	"github.com/etnz/flexquery/statement"
)

type filterCmd struct {
	from       string
	to         string
	period     string
	noDeposits bool
	query      string
	output     string
}

func (*filterCmd) Name() string     { return "filter" }
func (*filterCmd) Synopsis() string { return "keep the trades and cash transactions of a date range" }
func (*filterCmd) Usage() string {
	return `filter -from <YYYY-MM-DD> (-to <YYYY-MM-DD> | -period <period>) [-no-deposits] [-o <file.xml>] <statement.xml>

  Writes a copy of the report where the trades and the cash transactions are
  restricted to the given range, bounds included. Records without a readable
  date are kept.

  With -period (day, week, month, quarter or year) the range is the period
  containing the -from day, weeks start on Monday.

  The output defaults to <query>_<from>-<to>_statement.xml next to the report,
  the query id being read from the report file name.
`
}

func (c *filterCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day of the range (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "Last day of the range (YYYY-MM-DD)")
	f.StringVar(&c.period, "period", "", "Calendar period containing -from, instead of -to: "+strings.Join(date.Periods, ", "))
	f.BoolVar(&c.noDeposits, "no-deposits", false, "Also remove deposits and withdrawals")
	f.StringVar(&c.query, "query", "", "Query id used to name the output, defaults to the prefix of the report file name")
	f.StringVar(&c.output, "o", "", "Output file, overrides the default name")
}

func (c *filterCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rng, err := c.dateRange()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	input, resp, status := readStatement(f)
	if status != subcommands.ExitSuccess {
		return status
	}

	log := newLogger()
	defer log.Sync()

	filtered, err := statement.FilterRange(resp, statement.FilterOptions{
		Range:           rng,
		ExcludeDeposits: c.noDeposits,
		Logger:          log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error filtering report: %v\n", err)
		return subcommands.ExitFailure
	}

	output := c.output
	if output == "" {
		query := first(c.query, queryOf(input))
		output = filepath.Join(filepath.Dir(input), fmt.Sprintf("%s_%s_statement.xml", query, rng.Identifier()))
	}
	if err := statement.WriteFile(output, filtered); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(output)
	return subcommands.ExitSuccess
}

func (c *filterCmd) dateRange() (date.Range, error) {
	if c.from == "" {
		return date.Range{}, fmt.Errorf("-from is required")
	}
	from, err := date.Parse(c.from)
	if err != nil {
		return date.Range{}, err
	}
	if c.period != "" {
		if c.to != "" {
			return date.Range{}, fmt.Errorf("-to and -period are exclusive")
		}
		p, err := date.ParsePeriod(c.period)
		if err != nil {
			return date.Range{}, err
		}
		return date.PeriodRange(from, p), nil
	}
	if c.to == "" {
		return date.Range{}, fmt.Errorf("-to or -period is required")
	}
	to, err := date.Parse(c.to)
	if err != nil {
		return date.Range{}, err
	}
	rng := date.NewRange(from, to)
	if !rng.IsValid() {
		return date.Range{}, fmt.Errorf("empty range %s", rng)
	}
	return rng, nil
}

// queryOf returns the query id of a downloaded report name,
// "123456_20250923_statement.xml" gives "123456".
func queryOf(name string) string {
	base := withExt(filepath.Base(name), "")
	query, _, _ := strings.Cut(base, "_")
	return query
}
