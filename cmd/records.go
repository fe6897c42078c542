package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/flexquery"
	"github.com/etnz/flexquery/renderer"
)

type recordsCmd struct {
	where string
	text  bool
}

func (*recordsCmd) Name() string     { return "records" }
func (*recordsCmd) Synopsis() string { return "print the records converted from a report" }
func (*recordsCmd) Usage() string {
	return `records [-where <expr>] [-text] <statement.xml>

  Prints the records converted from a report, one JSON object per line.

  -where keeps the records matching a JSONPath filter expression evaluated on
  their JSON form, e.g.

    flexquery records -where '@.type == "Dividend" && @.currency == "USD"' statement.xml
`
}

func (c *recordsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.where, "where", "", "JSONPath filter expression on the records")
	f.BoolVar(&c.text, "text", false, "Print one sentence per record instead of JSON")
}

func (c *recordsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, resp, status := readStatement(f)
	if status != subcommands.ExitSuccess {
		return status
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	log := newLogger()
	defer log.Sync()

	opts := cfg.ExtractorOptions()
	opts.Logger = log
	res := flexquery.NewConverter(opts).Convert(resp)

	txs, err := flexquery.Where(res.Transactions, c.where)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error filtering records: %v\n", err)
		return subcommands.ExitUsageError
	}
	for _, tx := range txs {
		if c.text {
			fmt.Println(renderer.Transaction(tx))
			continue
		}
		line, err := json.Marshal(tx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding record: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(string(line))
	}
	return subcommands.ExitSuccess
}
