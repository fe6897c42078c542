package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/flexquery/flexweb"
)

type downloadCmd struct {
	token  string
	output string
}

func (*downloadCmd) Name() string     { return "download" }
func (*downloadCmd) Synopsis() string { return "download a Flex Query report" }
func (*downloadCmd) Usage() string {
	return `download [-t <token>] [-o <dir>] <query>

  Requests the report of the Flex Query <query> from the Flex Web Service,
  waits until it is generated and saves it as
  <dir>/<query>_<YYYYMMDD>_statement.<format>.

  The token defaults to the configured one (FLEXQUERY_TOKEN).
`
}

func (c *downloadCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.token, "t", "", "Flex Web Service token, overrides the configured one")
	f.StringVar(&c.output, "o", "", "Directory of the downloaded report, overrides the configured one")
}

func (c *downloadCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected one query id, got %d arguments\n", f.NArg())
		return subcommands.ExitUsageError
	}
	query := f.Arg(0)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	token := first(c.token, cfg.Token)
	if token == "" {
		fmt.Fprintf(os.Stderr, "Error: no token, use -t or set FLEXQUERY_TOKEN\n")
		return subcommands.ExitUsageError
	}

	log := newLogger()
	defer log.Sync()

	name, err := newClient(token, log).Download(ctx, query, first(c.output, cfg.OutputDir))
	if err != nil {
		var reqErr *flexweb.RequestError
		switch {
		case errors.As(err, &reqErr):
			fmt.Fprintf(os.Stderr, "Error: the Flex Web Service rejected the request: %v\n", reqErr)
		case errors.Is(err, flexweb.ErrTimeout):
			fmt.Fprintf(os.Stderr, "Error: the report was not ready in time, try again later: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "Error downloading report: %v\n", err)
		}
		return subcommands.ExitFailure
	}
	fmt.Println(name)
	return subcommands.ExitSuccess
}
