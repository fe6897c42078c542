package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/flexquery/renderer"
)

type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "print the trades and cash transactions of a report" }
func (*showCmd) Usage() string {
	return `show <statement.xml>

  Prints the trades and the cash transactions of a Flex Query XML report as
  tables, one section per account.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, resp, status := readStatement(f)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(renderer.RenderStatement(renderer.NewStatement(resp)))
	return subcommands.ExitSuccess
}
