package main

import (
	"context"
	"flag"

	"portfolio_tracker/internal/app/service"

	"github.com/google/subcommands"
)

type showCmd struct {
	portfolioFlags
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the portfolio valuation as a table" }
func (*showCmd) Usage() string {
	return `portfolio show [-l <ledger>] [-currency <usd|btc|eth>] [-partial]

  Values every holding of the ledger and prints one table per wallet
  followed by the totals.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *showCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	run, err := c.resolve(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	printMarkdown(summaryMarkdown(service.Summarize(run.balances, run.quote), run.failures))
	if len(run.failures) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
