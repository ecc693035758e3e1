package main

import (
	"context"
	"flag"
	"fmt"

	"portfolio_tracker/internal/app/service"
	"portfolio_tracker/internal/infrastructure/restapi"

	"github.com/google/subcommands"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonCmd struct {
	portfolioFlags
}

func (*jsonCmd) Name() string     { return "json" }
func (*jsonCmd) Synopsis() string { return "print the resolved balances as JSON" }
func (*jsonCmd) Usage() string {
	return `portfolio json [-l <ledger>] [-currency <usd|btc|eth>] [-partial]

  Prints the same document as POST /api/v1/portfolio.
`
}

func (c *jsonCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *jsonCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	run, err := c.resolve(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	resp := restapi.PortfolioResponse{
		Balances: run.balances,
		Summary:  service.Summarize(run.balances, run.quote),
		Errors:   run.failures,
	}
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
