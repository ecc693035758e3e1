package main

import (
	"context"
	"flag"
	"fmt"

	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/utils"

	"github.com/google/subcommands"
)

type priceCmd struct {
	currency string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "look up the current price of a token" }
func (*priceCmd) Usage() string {
	return `portfolio price [-currency <usd|btc|eth>] <chain> [<token address>|native]

  Prints the price of a token, or of the chain's native asset when the
  address is omitted.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "usd", "Quote currency (usd, btc, eth)")
}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	chain, token := f.Arg(0), entity.NativeToken
	if f.NArg() == 2 {
		token = f.Arg(1)
	}
	quote, err := entity.ParseQuoteCurrency(c.currency)
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}

	_, services, err := openServices(ctx, nil)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer services.Close()

	price, err := services.Prices.GetPrice(ctx, chain, token, quote)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s %s: %s\n", chain, token, utils.FormatMoney(price, string(quote)))
	return subcommands.ExitSuccess
}

type decimalsCmd struct{}

func (*decimalsCmd) Name() string     { return "decimals" }
func (*decimalsCmd) Synopsis() string { return "look up the decimals of a token through the cache" }
func (*decimalsCmd) Usage() string {
	return `portfolio decimals <chain> <token address>

  Prints the cached decimals and symbol of a token, reading them from the
  chain on a cache miss, and the token's total supply.
`
}

func (*decimalsCmd) SetFlags(*flag.FlagSet) {}

func (*decimalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	chain, token := f.Arg(0), f.Arg(1)

	_, services, err := openServices(ctx, nil)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer services.Close()

	entry, err := services.Decimals.Entry(ctx, chain, token)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	fmt.Printf("chain:    %s\ntoken:    %s\nsymbol:   %s\ndecimals: %d\n", entry.Chain, entry.Token, entry.Symbol, entry.Decimals)

	reader, err := services.Gateway.Reader(ctx, chain)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	supply := reader.ReadUint(ctx, token, "totalSupply", nil)
	if supply != nil {
		fmt.Printf("supply:   %s\n", utils.FormatUnits(supply, entry.Decimals))
	}
	return subcommands.ExitSuccess
}

