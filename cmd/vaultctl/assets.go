package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/google/uuid"
)

type mintCmd struct {
	holder string
}

func (*mintCmd) Name() string     { return "mint" }
func (*mintCmd) Synopsis() string { return "create development asset units" }
func (*mintCmd) Usage() string {
	return `vaultctl [-as <caller>] mint [-holder <id>] <amount>

  Mints underlying asset units on the server's development ledger. Minting to a
  strategy identity simulates yield that the strategy can then harvest.
`
}

func (c *mintCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holder, "holder", "", "account credited (defaults to the caller)")
}

func (c *mintCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		if err := requireArgs(f.Args(), 1, "mint <amount>"); err != nil {
			return err
		}
		amount, err := s.assets.Parse(f.Arg(0))
		if err != nil {
			return err
		}
		holder, err := optionalID("holder", c.holder)
		if err != nil {
			return err
		}

		wallet, err := s.client.MintAsset(ctx, holder, amount)
		if err != nil {
			return err
		}
		fmt.Printf("%s now holds %s\n", wallet.Holder, s.assets.Format(wallet.Balance))
		return nil
	})
}

type approveCmd struct {
	spender string
}

func (*approveCmd) Name() string     { return "approve" }
func (*approveCmd) Synopsis() string { return "allow the vault to pull the caller's assets" }
func (*approveCmd) Usage() string {
	return "vaultctl -as <caller> approve [-spender <id>] <amount>\n"
}

func (c *approveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.spender, "spender", "", "account allowed to pull assets (defaults to the vault)")
}

func (c *approveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		if err := requireArgs(f.Args(), 1, "approve <amount>"); err != nil {
			return err
		}
		amount, err := s.assets.Parse(f.Arg(0))
		if err != nil {
			return err
		}
		spender, err := optionalID("spender", c.spender)
		if err != nil {
			return err
		}
		if err := s.client.ApproveAsset(ctx, spender, amount); err != nil {
			return err
		}
		if spender == uuid.Nil {
			spender = s.vault.ID
		}
		fmt.Printf("%s may pull %s\n", spender, s.assets.Format(amount))
		return nil
	})
}

type harvestCmd struct{}

func (*harvestCmd) Name() string           { return "harvest" }
func (*harvestCmd) Synopsis() string       { return "make a reference strategy report its pending profit" }
func (*harvestCmd) Usage() string          { return "vaultctl harvest <strategy-id>\n" }
func (*harvestCmd) SetFlags(*flag.FlagSet) {}

func (*harvestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		id, err := strategyArg(f, "harvest")
		if err != nil {
			return err
		}
		reported, err := s.client.Harvest(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("strategy %s reported %s\n", id, s.assets.Format(reported))
		return nil
	})
}
