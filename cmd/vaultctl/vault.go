package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/google/uuid"
)

type depositCmd struct {
	receiver string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "deposit assets into the vault and receive shares" }
func (*depositCmd) Usage() string {
	return `vaultctl -as <caller> deposit [-receiver <id>] <amount>

  Pulls <amount> of the underlying asset from the caller (approve it first) and
  mints the corresponding shares to the receiver, the caller by default.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.receiver, "receiver", "", "identity credited with the minted shares")
}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		if err := requireArgs(f.Args(), 1, "deposit <amount>"); err != nil {
			return err
		}
		assets, err := s.assets.Parse(f.Arg(0))
		if err != nil {
			return err
		}
		receiver, err := optionalID("receiver", c.receiver)
		if err != nil {
			return err
		}

		minted, err := s.client.Deposit(ctx, assets, receiver)
		if err != nil {
			return err
		}
		fmt.Printf("deposited %s, minted %s\n", s.assets.Format(assets), s.shares.Format(minted))
		return nil
	})
}

// exitFlags are shared by withdraw and redeem
type exitFlags struct {
	receiver string
	owner    string
}

func (e *exitFlags) set(f *flag.FlagSet) {
	f.StringVar(&e.receiver, "receiver", "", "identity paid the assets (defaults to the caller)")
	f.StringVar(&e.owner, "owner", "", "identity whose shares are burned (defaults to the caller)")
}

func (e *exitFlags) parse() (uuid.UUID, uuid.UUID, error) {
	receiver, err := optionalID("receiver", e.receiver)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	owner, err := optionalID("owner", e.owner)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return receiver, owner, nil
}

type withdrawCmd struct {
	exitFlags
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "withdraw an exact amount of assets by burning shares" }
func (*withdrawCmd) Usage() string {
	return `vaultctl -as <caller> withdraw [-receiver <id>] [-owner <id>] <amount>
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		if err := requireArgs(f.Args(), 1, "withdraw <amount>"); err != nil {
			return err
		}
		assets, err := s.assets.Parse(f.Arg(0))
		if err != nil {
			return err
		}
		receiver, owner, err := c.parse()
		if err != nil {
			return err
		}

		burned, err := s.client.Withdraw(ctx, assets, receiver, owner)
		if err != nil {
			return err
		}
		fmt.Printf("withdrew %s, burned %s\n", s.assets.Format(assets), s.shares.Format(burned))
		return nil
	})
}

type redeemCmd struct {
	exitFlags
}

func (*redeemCmd) Name() string     { return "redeem" }
func (*redeemCmd) Synopsis() string { return "burn an exact amount of shares for assets" }
func (*redeemCmd) Usage() string {
	return `vaultctl -as <caller> redeem [-receiver <id>] [-owner <id>] <shares>
`
}

func (c *redeemCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *redeemCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		if err := requireArgs(f.Args(), 1, "redeem <shares>"); err != nil {
			return err
		}
		shares, err := s.shares.Parse(f.Arg(0))
		if err != nil {
			return err
		}
		receiver, owner, err := c.parse()
		if err != nil {
			return err
		}

		assets, err := s.client.Redeem(ctx, shares, receiver, owner)
		if err != nil {
			return err
		}
		fmt.Printf("redeemed %s for %s\n", s.shares.Format(shares), s.assets.Format(assets))
		return nil
	})
}

type transferSharesCmd struct{}

func (*transferSharesCmd) Name() string           { return "transfer-shares" }
func (*transferSharesCmd) Synopsis() string       { return "move shares from the caller to another holder" }
func (*transferSharesCmd) Usage() string          { return "vaultctl -as <caller> transfer-shares <to> <shares>\n" }
func (*transferSharesCmd) SetFlags(*flag.FlagSet) {}

func (*transferSharesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		if err := requireArgs(f.Args(), 2, "transfer-shares <to> <shares>"); err != nil {
			return err
		}
		to, err := uuid.Parse(f.Arg(0))
		if err != nil {
			return fmt.Errorf("invalid recipient: %w", err)
		}
		shares, err := s.shares.Parse(f.Arg(1))
		if err != nil {
			return err
		}
		if err := s.client.TransferShares(ctx, to, shares); err != nil {
			return err
		}
		fmt.Printf("transferred %s to %s\n", s.shares.Format(shares), to)
		return nil
	})
}

type approveSharesCmd struct{}

func (*approveSharesCmd) Name() string { return "approve-shares" }
func (*approveSharesCmd) Synopsis() string {
	return "allow a spender to withdraw or redeem the caller's shares"
}
func (*approveSharesCmd) Usage() string          { return "vaultctl -as <caller> approve-shares <spender> <shares>\n" }
func (*approveSharesCmd) SetFlags(*flag.FlagSet) {}

func (*approveSharesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		if err := requireArgs(f.Args(), 2, "approve-shares <spender> <shares>"); err != nil {
			return err
		}
		spender, err := uuid.Parse(f.Arg(0))
		if err != nil {
			return fmt.Errorf("invalid spender: %w", err)
		}
		shares, err := s.shares.Parse(f.Arg(1))
		if err != nil {
			return err
		}
		if err := s.client.ApproveShares(ctx, spender, shares); err != nil {
			return err
		}
		fmt.Printf("%s may spend %s\n", spender, s.shares.Format(shares))
		return nil
	})
}

type reportProfitCmd struct{}

func (*reportProfitCmd) Name() string { return "report-profit" }
func (*reportProfitCmd) Synopsis() string {
	return "credit a realized gain to the vault (caller must be a strategy)"
}
func (*reportProfitCmd) Usage() string          { return "vaultctl -as <strategy> report-profit <amount>\n" }
func (*reportProfitCmd) SetFlags(*flag.FlagSet) {}

func (*reportProfitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		if err := requireArgs(f.Args(), 1, "report-profit <amount>"); err != nil {
			return err
		}
		amount, err := s.assets.Parse(f.Arg(0))
		if err != nil {
			return err
		}
		if err := s.client.ReportProfit(ctx, amount); err != nil {
			return err
		}
		fmt.Printf("reported %s of profit\n", s.assets.Format(amount))
		return nil
	})
}
