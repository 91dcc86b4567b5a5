package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	grpcadapter "github.com/simaogato/auravault-backend/internal/adapter/grpc"
)

type infoCmd struct{}

func (*infoCmd) Name() string           { return "info" }
func (*infoCmd) Synopsis() string       { return "display the vault summary" }
func (*infoCmd) Usage() string          { return "vaultctl info\n" }
func (*infoCmd) SetFlags(*flag.FlagSet) {}

func (*infoCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		v := s.vault
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Vault\t%s (%s)\n", v.Name, v.Symbol)
		fmt.Fprintf(w, "ID\t%s\n", v.ID)
		fmt.Fprintf(w, "Owner\t%s\n", v.Owner)
		fmt.Fprintf(w, "Paused\t%t\n", v.Paused)
		fmt.Fprintf(w, "Total assets\t%s\n", s.assets.Format(v.TotalAssets))
		fmt.Fprintf(w, "Idle\t%s\n", s.assets.Format(v.IdleAssets))
		fmt.Fprintf(w, "Allocated\t%s\n", s.assets.Format(v.AllocatedAssets))
		fmt.Fprintf(w, "Total shares\t%s\n", s.shares.Format(v.TotalShares))
		fmt.Fprintf(w, "Price per share\t%s\n", s.assets.Format(v.PricePerShare))
		fmt.Fprintf(w, "Operations\t%d\n", v.Operations)
		if err := w.Flush(); err != nil {
			return err
		}

		if len(v.Strategies) > 0 {
			fmt.Println()
			return printStrategies(s, v.Strategies)
		}
		return nil
	})
}

type balanceCmd struct {
	holder string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display the share position of a holder" }
func (*balanceCmd) Usage() string {
	return "vaultctl [-as <caller>] balance [-holder <id>]\n"
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holder, "holder", "", "holder to inspect (defaults to the caller)")
}

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		holder, err := optionalID("holder", c.holder)
		if err != nil {
			return err
		}
		balance, err := s.client.BalanceOf(ctx, holder)
		if err != nil {
			return err
		}
		wallet, err := s.client.AssetBalance(ctx, balance.Holder)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Holder\t%s\n", balance.Holder)
		fmt.Fprintf(w, "Shares\t%s\n", s.shares.Format(balance.Shares))
		fmt.Fprintf(w, "Worth\t%s\n", s.assets.Format(balance.Assets))
		fmt.Fprintf(w, "Max withdraw\t%s\n", s.assets.Format(balance.MaxWithdraw))
		fmt.Fprintf(w, "Max redeem\t%s\n", s.shares.Format(balance.MaxRedeem))
		fmt.Fprintf(w, "Wallet\t%s\n", s.assets.Format(wallet.Balance))
		fmt.Fprintf(w, "Vault allowance\t%s\n", s.assets.Format(wallet.VaultAllowance))
		fmt.Fprintf(w, "Asset supply\t%s\n", s.assets.Format(wallet.TotalSupply))
		return w.Flush()
	})
}

type strategiesCmd struct{}

func (*strategiesCmd) Name() string           { return "strategies" }
func (*strategiesCmd) Synopsis() string       { return "list registered strategies in registration order" }
func (*strategiesCmd) Usage() string          { return "vaultctl strategies\n" }
func (*strategiesCmd) SetFlags(*flag.FlagSet) {}

func (*strategiesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		ids, err := s.client.ListStrategies(ctx)
		if err != nil {
			return err
		}
		strategies := make([]grpcadapter.StrategyInfo, 0, len(ids))
		for _, id := range ids {
			st, err := s.client.GetStrategy(ctx, id)
			if err != nil {
				return err
			}
			strategies = append(strategies, st)
		}
		return printStrategies(s, strategies)
	})
}

func printStrategies(s *session, strategies []grpcadapter.StrategyInfo) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSTRATEGY\tACTIVE\tALLOCATED\tPENDING PROFIT")
	for i, st := range strategies {
		pending := s.assets.Format(st.PendingProfit)
		if st.PendingError != "" {
			pending = "unavailable: " + st.PendingError
		}
		fmt.Fprintf(w, "%d\t%s\t%t\t%s\t%s\n", i, st.ID, st.Active, s.assets.Format(st.AllocatedAssets), pending)
	}
	return w.Flush()
}

type historyCmd struct {
	limit  int
	offset int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list committed operations, newest first" }
func (*historyCmd) Usage() string    { return "vaultctl history [-n <limit>] [-offset <n>]\n" }

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "number of operations to show")
	f.IntVar(&c.offset, "offset", 0, "number of newer operations to skip")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		page, err := s.client.ListOperations(ctx, c.limit, c.offset)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tKIND\tCALLER\tASSETS\tSHARES\tTOTAL ASSETS")
		for _, op := range page.Operations {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				op.Date.Format("2006-01-02 15:04:05"), op.Kind, shortID(op.Caller),
				s.assets.Format(op.Assets), s.shares.Format(op.Shares), s.assets.Format(op.TotalAssets))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d of %d operations\n", len(page.Operations), page.TotalCount)
		return nil
	})
}

func shortID(id uuid.UUID) string { return id.String()[:8] }

type previewCmd struct {
	owner string
}

func (*previewCmd) Name() string     { return "preview" }
func (*previewCmd) Synopsis() string { return "compute a conversion at the current exchange rate" }
func (*previewCmd) Usage() string {
	return `vaultctl preview <kind> [<amount>] [-owner <id>]

  kind is one of deposit, withdraw, redeem, convert_to_shares, convert_to_assets
  (which take an amount) or max_withdraw, max_redeem (which read -owner).
`
}

func (c *previewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "owner for max_* kinds (defaults to the caller)")
}

func (c *previewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		if f.NArg() == 0 {
			return fmt.Errorf("usage: preview <kind> [<amount>]")
		}
		kind := f.Arg(0)
		in, out := previewUnits(s, kind)

		amount := decimal.Zero
		if kind != grpcadapter.PreviewMaxWithdraw && kind != grpcadapter.PreviewMaxRedeem {
			if err := requireArgs(f.Args(), 2, "preview <kind> <amount>"); err != nil {
				return err
			}
			parsed, err := in.Parse(f.Arg(1))
			if err != nil {
				return err
			}
			amount = parsed
		}
		owner, err := optionalID("owner", c.owner)
		if err != nil {
			return err
		}

		result, err := s.client.Preview(ctx, kind, amount, owner)
		if err != nil {
			return err
		}
		fmt.Println(out.Format(result))
		return nil
	})
}

// previewUnits returns the input and output units of a preview kind
func previewUnits(s *session, kind string) (*unitFormat, *unitFormat) {
	switch kind {
	case grpcadapter.PreviewDeposit, grpcadapter.PreviewConvertToShares, grpcadapter.PreviewWithdraw:
		return s.assets, s.shares
	case grpcadapter.PreviewMaxRedeem:
		return s.shares, s.shares
	case grpcadapter.PreviewMaxWithdraw:
		return s.assets, s.assets
	default:
		return s.shares, s.assets
	}
}
