package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/google/uuid"
)

// strategyArg parses the single strategy id argument of the strategy commands
func strategyArg(f *flag.FlagSet, name string) (uuid.UUID, error) {
	if err := requireArgs(f.Args(), 1, name+" <strategy-id>"); err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(f.Arg(0))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid strategy id: %w", err)
	}
	return id, nil
}

type addStrategyCmd struct{}

func (*addStrategyCmd) Name() string { return "add-strategy" }
func (*addStrategyCmd) Synopsis() string {
	return "register a reference strategy as the deposit destination"
}
func (*addStrategyCmd) Usage() string          { return "vaultctl -as <owner> add-strategy <strategy-id>\n" }
func (*addStrategyCmd) SetFlags(*flag.FlagSet) {}

func (*addStrategyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		id, err := strategyArg(f, "add-strategy")
		if err != nil {
			return err
		}
		if err := s.client.AddStrategy(ctx, id); err != nil {
			return err
		}
		fmt.Printf("strategy %s added\n", id)
		return nil
	})
}

type removeStrategyCmd struct{}

func (*removeStrategyCmd) Name() string           { return "remove-strategy" }
func (*removeStrategyCmd) Synopsis() string       { return "deactivate a strategy with no allocation" }
func (*removeStrategyCmd) Usage() string          { return "vaultctl -as <owner> remove-strategy <strategy-id>\n" }
func (*removeStrategyCmd) SetFlags(*flag.FlagSet) {}

func (*removeStrategyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		id, err := strategyArg(f, "remove-strategy")
		if err != nil {
			return err
		}
		if err := s.client.RemoveStrategy(ctx, id); err != nil {
			return err
		}
		fmt.Printf("strategy %s removed\n", id)
		return nil
	})
}

type recallStrategyCmd struct{}

func (*recallStrategyCmd) Name() string { return "recall-strategy" }
func (*recallStrategyCmd) Synopsis() string {
	return "move a strategy's whole allocation back to idle"
}
func (*recallStrategyCmd) Usage() string          { return "vaultctl -as <owner> recall-strategy <strategy-id>\n" }
func (*recallStrategyCmd) SetFlags(*flag.FlagSet) {}

func (*recallStrategyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		id, err := strategyArg(f, "recall-strategy")
		if err != nil {
			return err
		}
		recalled, err := s.client.RecallStrategy(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("recalled %s from %s\n", s.assets.Format(recalled), id)
		return nil
	})
}

type pauseCmd struct{}

func (*pauseCmd) Name() string           { return "pause" }
func (*pauseCmd) Synopsis() string       { return "stop accepting deposits" }
func (*pauseCmd) Usage() string          { return "vaultctl -as <owner> pause\n" }
func (*pauseCmd) SetFlags(*flag.FlagSet) {}

func (*pauseCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		if err := s.client.Pause(ctx); err != nil {
			return err
		}
		fmt.Println("vault paused")
		return nil
	})
}

type unpauseCmd struct{}

func (*unpauseCmd) Name() string           { return "unpause" }
func (*unpauseCmd) Synopsis() string       { return "resume accepting deposits" }
func (*unpauseCmd) Usage() string          { return "vaultctl -as <owner> unpause\n" }
func (*unpauseCmd) SetFlags(*flag.FlagSet) {}

func (*unpauseCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		if err := s.client.Unpause(ctx); err != nil {
			return err
		}
		fmt.Println("vault unpaused")
		return nil
	})
}

type transferOwnershipCmd struct{}

func (*transferOwnershipCmd) Name() string     { return "transfer-ownership" }
func (*transferOwnershipCmd) Synopsis() string { return "hand the owner role to another identity" }
func (*transferOwnershipCmd) Usage() string {
	return "vaultctl -as <owner> transfer-ownership <new-owner>\n"
}
func (*transferOwnershipCmd) SetFlags(*flag.FlagSet) {}

func (*transferOwnershipCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(ctx context.Context, s *session) error {
		if err := requireArgs(f.Args(), 1, "transfer-ownership <new-owner>"); err != nil {
			return err
		}
		next, err := uuid.Parse(f.Arg(0))
		if err != nil {
			return fmt.Errorf("invalid owner: %w", err)
		}
		if err := s.client.TransferOwnership(ctx, next); err != nil {
			return err
		}
		fmt.Printf("ownership transferred to %s\n", next)
		return nil
	})
}
