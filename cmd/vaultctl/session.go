package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcadapter "github.com/simaogato/auravault-backend/internal/adapter/grpc"
)

const callTimeout = 10 * time.Second

// session is a connection to the vault server with the vault's display units resolved
type session struct {
	client *grpcadapter.Client
	vault  *grpcadapter.VaultInfo
	assets *unitFormat
	shares *unitFormat
}

// withSession dials the server, runs fn and reports its error the way subcommands expect
func withSession(ctx context.Context, fn func(ctx context.Context, s *session) error) subcommands.ExitStatus {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", *addr, err)
		return subcommands.ExitFailure
	}
	defer conn.Close()

	client := grpcadapter.NewClient(conn, *token)
	if *caller != "" {
		id, err := uuid.Parse(*caller)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -as identity: %v\n", err)
			return subcommands.ExitUsageError
		}
		client = client.As(id)
	}

	info, err := client.GetVault(ctx)
	if err != nil {
		report(err)
		return subcommands.ExitFailure
	}

	s := &session{
		client: client,
		vault:  info,
		assets: newUnitFormat(info.AssetCode, info.Decimals, *raw),
		shares: newUnitFormat(info.Symbol, info.Decimals, *raw),
	}
	if err := fn(ctx, s); err != nil {
		report(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// report prints err, prefixed with its vault error code when the server sent one
func report(err error) {
	if code := grpcadapter.ErrorCode(err); code != "" {
		fmt.Fprintf(os.Stderr, "%s: %v\n", code, err)
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

// optionalID parses an optional identity flag; "" yields uuid.Nil so the server falls back to the caller
func optionalID(name, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

// requireArgs checks the positional argument count
func requireArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}
