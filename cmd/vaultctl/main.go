package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var (
	addr   = flag.String("addr", envOr("GRPC_ADDR", "localhost:8080"), "address of the vault gRPC server")
	token  = flag.String("token", envOr("API_TOKEN", "dev-token"), "API token sent as the authorization header")
	caller = flag.String("as", os.Getenv("VAULT_CALLER"), "identity (UUID) the command acts as")
	raw    = flag.Bool("raw", false, "read and print amounts in smallest units")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&depositCmd{}, "vault")
	c.Register(&withdrawCmd{}, "vault")
	c.Register(&redeemCmd{}, "vault")
	c.Register(&transferSharesCmd{}, "vault")
	c.Register(&approveSharesCmd{}, "vault")
	c.Register(&reportProfitCmd{}, "vault")

	c.Register(&addStrategyCmd{}, "admin")
	c.Register(&removeStrategyCmd{}, "admin")
	c.Register(&recallStrategyCmd{}, "admin")
	c.Register(&pauseCmd{}, "admin")
	c.Register(&unpauseCmd{}, "admin")
	c.Register(&transferOwnershipCmd{}, "admin")

	c.Register(&infoCmd{}, "queries")
	c.Register(&balanceCmd{}, "queries")
	c.Register(&strategiesCmd{}, "queries")
	c.Register(&historyCmd{}, "queries")
	c.Register(&previewCmd{}, "queries")

	c.Register(&mintCmd{}, "assets")
	c.Register(&approveCmd{}, "assets")
	c.Register(&harvestCmd{}, "assets")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
