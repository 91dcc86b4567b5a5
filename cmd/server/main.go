package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/auravault-backend/internal/adapter/grpc"
	leveldbrepo "github.com/simaogato/auravault-backend/internal/adapter/repository/leveldb"
	"github.com/simaogato/auravault-backend/internal/adapter/repository/memory"
	"github.com/simaogato/auravault-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/auravault-backend/internal/adapter/strategy"
	"github.com/simaogato/auravault-backend/internal/adapter/token"
	"github.com/simaogato/auravault-backend/internal/config"
	"github.com/simaogato/auravault-backend/internal/domain"
	"github.com/simaogato/auravault-backend/internal/logging"
	"github.com/simaogato/auravault-backend/internal/usecase/dashboard"
	"github.com/simaogato/auravault-backend/internal/usecase/seeder"
	"github.com/simaogato/auravault-backend/internal/usecase/vault"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "auravault: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// 1. Load configuration and logger
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ids, err := resolveIdentities(cfg)
	if err != nil {
		return err
	}
	vaultID, owner := ids.vault, ids.owner

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 2. Open the operation journal
	operationRepo, closer, err := openOperationRepository(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Info("operation journal ready", zap.String("driver", cfg.Storage.Driver))

	// 3. Initialize the asset ledger, the vault and its services
	assets := token.NewLedger()
	vaultService, err := vault.NewVaultService(
		vault.Metadata{
			Name:      cfg.Vault.Name,
			Symbol:    cfg.Vault.Symbol,
			Decimals:  cfg.Vault.Decimals,
			AssetCode: cfg.Vault.AssetCode,
		},
		owner,
		token.NewPort(assets, vaultID),
		operationRepo,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create vault: %w", err)
	}

	strategies := strategy.NewDirectory(vaultID, assets)
	dashboardService := dashboard.NewDashboardService(vaultService, operationRepo, logger)

	// Register the reference strategy and the configured ones
	strategySeeder := seeder.NewStrategySeeder(vaultService, strategies)
	added, err := strategySeeder.Seed(ctx, owner, append([]uuid.UUID{seeder.ReferenceStrategyID}, ids.strategies...))
	if err != nil {
		return fmt.Errorf("failed to seed strategies: %w", err)
	}
	logger.Info("strategies seeded", zap.Int("added", len(added)))

	// 4. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.UnaryInterceptor(grpcadapter.AuthInterceptor(cfg.Server.APIToken)),
	)
	grpcadapter.RegisterVaultServiceServer(grpcServer,
		grpcadapter.NewServer(vaultService, dashboardService, assets, strategies, vaultID))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("gRPC server listening", zap.String("addr", cfg.Server.Addr), zap.String("vault", vaultID.String()))
		return grpcServer.Serve(lis)
	})
	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down gracefully")
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("gRPC server: %w", err)
	}
	logger.Info("gRPC server stopped")
	return nil
}

type identities struct {
	vault      uuid.UUID
	owner      uuid.UUID
	strategies []uuid.UUID
}

// resolveIdentities parses the vault, owner and strategy ids of cfg
func resolveIdentities(cfg *config.Config) (identities, error) {
	vaultID, err := cfg.VaultID()
	if err != nil {
		return identities{}, fmt.Errorf("invalid config: %w", err)
	}
	owner, err := cfg.OwnerID()
	if err != nil {
		return identities{}, fmt.Errorf("invalid config: %w", err)
	}
	strategyIDs, err := cfg.StrategyIDs()
	if err != nil {
		return identities{}, fmt.Errorf("invalid config: %w", err)
	}
	return identities{vault: vaultID, owner: owner, strategies: strategyIDs}, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openOperationRepository opens the journal backend selected by cfg.Driver
func openOperationRepository(ctx context.Context, cfg config.StorageConfig) (domain.OperationRepository, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverLevelDB:
		db, err := leveldbrepo.Open(cfg.LevelDB.Path)
		if err != nil {
			return nil, nil, err
		}
		return leveldbrepo.NewOperationRepository(db), db, nil
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewOperationRepository(db), db, nil
	default:
		return memory.NewOperationRepository(), closerFunc(func() error { return nil }), nil
	}
}
