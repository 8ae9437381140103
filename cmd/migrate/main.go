package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-kit/log/level"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/config"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/database"
	applog "github.com/prajwalbharadwajbm/crmbeacon/internal/logger"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/repository"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/store"
	"github.com/spf13/cobra"
)

func main() {
	config.LoadConfigs()
	cfg := config.AppConfigInstance

	if err := rootCommand(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "[ERROR]", err)
		os.Exit(1)
	}
}

func rootCommand(cfg config.AppConfig) *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "manage the crmbeacon postgres schema and demo data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		upCommand(cfg),
		downCommand(cfg),
		stepsCommand(cfg),
		versionCommand(cfg),
		forceCommand(cfg),
		seedCommand(cfg),
	)
	return root
}

func upCommand(cfg config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.EnsureDatabase(cfg.DatabaseConfig); err != nil {
				return err
			}
			if err := database.NewMigrationManager(cfg.DatabaseConfig).Up(); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}

func downCommand(cfg config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "roll back all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.NewMigrationManager(cfg.DatabaseConfig).Down(); err != nil {
				return err
			}
			fmt.Println("migrations rolled back")
			return nil
		},
	}
}

func stepsCommand(cfg config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "steps N",
		Short: "apply N migrations, or roll back when N is negative",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q: %w", args[0], err)
			}
			return database.NewMigrationManager(cfg.DatabaseConfig).Steps(n)
		},
	}
}

func versionCommand(cfg config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			version, dirty, err := database.NewMigrationManager(cfg.DatabaseConfig).Version()
			if err != nil {
				return err
			}
			fmt.Printf("version=%d dirty=%t\n", version, dirty)
			return nil
		},
	}
}

func forceCommand(cfg config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "force VERSION",
		Short: "set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return database.NewMigrationManager(cfg.DatabaseConfig).Force(version)
		},
	}
}

// seedCommand overwrites the three collections of the configured backend
// with demo data. Versions are ignored.
func seedCommand(cfg config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "write demo campaigns, customers and segments",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := applog.New(applog.Config{
				Service: "crmbeacon-migrate",
				Level:   cfg.GeneralConfig.LogLevel,
			})

			st, closeStore, err := seedTarget(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			data := repository.DemoSeedData()
			if err := repository.Seed(context.Background(), st, data); err != nil {
				return err
			}

			level.Info(logger).Log(
				"msg", "seeded demo data",
				"store", cfg.StoreConfig.Backend,
				"campaigns", len(data.Campaigns),
				"customers", len(data.Customers),
				"segments", len(data.Segments),
			)
			return nil
		},
	}
}

func seedTarget(cfg config.AppConfig) (store.Store, func() error, error) {
	switch cfg.StoreConfig.Backend {
	case config.StoreBackendPostgres:
		db, cleanup, err := database.Initialize(cfg.DatabaseConfig)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresStore(db), cleanup, nil
	case config.StoreBackendRedis:
		rs, err := store.NewRedisStore(store.RedisOptions{
			Addr:     cfg.StoreConfig.RedisAddr,
			Password: cfg.StoreConfig.RedisPassword,
			DB:       cfg.StoreConfig.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return rs, rs.Close, nil
	default:
		return nil, nil, errors.New("seeding needs a persistent STORE_BACKEND (postgres or redis); use SEED_DEMO_DATA=true with the memory backend")
	}
}
