package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facebookgo/grace/gracehttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"users-backend/config"
	"users-backend/constant"
	"users-backend/cron"
	"users-backend/db"
	"users-backend/logging"
	"users-backend/route"
	"users-backend/services"
)

var version = "dev"

var (
	configPath string
	seedCount  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "users-backend",
		Short:        "CRUD API over a single users table",
		RunE:         runServe,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "path to config.json (environment variables override it)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Connect, ensure the schema and serve HTTP",
		RunE:  runServe,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Connect and create the users table if it is missing",
		RunE:  runMigrate,
	})

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert fake users in one batch",
		RunE:  runSeed,
	}
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", constant.SEED_COUNT, "number of users to insert")
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("users-backend %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration, sets up logging, connects with retries and
// ensures the schema. Nothing is served until it returns.
func bootstrap(ctx context.Context) (config.Configuration, *db.Pool, error) {
	configuration, err := config.Load(configPath)
	if err != nil {
		return configuration, nil, fmt.Errorf("load config: %w", err)
	}
	logging.Apply(configuration.LOG_LEVEL, configuration.LOG_FILE)

	pool, err := db.Connect(ctx, configuration.DATABASE_URL, db.Options{
		MaxOpenConns:    configuration.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    configuration.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: configuration.ConnMaxLifetime(),
		LogSQL:          configuration.LOG_LEVEL == "trace",
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to database")
		return configuration, nil, err
	}

	if err := db.InitSchema(pool); err != nil {
		log.Error().Err(err).Msg("Failed to initialise schema")
		_ = pool.Close()
		return configuration, nil, err
	}
	return configuration, pool, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configuration, pool, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	monitor := cron.Start(pool, configuration.MonitorInterval())
	defer monitor.Stop()

	e := route.Init(pool, configuration)
	addr := ":" + configuration.RUN_PORT
	log.Info().Str("version", version).Str("addr", addr).Msg("Starting users-backend")

	if configuration.GRACEFUL {
		// gracehttp handles SIGTERM and SIGUSR2 restarts itself
		e.Server.Addr = addr
		return gracehttp.Serve(e.Server)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, pool, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info().Msg("Schema is up to date")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedCount < 0 {
		return fmt.Errorf("--count must not be negative")
	}
	_, pool, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := services.NewUserRepository(pool)
	inserted, err := services.NewSeeder(repo, 0).Seed(cmd.Context(), seedCount)
	if err != nil {
		return err
	}
	log.Info().Int("inserted", inserted).Msg("Seeding finished")
	return nil
}
