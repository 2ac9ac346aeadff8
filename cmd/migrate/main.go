// Command migrate applies the embedded Postgres schema with goose.
//
//	migrate [up|down|status|version|redo|reset] [args...]
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"dispatch/internal/pkg/config"
	"dispatch/internal/pkg/dotenv"
	"dispatch/internal/pkg/migrations"
	"dispatch/internal/pkg/postgres"
	"dispatch/pkg/logger"
	"dispatch/pkg/logger/zap_adapter"

	"github.com/jackc/pgx/v5/stdlib"
)

func main() {
	loaded, envErr := dotenv.Load()

	zapLogger, err := zap_adapter.NewZapAdapter("info")
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	log := zapLogger.With(logger.NewField("app", "dispatch-migrate"))
	switch {
	case envErr != nil:
		log.Error("failed to load .env file", logger.ErrorField(envErr))
		os.Exit(1)
	case !loaded:
		log.Warn("no .env file found, using system environment variables")
	}

	command, args := "up", []string(nil)
	if flag.NArg() > 0 {
		command, args = flag.Arg(0), flag.Args()[1:]
	}

	if err := run(context.Background(), log, command, args); err != nil {
		log.Error("migration failed",
			logger.NewField("command", command),
			logger.ErrorField(err),
		)
		os.Exit(1)
	}
	log.Info("migration finished", logger.NewField("command", command))
}

func run(ctx context.Context, log logger.Logger, command string, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("load database config: %w", err)
	}

	pool, err := postgres.NewConnPool(ctx, log, dbCfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return migrations.Run(ctx, db, command, args...)
}
