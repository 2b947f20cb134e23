package main

import (
	"context"
	"log"

	"jobradar/common/database"
	"jobradar/common/database/schema"
	"jobradar/common/database/schema/migrations"
	"jobradar/internal/config"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.New(ctx, database.Options{
		DSN:             cfg.ClickHouseDSN,
		MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
		Username:        cfg.ClickHouseUsername,
		Password:        cfg.ClickHousePassword,
		Database:        cfg.ClickHouseDatabase,
	}, logger)
	if err != nil {
		logger.Fatal("failed to connect to clickhouse", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	migrator := schema.NewMigrator(db.Conn(), logger)
	if err := migrator.CreateMigrationsTable(ctx); err != nil {
		logger.Fatal("failed to create migrations table", zap.Error(err))
	}
	if err := migrator.Apply(ctx, migrations.All); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}

	logger.Info("migrations applied", zap.Int("count", len(migrations.All)))
}
