// Command export dumps the recent catalog window from ClickHouse to a
// timestamped CSV. The API uses the newest export as its serving fallback
// when the database is unreachable.
package main

import (
	"context"
	"flag"
	"log"

	"jobradar/common/database"
	"jobradar/internal/catalog"
	"jobradar/internal/config"
	"jobradar/internal/storage"

	"go.uber.org/zap"
)

func main() {
	var (
		dir  = flag.String("dir", "", "output directory (default: CATALOG_CSV_DIR)")
		days = flag.Int("days", 0, "window in days (default: CATALOG_WINDOW_DAYS)")
	)
	flag.Parse()

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
	if *dir == "" {
		*dir = cfg.CatalogCSVDir
	}
	if *days <= 0 {
		*days = cfg.CatalogWindowDays
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

	store := storage.NewJobStore(db.Conn(), logger)
	postings, err := store.SelectRecent(ctx, *days)
	if err != nil {
		logger.Fatal("failed to load postings", zap.Error(err))
	}

	path, err := catalog.WriteCSV(*dir, postings)
	if err != nil {
		logger.Fatal("failed to write csv", zap.Error(err))
	}

	logger.Info("catalog exported",
		zap.String("path", path),
		zap.Int("postings", len(postings)),
		zap.Int("window_days", *days))
}
