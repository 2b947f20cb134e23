package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"jobradar/common/database"
	"jobradar/common/telemetry"
	"jobradar/internal/catalog"
	"jobradar/internal/config"
	"jobradar/internal/models"
	"jobradar/internal/recommend"
	"jobradar/internal/server"
	"jobradar/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return zap.NewProduction()
}

// unavailableSelector stands in for the job store when ClickHouse is down
// at startup, pushing the loader straight to its CSV fallback.
type unavailableSelector struct {
	err error
}

func (u unavailableSelector) SelectRecent(context.Context, int) ([]models.JobPosting, error) {
	return nil, u.err
}

// newSelector connects to ClickHouse, degrading instead of failing: a down
// database must not stop the API from serving its CSV fallback.
func newSelector(cfg *config.Config, logger *zap.Logger) catalog.RecentSelector {
	db, err := database.New(context.Background(), database.Options{
		DSN:             cfg.ClickHouseDSN,
		MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
		Username:        cfg.ClickHouseUsername,
		Password:        cfg.ClickHousePassword,
		Database:        cfg.ClickHouseDatabase,
	}, logger)
	if err != nil {
		logger.Warn("clickhouse unavailable, catalog will use csv fallback", zap.Error(err))
		return unavailableSelector{err: err}
	}
	return storage.NewJobStore(db.Conn(), logger)
}

func newLoader(cfg *config.Config, selector catalog.RecentSelector, logger *zap.Logger) *catalog.Loader {
	return catalog.NewLoader(selector, logger, cfg.CatalogWindowDays, cfg.CatalogCSVDir)
}

func newEngine(logger *zap.Logger) *recommend.Engine {
	return recommend.NewEngine(logger)
}

func newRouter(logger *zap.Logger, engine *recommend.Engine, store *catalog.Store) *gin.Engine {
	handler := server.NewHandler(logger, engine, store)
	return server.NewRouter(handler, logger)
}

func registerHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	logger *zap.Logger,
	loader *catalog.Loader,
	store *catalog.Store,
	router *gin.Engine,
) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}
	refreshCtx, cancelRefresh := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			store.Swap(loader.Load(ctx))
			go loader.Run(refreshCtx, store, cfg.CatalogRefreshInterval)

			go func() {
				logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancelRefresh()
			return srv.Shutdown(ctx)
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newSelector,
			newLoader,
			catalog.NewStore,
			newEngine,
			newRouter,
		),
		fx.Invoke(
			func(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {
				if cfg.OTLPEndpoint == "" {
					return
				}
				shutdown, err := telemetry.InitTracer(context.Background(), "jobradar-api", cfg.OTLPEndpoint)
				if err != nil {
					logger.Warn("failed to init tracing, continuing without", zap.Error(err))
					return
				}
				lc.Append(fx.Hook{OnStop: func(context.Context) error {
					shutdown()
					return nil
				}})
			},
			registerHooks,
		),
	)

	startCtx := context.Background()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx := context.Background()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
