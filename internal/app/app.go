package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chrissnell/sstclim/internal/cache"
	"github.com/chrissnell/sstclim/internal/controllers/restserver"
	"github.com/chrissnell/sstclim/internal/log"
	"github.com/chrissnell/sstclim/internal/service"
	"github.com/chrissnell/sstclim/pkg/config"
	"github.com/chrissnell/sstclim/pkg/gridstore"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	var dailyCache *cache.Cache
	if cfg.Cache.Path != "" {
		dailyCache, err = cache.Open(cfg.Cache.Path)
		if err != nil {
			return fmt.Errorf("error opening daily grid cache: %w", err)
		}
		defer dailyCache.Close()
		a.logger.Infof("caching daily grids in %s", cfg.Cache.Path)
	}

	svc := service.New(dailyCache, a.logger)
	if err := LoadSources(ctx, svc, cfg.Climatology); err != nil {
		return err
	}

	ctrl, err := restserver.NewController(ctx, &wg, cfg.REST, svc, a.logger)
	if err != nil {
		return err
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}

// LoadSources reads every configured grid store and registers its variable
// with svc. A file named by several sources is read once.
func LoadSources(ctx context.Context, svc *service.Service, sources []config.ClimatologyData) error {
	files := make(map[string]*gridstore.File)

	for _, src := range sources {
		f, ok := files[src.File]
		if !ok {
			var err error
			f, err = gridstore.Open(src.File)
			if err != nil {
				return fmt.Errorf("error loading climatology %s: %w", src.ExposedName(), err)
			}
			files[src.File] = f
		}

		field, err := f.Field(src.Name)
		if err != nil {
			return fmt.Errorf("error loading climatology %s from %s: %w", src.ExposedName(), src.File, err)
		}
		svc.Register(ctx, src.ExposedName(), field)
	}

	return nil
}
