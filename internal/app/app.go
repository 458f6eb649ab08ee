package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/fatura-gateway/internal/config"
	"github.com/markdave123-py/fatura-gateway/internal/core/capability"
	db "github.com/markdave123-py/fatura-gateway/internal/core/database"
	"github.com/markdave123-py/fatura-gateway/internal/core/engines/remote"
	"github.com/markdave123-py/fatura-gateway/internal/core/engines/vendorcli"
	"github.com/markdave123-py/fatura-gateway/internal/core/ingestion_engine"
	objectclient "github.com/markdave123-py/fatura-gateway/internal/core/object-client"
	"github.com/markdave123-py/fatura-gateway/internal/core/uploadstore"
	"github.com/markdave123-py/fatura-gateway/internal/services"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Capability *capability.Capability // nil when no engine could be bound
	Pipeline   *ingestion_engine.Pipeline
	DBClient   db.DbClient
	Server     *Server
	logger     zerolog.Logger
}

// NewApp resolves the engine and wires the optional audit log and archive.
// A missing engine is not fatal: the service starts and reports it on
// /health.
func NewApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	capab, err := ResolveCapability(appCtx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Str("vendor_dir", cfg.VendorDir).Msg("invoice analysis engine unavailable")
	}

	store, err := uploadstore.NewStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}

	a := &App{Capability: capab, logger: logger}
	var opts []ingestion_engine.Option

	if cfg.DatabaseURL != "" {
		dbClient, err := db.NewDatabaseClient(appCtx, cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("audit log disabled")
		} else {
			logger.Info().Msg("database initialized and ready")
			a.DBClient = dbClient
			opts = append(opts, ingestion_engine.WithRecorder(dbClient))
		}
	}

	if cfg.ArchiveBucket != "" {
		objClient, err := objectclient.NewS3Client(appCtx, cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("upload archive disabled")
		} else {
			logger.Info().Str("bucket", cfg.ArchiveBucket).Msg("object client initialized and ready")
			opts = append(opts, ingestion_engine.WithArchiver(objectclient.NewArchiver(objClient, cfg.ArchiveBucket)))
		}
	}

	// an unresolved capability must reach the pipeline as a nil interface
	var analyzer ingestion_engine.Analyzer
	if capab != nil {
		analyzer = capab
	}
	ingCfg := ingestion_engine.IngestConfig{
		Verbose:         cfg.Verbose,
		AnalysisTimeout: cfg.AnalysisTimeout,
	}
	a.Pipeline = ingestion_engine.NewPipeline(store, analyzer, ingCfg, logger, opts...)

	var lister services.AnalysisLister
	if a.DBClient != nil {
		lister = a.DBClient
	}
	a.Server = NewServer(cfg, RouterDeps{
		Pipeline:  a.Pipeline,
		Analyses:  services.NewAnalysisService(lister),
		JWTSecret: cfg.JWTSecret,
		Origins:   cfg.CORSOrigins,
		Logger:    logger,
	})
	return a, nil
}

// ResolveCapability registers the engine adapters and binds the first
// candidate that can be constructed.
func ResolveCapability(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*capability.Capability, error) {
	reg := capability.NewRegistry()
	if err := vendorcli.Register(reg, cfg.VendorDir, logger); err != nil {
		return nil, err
	}
	if err := remote.Register(reg, cfg.EngineURL, logger); err != nil {
		return nil, err
	}
	logger.Debug().Strs("modules", reg.Modules()).Msg("engine modules registered")

	candidates := capability.DefaultCandidates(cfg.EngineConfigPath)
	return capability.NewResolver(reg, logger, candidates...).Resolve(ctx)
}

// Run serves until ctx is cancelled, then shuts the server down.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.Server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a.DBClient != nil {
		if err := a.DBClient.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("close database")
		}
	}
}
