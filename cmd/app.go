package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanhnv2901/ssltest/internal/certinspect"
	"github.com/khanhnv2901/ssltest/internal/conversion"
	"github.com/khanhnv2901/ssltest/internal/handshake"
	"github.com/khanhnv2901/ssltest/internal/probe"
	"github.com/khanhnv2901/ssltest/internal/probe/vulns"
	"github.com/khanhnv2901/ssltest/internal/rating"
)

// AppContext carries everything commands share. It is built once per
// invocation in the root command and handed to subcommands explicitly.
type AppContext struct {
	Logger    *zap.SugaredLogger
	Config    *CLIConfig
	Engine    *rating.Engine
	Mapping   *conversion.Mapping
	Inspector *certinspect.Inspector
	Dialer    *handshake.Dialer
	Registry  *probe.Registry
}

type appContextKey struct{}

var globalAppContext *AppContext

func newAppContext(logger *zap.SugaredLogger, cfg *CLIConfig) (*AppContext, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	tables, err := loadRatingTables(cfg.Rating.TablesFile)
	if err != nil {
		return nil, err
	}
	mapping, err := loadCipherMapping(cfg.Rating.MappingFile)
	if err != nil {
		return nil, err
	}

	engine := rating.NewEngine(tables)
	dialer := handshake.NewDialer(
		time.Duration(cfg.Scan.TimeoutSecs)*time.Second,
		time.Duration(cfg.Scan.BackoffMaxSecs)*time.Second,
		logger.Named("handshake"),
	)
	registry, err := vulns.NewRegistry(dialer)
	if err != nil {
		return nil, fmt.Errorf("failed to build probe registry: %w", err)
	}

	return &AppContext{
		Logger:    logger,
		Config:    cfg,
		Engine:    engine,
		Mapping:   mapping,
		Inspector: certinspect.NewInspector(engine, mapping, logger.Named("inspect")),
		Dialer:    dialer,
		Registry:  registry,
	}, nil
}

func loadRatingTables(path string) (*rating.Tables, error) {
	if path == "" {
		path = defaultDataFile(tablesFileName)
	}
	if path == "" {
		return rating.DefaultTables()
	}
	tables, err := rating.LoadTablesFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating tables: %w", err)
	}
	return tables, nil
}

func loadCipherMapping(path string) (*conversion.Mapping, error) {
	if path == "" {
		path = defaultDataFile(mappingFileName)
	}
	if path == "" {
		return conversion.DefaultMapping()
	}
	mapping, err := conversion.LoadMappingFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load cipher suite mapping: %w", err)
	}
	return mapping, nil
}

func storeAppContext(cmd *cobra.Command, appCtx *AppContext) {
	globalAppContext = appCtx
	if cmd == nil {
		return
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appContextKey{}, appCtx))
}

func getAppContext(cmd *cobra.Command) *AppContext {
	if cmd != nil && cmd.Context() != nil {
		if appCtx, ok := cmd.Context().Value(appContextKey{}).(*AppContext); ok {
			return appCtx
		}
	}
	return globalAppContext
}
