package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/project/catalog/config"
	"github.com/project/catalog/internal/app"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("catalog: %s", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Library catalog of authors and books",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the catalog REST API",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withLogger(cmd.Context(), app.Run)
			},
		},
		&cobra.Command{
			Use:   "setup-db",
			Short: "Provision the catalog schema and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withLogger(cmd.Context(), app.Migrate)
			},
		},
	)

	return root
}

func withLogger(ctx context.Context, run func(context.Context, *zap.Logger, *config.Config) error) error {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("can not get application config: %s", err)
	}

	logger, err := newLogger(cfg.Log.File)
	if err != nil {
		log.Fatalf("can not initialize logger: %s", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	return run(ctx, logger, cfg)
}

// newLogger writes JSON logs to path, or to stdout when path is empty.
func newLogger(path string) (*zap.Logger, error) {
	writeSyncer := zapcore.AddSync(os.Stdout)

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}

		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		writeSyncer = zapcore.AddSync(file)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	core := zapcore.NewCore(encoder, writeSyncer, zap.InfoLevel)

	return zap.New(core), nil
}
