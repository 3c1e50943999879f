package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/project/catalog/config"
	"github.com/project/catalog/internal/controller"
	"github.com/project/catalog/internal/usecase/library"
	"github.com/project/catalog/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutDownSeconds          = 3
	readHeaderTimeoutSeconds = 5
)

// Run serves the catalog until ctx is cancelled or the process receives
// SIGINT or SIGTERM.
func Run(ctx context.Context, l *zap.Logger, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := setupTracing(cfg.Observability.JaegerURL)
	if err != nil {
		return err
	}
	defer func() {
		err := shutdownTracing(context.Background())
		logger.CheckError(err, l, "can not flush traces", zap.Error(err))
	}()

	s, err := openStore(ctx, l, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	useCases := library.New(
		logger.Enabled(l, cfg.Log.LogUseCase),
		s.authors,
		s.books,
		s.outboxRepository,
		s.transactor,
	)
	ctrl := controller.New(logger.Enabled(l, cfg.Log.LogController), useCases, useCases)

	gin.SetMode(cfg.HTTP.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", health(s.ping))
	ctrl.Register(router)

	servers := []*http.Server{newServer(cfg.HTTP.Port, router)}
	if cfg.Observability.MetricsPort != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		servers = append(servers, newServer(cfg.Observability.MetricsPort, mux))
	}

	g, gctx := errgroup.WithContext(ctx)

	if s.outboxRepository != nil {
		worker := runOutbox(gctx, l, cfg, s.outboxRepository, s.transactor)
		g.Go(func() error {
			<-gctx.Done()
			worker.Wait()
			return nil
		})
	}

	for _, server := range servers {
		g.Go(func() error {
			l.Info("http server listening", zap.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutDownSeconds*time.Second)
		defer cancel()

		var errs []error
		for _, server := range servers {
			errs = append(errs, server.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	err = g.Wait()
	l.Info("catalog stopped", zap.Error(err))
	return err
}

// Migrate provisions the schema of the configured store and exits.
func Migrate(ctx context.Context, l *zap.Logger, cfg *config.Config) error {
	s, err := openStore(ctx, l, cfg)
	if err != nil {
		return err
	}
	s.close()
	return nil
}

func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort("", port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeoutSeconds * time.Second,
	}
}

func health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
