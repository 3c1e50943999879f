package app

import (
	"context"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/project/catalog/config"
	"github.com/project/catalog/internal/usecase/outbox"
	"github.com/project/catalog/pkg/logger"
	"go.uber.org/zap"
)

const (
	dialerTimeoutSeconds                  = 30
	dialerKeepAliveSeconds                = 180
	transportMaxIdleConns                 = 100
	transportMaxConnsPerHost              = 100
	transportIdleConnTimeoutSeconds       = 90
	transportTLSHandshakeTimeoutSeconds   = 15
	transportExpectContinueTimeoutSeconds = 2
)

func runOutbox(
	ctx context.Context,
	l *zap.Logger,
	cfg *config.Config,
	outboxRepository outbox.Repository,
	transactor outbox.Transactor,
) outbox.Outbox {
	dialer := &net.Dialer{
		Timeout:   dialerTimeoutSeconds * time.Second,
		KeepAlive: dialerKeepAliveSeconds * time.Second,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          transportMaxIdleConns,
		MaxConnsPerHost:       transportMaxConnsPerHost,
		IdleConnTimeout:       transportIdleConnTimeoutSeconds * time.Second,
		TLSHandshakeTimeout:   transportTLSHandshakeTimeoutSeconds * time.Second,
		ExpectContinueTimeout: transportExpectContinueTimeoutSeconds * time.Second,
		MaxIdleConnsPerHost:   runtime.GOMAXPROCS(0) + 1,
	}

	client := &http.Client{Transport: transport}
	globalHandler := outbox.HTTPHandler(client, cfg.Outbox.AuthorSendURL, cfg.Outbox.BookSendURL)

	outboxService := outbox.New(
		logger.Enabled(l, cfg.Log.LogOutboxWorker),
		outboxRepository,
		globalHandler,
		cfg,
		transactor,
	)

	outboxService.Start(
		ctx,
		cfg.Outbox.Workers,
		cfg.Outbox.BatchSize,
		cfg.Outbox.WaitTimeMS,
		cfg.Outbox.InProgressTTLMS,
	)

	return outboxService
}
