package outbox

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/project/catalog/config"
	"github.com/project/catalog/internal/usecase/repository"
	"github.com/project/catalog/pkg/logger"
	"github.com/project/catalog/pkg/workerpool"
	"go.uber.org/zap"
)

type (
	GlobalHandler = func(kind repository.OutboxKind) (KindHandler, error)
	KindHandler   = func(ctx context.Context, data []byte) error

	Repository interface {
		SendMessage(ctx context.Context, idempotencyKey string, kind repository.OutboxKind, message []byte) error
		GetMessages(ctx context.Context, batchSize int, inProgressTTL time.Duration) ([]repository.OutboxData, error)
		MarkAs(ctx context.Context, idempotencyKeys []string, s repository.Status) error
	}

	Transactor interface {
		WithTx(ctx context.Context, function func(ctx context.Context) error) error
	}
)

var _ Outbox = (*outboxImpl)(nil)

type outboxImpl struct {
	logger           *zap.Logger
	outboxRepository Repository
	globalHandler    GlobalHandler
	cfg              *config.Config
	transactor       Transactor
	wg               sync.WaitGroup
}

func New(
	logger *zap.Logger,
	outboxRepository Repository,
	globalHandler GlobalHandler,
	cfg *config.Config,
	transactor Transactor,
) *outboxImpl {
	return &outboxImpl{
		logger:           logger,
		outboxRepository: outboxRepository,
		globalHandler:    globalHandler,
		cfg:              cfg,
		transactor:       transactor,
	}
}

func (o *outboxImpl) Start(
	ctx context.Context,
	workers int,
	batchSize int,
	waitTime time.Duration,
	inProgressTTL time.Duration,
) {
	for workerID := 1; workerID <= workers; workerID++ {
		o.wg.Add(1)
		go o.worker(ctx, workerID, batchSize, waitTime, inProgressTTL)
	}
}

// Wait blocks until every worker started by Start has returned.
func (o *outboxImpl) Wait() {
	o.wg.Wait()
}

func (o *outboxImpl) worker(
	ctx context.Context,
	workerID int,
	batchSize int,
	waitTime time.Duration,
	inProgressTTL time.Duration,
) {
	defer o.wg.Done()

	ticker := time.NewTicker(waitTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !o.cfg.Outbox.Enabled {
				continue
			}

			err := o.processBatch(ctx, batchSize, inProgressTTL)
			logger.CheckError(err, o.logger, "worker stage error", zap.Int("worker", workerID), zap.Error(err))
		}
	}
}

// processBatch claims up to batchSize messages and delivers them. Delivered
// messages are marked SUCCESS, failed ones go back to CREATED for a retry.
func (o *outboxImpl) processBatch(ctx context.Context, batchSize int, inProgressTTL time.Duration) error {
	return o.transactor.WithTx(ctx, func(ctx context.Context) error {
		messages, err := o.outboxRepository.GetMessages(ctx, batchSize, inProgressTTL)

		if logger.CheckError(err, o.logger, "can not fetch messages from outbox", zap.Error(err)) {
			return err
		}
		logger.MakeInfo(o.logger, "messages fetched", zap.Int("size", len(messages)))

		delivered := make([]error, len(messages))
		for i := range delivered {
			delivered[i] = errNotDelivered
		}
		results := workerpool.Transform(ctx, o.cfg.Outbox.DeliveryWorkers, workerpool.Generate(ctx, indexes(len(messages))),
			func(ctx context.Context, i int) delivery {
				return delivery{index: i, err: o.deliver(ctx, messages[i])}
			})
		for result := range results {
			delivered[result.index] = result.err
		}

		successKeys := make([]string, 0, len(messages))
		failKeys := make([]string, 0, len(messages))
		for i, message := range messages {
			if delivered[i] != nil {
				failKeys = append(failKeys, message.IdempotencyKey)
				continue
			}
			successKeys = append(successKeys, message.IdempotencyKey)
		}

		err = o.outboxRepository.MarkAs(ctx, successKeys, repository.Success)
		if logger.CheckError(err, o.logger, "Mark as 'Success' outbox error", zap.Error(err)) {
			return err
		}

		err = o.outboxRepository.MarkAs(ctx, failKeys, repository.Created)
		if logger.CheckError(err, o.logger, "Mark as 'Created' for fail task outbox error", zap.Error(err)) {
			return err
		}

		return nil
	})
}

var errNotDelivered = errors.New("message was not delivered")

type delivery struct {
	index int
	err   error
}

func (o *outboxImpl) deliver(ctx context.Context, message repository.OutboxData) error {
	kindHandler, err := o.globalHandler(message.Kind)
	if logger.CheckError(err, o.logger, "unexpected kind", zap.Error(err)) {
		return err
	}

	err = kindHandler(ctx, message.RawData)
	logger.CheckError(err, o.logger, "kind error", zap.String("key", message.IdempotencyKey), zap.Error(err))
	return err
}

func indexes(n int) []int {
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}
