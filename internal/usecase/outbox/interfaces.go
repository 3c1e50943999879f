package outbox

import (
	"context"
	"time"
)

type Outbox interface {
	Start(ctx context.Context, workers int, batchSize int, waitTime time.Duration, inProgressTTL time.Duration)
	Wait()
}
