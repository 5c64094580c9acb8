package serverApp

import (
	"context"
	"fmt"
	database "decor-wallet/internal/pkg/db"
	"decor-wallet/internal/pkg/logger"
	"decor-wallet/internal/pkg/rabbitmq"
	"decor-wallet/internal/pkg/redis"
	s3aws "decor-wallet/internal/pkg/storage/s3"
	topupWorker "decor-wallet/internal/worker/topup"
	"time"

	"github.com/panjf2000/ants"
)

// workerPool stays alive for the lifetime of the process; subscribers run
// until their context is cancelled.
var workerPool *ants.Pool

// InitWorker initializes background workers
func InitWorker(
	ctx context.Context,
	redisClient redis.IRedis,
	db *database.Database,
	rb *rabbitmq.ConnectionManager,
	publisher *rabbitmq.Publisher,
	s3 s3aws.Is3,
) {
	poolOpts := ants.Options{
		ExpiryDuration: time.Hour,
		PreAlloc:       true,
		Nonblocking:    true,
		PanicHandler: func(i interface{}) {
			logger.Error.Printf("Worker panic: %v\n", i)
		},
	}

	pool, err := ants.NewPool(100, ants.WithOptions(poolOpts))
	if err != nil {
		panic(fmt.Errorf("failed to create worker pool: %w", err))
	}
	workerPool = pool

	receiptWorker := topupWorker.NewWorker(ctx, rb, s3)
	err = pool.Submit(func() {
		if err := receiptWorker.Subscribe(); err != nil {
			logger.Error.Printf("Failed to initialize receipt worker: %v\n", err)
		}
	})
	if err != nil {
		panic(fmt.Errorf("failed to submit task to pool: %w", err))
	}
}
