// Package processor verifies batches of requests on a worker pool.
package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	infralogger "github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

const defaultConcurrency = 10

// Verifier scores a single request.
type Verifier interface {
	Verify(ctx context.Context, req *domain.VerificationRequest) *domain.VerificationResult
}

// BatchProcessor runs a fixed-size worker pool over a batch.
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
	logger      infralogger.Logger
}

type job struct {
	index int
	req   *domain.VerificationRequest
}

type jobResult struct {
	index  int
	result *domain.VerificationResult
}

// NewBatchProcessor creates a BatchProcessor. Non-positive concurrency
// selects the default.
func NewBatchProcessor(v Verifier, concurrency int, log infralogger.Logger) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &BatchProcessor{
		verifier:    v,
		concurrency: concurrency,
		logger:      infralogger.OrNop(log),
	}
}

// Process verifies reqs and returns results in input order. If ctx is
// cancelled before every request was picked up, the batch fails.
func (b *BatchProcessor) Process(ctx context.Context, reqs []*domain.VerificationRequest) ([]*domain.VerificationResult, error) {
	if len(reqs) == 0 {
		return []*domain.VerificationResult{}, nil
	}

	startTime := time.Now()
	workers := min(b.concurrency, len(reqs))

	jobs := make(chan job, len(reqs))
	results := make(chan jobResult, len(reqs))

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go b.worker(ctx, i, jobs, results, &wg)
	}

	for i, req := range reqs {
		jobs <- job{index: i, req: req}
	}
	close(jobs)

	wg.Wait()
	close(results)

	out := make([]*domain.VerificationResult, len(reqs))
	done := 0
	for r := range results {
		out[r.index] = r.result
		done++
	}

	if done < len(reqs) {
		return nil, fmt.Errorf("batch interrupted after %d of %d requests: %w", done, len(reqs), ctx.Err())
	}

	duration := time.Since(startTime)
	b.logger.Info("Batch verification complete",
		infralogger.Int("total", len(reqs)),
		infralogger.Int("workers", workers),
		infralogger.Int64("duration_ms", duration.Milliseconds()),
	)

	return out, nil
}

func (b *BatchProcessor) worker(
	ctx context.Context,
	id int,
	jobs <-chan job,
	results chan<- jobResult,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	for j := range jobs {
		select {
		case <-ctx.Done():
			b.logger.Warn("Worker stopping due to context cancellation", infralogger.Int("worker_id", id))
			return
		default:
		}

		results <- jobResult{index: j.index, result: b.verifier.Verify(ctx, j.req)}
	}
}
