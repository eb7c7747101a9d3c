package services

import (
	"context"
	"fmt"
	"runtime"

	"github.com/yigit/school/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// SumParallelLimit is the upper bound of the 1..n sum computed by SumParallel
const SumParallelLimit = 1_000_000

// InfoService exposes runtime information about the application
type InfoService interface {
	GetPort() string
	SumParallel(ctx context.Context) (int64, error)
}

type infoServiceImpl struct {
	port string
}

// NewInfoService creates a new info service instance
func NewInfoService(port string) InfoService {
	return &infoServiceImpl{port: port}
}

// GetPort describes the port the HTTP server listens on
func (s *infoServiceImpl) GetPort() string {
	logger.Info().Msg("Was invoked method for get port")
	return "Application is running on port: " + s.port
}

// SumParallel sums 1..SumParallelLimit by splitting the range across worker goroutines
func (s *infoServiceImpl) SumParallel(ctx context.Context) (int64, error) {
	logger.Info().Msg("Was invoked method for sum parallel")
	return sumRange(ctx, 1, SumParallelLimit, runtime.GOMAXPROCS(0))
}

// sumRange adds from..to inclusive using the given number of workers
func sumRange(ctx context.Context, from, to int64, workers int) (int64, error) {
	if to < from {
		return 0, nil
	}
	workers = max(workers, 1)

	count := to - from + 1
	chunk := (count + int64(workers) - 1) / int64(workers)
	partials := make([]int64, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := from + int64(w)*chunk
		hi := min(lo+chunk-1, to)
		if lo > hi {
			break
		}
		g.Go(func() error {
			var sum int64
			for i := lo; i <= hi; i++ {
				sum += i
			}
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("sum of %d..%d interrupted: %w", lo, hi, err)
			}
			partials[w] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total int64
	for _, p := range partials {
		total += p
	}
	return total, nil
}
