package filter

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.workerCount = workers
	}
}

// WithBatchSize sets the record count below which evaluation stays sequential.
// It is also the minimum chunk size handed to a worker.
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// WithLogger reports records whose evaluation failed at debug level
func WithLogger(logger zerolog.Logger) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.logger = logger
	}
}

// ConcurrentEvaluator implements both Evaluator and BatchEvaluator
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
	pool        WorkerPool
	logger      zerolog.Logger
}

var (
	_ Evaluator      = (*ConcurrentEvaluator)(nil)
	_ BatchEvaluator = (*ConcurrentEvaluator)(nil)
)

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}
	e.workerCount = max(e.workerCount, 1)
	e.pool = NewWorkerPool(e.workerCount)

	return e
}

// Evaluate returns the records matching filter, in input order
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, records []Record) ([]Record, error) {
	if len(records) == 0 {
		return []Record{}, nil
	}

	if len(records) < e.batchSize || e.workerCount == 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return e.evaluateSequential(filter, records), nil
	}

	return e.evaluateConcurrent(ctx, filter, records)
}

// EvaluateBatch evaluates each filter against records. Filters that fail are
// left out of the result.
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, records []Record) (map[string][]Record, error) {
	results := make(map[string][]Record, len(filters))
	if len(filters) == 0 || len(records) == 0 {
		return results, nil
	}

	resultChan := make(chan BatchResult, len(filters))
	var wg sync.WaitGroup

	for name, filter := range filters {
		wg.Add(1)
		err := e.pool.Submit(ctx, func() {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				resultChan <- BatchResult{FilterName: name, Error: err}
				return
			}
			// Sequential here: a worker must not wait on its own pool.
			resultChan <- BatchResult{FilterName: name, Matches: e.evaluateSequential(filter, records)}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}

	wg.Wait()
	close(resultChan)

	for result := range resultChan {
		if result.Error != nil {
			continue
		}
		results[result.FilterName] = result.Matches
	}

	return results, ctx.Err()
}

func (e *ConcurrentEvaluator) evaluateSequential(filter CompiledFilter, records []Record) []Record {
	matches := make([]Record, 0, len(records)/4)
	for _, record := range records {
		ok, err := filter.Eval(record)
		if err != nil {
			e.logger.Debug().
				Err(err).
				Str("id", record.ID).
				Str("kind", string(record.Kind)).
				Msg("Filter evaluation failed, record skipped")
			continue
		}
		if ok {
			matches = append(matches, record)
		}
	}
	return matches
}

func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, records []Record) ([]Record, error) {
	chunkSize := max(len(records)/e.workerCount, e.batchSize)
	chunks := make([][]Record, (len(records)+chunkSize-1)/chunkSize)

	var wg sync.WaitGroup
	for i := range chunks {
		start := i * chunkSize
		chunk := records[start:min(start+chunkSize, len(records))]

		wg.Add(1)
		err := e.pool.Submit(ctx, func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			chunks[i] = e.evaluateSequential(filter, chunk)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	matches := make([]Record, 0, total)
	for _, c := range chunks {
		matches = append(matches, c...)
	}

	return matches, nil
}

// Stop gracefully stops the evaluator's worker pool
func (e *ConcurrentEvaluator) Stop(ctx context.Context) error {
	return e.pool.Stop(ctx)
}
