// Package batch fans Lob calls out with bounded concurrency. A failed item
// never aborts the batch; every result is reported in input order.
package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/lobster/lob"
	"github.com/s0up4200/lobster/metrics"
)

const (
	DefaultConcurrency = 10
	MaxConcurrency     = 20
)

// Verifier verifies one US address.
type Verifier interface {
	VerifyUSAddress(ctx context.Context, address lob.USVerificationInput, opts *lob.VerifyOptions) (*lob.USVerification, error)
}

// CancelFunc cancels or deletes one resource by id, e.g. Client.CancelLetter.
type CancelFunc func(ctx context.Context, id string) (*lob.Deletion, error)

var errNotDeleted = errors.New("API did not confirm deletion")

// Processor runs batches with a fixed concurrency limit.
type Processor struct {
	concurrency int
	logger      zerolog.Logger
}

// NewProcessor creates a processor. Concurrency is clamped to
// [1, MaxConcurrency]; zero selects DefaultConcurrency.
func NewProcessor(concurrency int, logger zerolog.Logger) *Processor {
	switch {
	case concurrency == 0:
		concurrency = DefaultConcurrency
	case concurrency < 1:
		concurrency = 1
	case concurrency > MaxConcurrency:
		concurrency = MaxConcurrency
	}
	return &Processor{concurrency: concurrency, logger: logger}
}

// Concurrency returns the effective limit.
func (p *Processor) Concurrency() int {
	return p.concurrency
}

// VerifyResult is the outcome for one input address.
type VerifyResult struct {
	Index        int
	Input        lob.USVerificationInput
	Verification *lob.USVerification
	Err          error
}

// VerifyAddresses verifies every input. The returned slice is parallel to
// inputs.
func (p *Processor) VerifyAddresses(ctx context.Context, v Verifier, inputs []lob.USVerificationInput, opts *lob.VerifyOptions) []VerifyResult {
	results := make([]VerifyResult, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, input := range inputs {
		results[i] = VerifyResult{Index: i, Input: input}
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			verification, err := v.VerifyUSAddress(ctx, input, opts)
			if err != nil {
				p.logger.Warn().
					Err(err).
					Int("index", i).
					Bool("retryable", lob.IsRetryable(err)).
					Msg("Failed to verify address")
				results[i].Err = err
				return nil
			}

			metrics.IncrementVerification(string(verification.Deliverability))
			results[i].Verification = verification
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// Summary counts verification outcomes.
type Summary struct {
	Total          int
	Failed         int
	Deliverability map[lob.Deliverability]int
}

// Summarize tallies results by deliverability.
func Summarize(results []VerifyResult) Summary {
	s := Summary{Total: len(results), Deliverability: make(map[lob.Deliverability]int)}
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.Deliverability[r.Verification.Deliverability]++
	}
	return s
}

// CancelResult contains the results of a batch cancel operation
type CancelResult struct {
	Requested  int
	Successful []string
	Failed     []CancelError
}

// CancelError contains information about a failed cancel operation
type CancelError struct {
	ID  string
	Err error
}

// Error implements the error interface
func (e CancelError) Error() string {
	return fmt.Sprintf("failed to cancel %s: %v", e.ID, e.Err)
}

func (e CancelError) Unwrap() error {
	return e.Err
}

// Cancel cancels every id. Successful and Failed keep input order.
func (p *Processor) Cancel(ctx context.Context, cancel CancelFunc, ids []string) CancelResult {
	result := CancelResult{Requested: len(ids)}
	if len(ids) == 0 {
		return result
	}

	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}

		g.Go(func() error {
			del, err := cancel(ctx, id)
			if err == nil && del != nil && !del.Deleted {
				err = errNotDeleted
			}
			if err != nil {
				p.logger.Warn().Err(err).Str("id", id).Msg("Failed to cancel resource")
				errs[i] = err
			}
			return nil
		})
	}

	_ = g.Wait()

	for i, id := range ids {
		if errs[i] != nil {
			result.Failed = append(result.Failed, CancelError{ID: id, Err: errs[i]})
			continue
		}
		result.Successful = append(result.Successful, id)
	}
	return result
}
