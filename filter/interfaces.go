package filter

import (
	"context"
)

// Filter decides whether a record matches.
type Filter interface {
	// Match reports whether the record satisfies the filter. Records that
	// fail to evaluate never match.
	Match(record Record) bool
}

// CompiledFilter is a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Eval is Match with the evaluation error surfaced
	Eval(record Record) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// Evaluator evaluates a filter against a set of records
type Evaluator interface {
	Evaluate(ctx context.Context, filter CompiledFilter, records []Record) ([]Record, error)
}

// BatchEvaluator evaluates several named filters at once
type BatchEvaluator interface {
	EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, records []Record) (map[string][]Record, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// BatchResult is the outcome of one filter inside EvaluateBatch
type BatchResult struct {
	FilterName string
	Matches    []Record
	Error      error
}

// WorkerPool runs submitted work on a bounded set of goroutines
type WorkerPool interface {
	Submit(ctx context.Context, work func()) error
	Stop(ctx context.Context) error
}
