package filter

import (
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/s0up4200/lobster/lob"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
	envPool    *sync.Pool
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[*exprFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{
		helperFuncs: staticHelpers(),
		envPool: &sync.Pool{
			New: func() any {
				return make(map[string]any, 64)
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache[*exprFilter]
	envPool     *sync.Pool
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Record helpers are declared with placeholder bodies so calls are type checked.
	env := make(map[string]any, len(c.helperFuncs)+8)
	maps.Copy(env, c.helperFuncs)
	addRecordHelpers(env, Record{})

	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AllowUndefinedVariables(), // record fields differ per kind
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
		envPool:    c.envPool,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

func (f *exprFilter) Match(record Record) bool {
	ok, err := f.Eval(record)
	return err == nil && ok
}

func (f *exprFilter) Eval(record Record) (bool, error) {
	env := f.envPool.Get().(map[string]any)
	defer func() {
		clear(env)
		f.envPool.Put(env)
	}()

	maps.Copy(env, f.helpers)
	maps.Copy(env, record.Fields)
	addRecordHelpers(env, record)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			RecordID:   record.ID,
			Kind:       string(record.Kind),
			Err:        err,
		}
	}

	// AsBool at compile time guarantees the type.
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// staticHelpers returns the record-independent helper functions
func staticHelpers() map[string]any {
	funcs := make(map[string]any, 16)

	// Dates
	funcs["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	funcs["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	funcs["daysAhead"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, days)
	}
	funcs["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	funcs["parseDate"] = func(s string) time.Time {
		d, err := lob.ParseDate(s)
		if err != nil {
			return time.Time{}
		}
		return d.Time(time.UTC)
	}
	funcs["isZero"] = func(t time.Time) bool {
		return t.IsZero()
	}

	// Strings
	funcs["icontains"] = func(s, substr string) bool {
		return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
	}
	funcs["iequals"] = strings.EqualFold

	return funcs
}

// addRecordHelpers binds the record itself and the helpers that close over it.
func addRecordHelpers(env map[string]any, record Record) {
	metadata := record.Metadata
	kind := string(record.Kind)

	env["Record"] = record
	env["Kind"] = kind
	env["Metadata"] = map[string]string(metadata)

	env["isKind"] = func(k string) bool {
		return strings.EqualFold(kind, k)
	}
	env["hasMetadata"] = func(key string) bool {
		_, ok := metadata[key]
		return ok
	}
	env["metadata"] = func(key string) string {
		return metadata[key]
	}
}
