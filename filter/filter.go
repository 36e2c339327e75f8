// Package filter evaluates expr-lang expressions client-side over Lob
// resources returned by list operations.
//
// Each resource is turned into a Record whose fields become identifiers in
// the expression:
//
//	MailType == "usps_first_class" and hasMetadata("campaign")
//	isKind("check") and Amount > 100 and DateCreated > daysAgo(7)
//	ToState == "CA" and not Deleted
//
// Besides the record fields, expressions can use Kind, Metadata, Record and
// the helpers isKind, hasMetadata, metadata, daysSince, daysAgo, daysAhead,
// monthsAgo, parseDate, isZero, icontains and iequals.
package filter

import (
	"context"
	"fmt"
)

var defaultCompiler = NewExprCompiler(WithCache(100))

// CompileFilter compiles an expression with the shared, cached compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Select returns the items matching filter, in their original order.
func Select[T any](ctx context.Context, e Evaluator, filter CompiledFilter, items []T, build func(*T) Record) ([]T, error) {
	matches, err := e.Evaluate(ctx, filter, Records(items, build))
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(matches))
	for _, record := range matches {
		item, ok := record.Value.(*T)
		if !ok {
			return nil, fmt.Errorf("filter: record %s holds %T", record.ID, record.Value)
		}
		out = append(out, *item)
	}
	return out, nil
}
