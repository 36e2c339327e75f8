package cmd

import (
	"context"
	"fmt"

	"github.com/s0up4200/lobster/filter"
	"github.com/s0up4200/lobster/lob"
)

// maxPages stops --all from walking an account forever
const maxPages = 1000

// fetchPages calls fetch with successive after cursors. Without all only the
// first page is returned.
func fetchPages[T any](ctx context.Context, all bool, after string, fetch func(after string) (*lob.List[T], error)) (*lob.List[T], error) {
	page, err := fetch(after)
	if err != nil {
		return nil, err
	}
	if !all {
		return page, nil
	}

	combined := *page
	combined.Data = append([]T(nil), page.Data...)
	for n := 1; n < maxPages; n++ {
		cursor := page.NextCursor()
		if cursor == "" {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Debug().Int("page", n+1).Str("after", cursor).Msg("Fetching next page")
		if page, err = fetch(cursor); err != nil {
			return nil, fmt.Errorf("page %d: %w", n+1, err)
		}
		combined.Data = append(combined.Data, page.Data...)
	}

	combined.Count = len(combined.Data)
	combined.NextURL = nil
	combined.PreviousURL = nil
	return &combined, nil
}

// applyFilter keeps the list items matching every expression. Each one may
// also name a configured preset.
func applyFilter[T any](ctx context.Context, l *lob.List[T], expressions []string, build func(*T) filter.Record) (*lob.List[T], error) {
	if len(expressions) == 0 {
		return l, nil
	}

	matches := l.Data
	for _, expression := range expressions {
		f, err := filters.Resolve(expression)
		if err != nil {
			return nil, fmt.Errorf("invalid filter: %w", err)
		}

		before := len(matches)
		if matches, err = filter.Select(ctx, filters, f, matches, build); err != nil {
			return nil, err
		}

		logger.Debug().
			Str("filter", f.Expression()).
			Int("fetched", before).
			Int("matched", len(matches)).
			Msg("Applied client-side filter")
	}

	filtered := *l
	filtered.Data = matches
	filtered.Count = len(matches)
	return &filtered, nil
}

// listAndRender is the shared body of every list command
func listAndRender[T any](ctx context.Context, flags *listFlags, fetch func(after string) (*lob.List[T], error), build func(*T) filter.Record) error {
	l, err := fetchPages(ctx, flags.all, flags.after, fetch)
	if err != nil {
		return err
	}
	if l, err = applyFilter(ctx, l, flags.filters, build); err != nil {
		return err
	}
	return renderer.Render(l)
}
