package services

import (
	"context"
	"iter"

	"github.com/custodia-labs/repostat/internal/core/domain"
)

// PageFunc fetches the page that starts at cursor. An empty cursor
// requests the first page.
type PageFunc[T any] func(ctx context.Context, cursor string) (domain.Page[T], error)

// Pages returns a lazy sequence of every item across all pages.
//
// fetch is called once per page, strictly in order, starting from the empty
// cursor. Iteration stops after a page reports no further pages, after
// maxPages pages (maxPages <= 0 means no limit), or at the first error,
// which is yielded with a zero item. Ranging over the sequence again starts
// over from the first page.
func Pages[T any](ctx context.Context, fetch PageFunc[T], maxPages int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		cursor := ""
		for fetched := 0; maxPages <= 0 || fetched < maxPages; fetched++ {
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}

			page, err := fetch(ctx, cursor)
			if err != nil {
				yield(zero, err)
				return
			}

			for _, item := range page.Items {
				if !yield(item, nil) {
					return
				}
			}

			// A cursor that does not advance would loop forever.
			if !page.HasMore || page.NextCursor == "" || page.NextCursor == cursor {
				return
			}
			cursor = page.NextCursor
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
// Items gathered before the error are returned alongside it.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var items []T
	for item, err := range seq {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}
