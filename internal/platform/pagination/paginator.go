package pagination

import (
	"errors"
	"net/url"
	"strconv"
)

// ErrCursorMismatch indicates a cursor issued for another resource type or an unknown ID.
var ErrCursorMismatch = errors.New("cursor does not match this listing")

// Page describes one page request over an ordered slice.
type Page[T any] struct {
	Cursor Cursor
	Limit  int
	// Type is the cursor type issued and accepted by this listing.
	Type string
	// ID returns the stable identifier of an item.
	ID func(T) string
	// BaseURL and Query build the Link header.
	BaseURL string
	Query   url.Values
}

// Result holds one page of items and its navigation metadata.
type Result[T any] struct {
	Items      []T
	Total      int
	LinkHeader string
	NextCursor string
	PrevCursor string
}

// Paginate slices items after the cursor position. A cursor of another type, or one pointing
// at an ID not present in items, yields ErrCursorMismatch.
func Paginate[T any](items []T, p Page[T]) (Result[T], error) {
	if p.Cursor.Type != "" && p.Cursor.Type != p.Type {
		return Result[T]{}, ErrCursorMismatch
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	total := len(items)

	start := 0
	if p.Cursor.Value != "" {
		start = -1
		for i, item := range items {
			if p.ID(item) == p.Cursor.Value {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return Result[T]{}, ErrCursorMismatch
		}
	}
	end := min(start+limit, total)
	pageItems := items[start:end]

	var next, prev string
	if end < total && len(pageItems) > 0 {
		next = Cursor{Type: p.Type, Value: p.ID(pageItems[len(pageItems)-1])}.Encode()
	}
	if start > 0 {
		if start <= limit {
			prev = Cursor{Type: p.Type}.Encode()
		} else {
			prev = Cursor{Type: p.Type, Value: p.ID(items[start-limit-1])}.Encode()
		}
	}

	q := cloneValues(p.Query)
	q.Set("limit", strconv.Itoa(limit))

	return Result[T]{
		Items:      pageItems,
		Total:      total,
		LinkHeader: BuildLinkHeader(p.BaseURL, q, next, prev),
		NextCursor: next,
		PrevCursor: prev,
	}, nil
}
