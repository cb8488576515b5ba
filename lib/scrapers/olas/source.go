package olas

import "context"

// PageSource is a paginated agents table. Implementations hold a single
// stateful page and are not safe for concurrent use.
type PageSource interface {
	// ListRows waits for the table body of the current page and returns its
	// data rows.
	ListRows(ctx context.Context) ([]Row, error)
	// HasNext reports whether an enabled next-page control exists.
	HasNext(ctx context.Context) (bool, error)
	// ClickNext activates the next-page control and waits for the page to
	// settle.
	ClickNext(ctx context.Context) error
}

type Row interface {
	Cells(ctx context.Context) ([]Cell, error)
}

type Cell interface {
	Text(ctx context.Context) (string, error)
	// Hover moves the pointer over the cell, which may reveal a tooltip.
	Hover(ctx context.Context) error
	// Tooltip looks for the tooltip text inside the cell once, found is false
	// if no tooltip is showing.
	Tooltip(ctx context.Context) (text string, found bool, err error)
}
