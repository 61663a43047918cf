// Package pricing loads delivery quotes for the summary panel. Lookups are
// asynchronous and may resolve out of order; Tracker hands out sequence
// tokens so only the most recently issued lookup may update what the panel
// shows.
package pricing

import (
	"context"
	"errors"
)

var (
	// ErrStaleQuote is returned by Tracker.Fetch when a newer lookup was
	// issued while this one was in flight. The quote must be discarded.
	ErrStaleQuote = errors.New("pricing: quote superseded by a newer lookup")
	// ErrEndpointRequired is returned when an HTTP client has no endpoint.
	ErrEndpointRequired = errors.New("pricing: endpoint is required")
)

// Route describes the trip being priced.
type Route struct {
	// Distance in meters as reported by the map collaborator.
	Distance float64 `json:"distance"`
	FromID   string  `json:"fromId"`
	ToID     string  `json:"toId"`
}

// Complete reports whether both ends of the route are known.
func (r Route) Complete() bool {
	return r.FromID != "" && r.ToID != ""
}

// Quote is the price shown in the panel. Sum is preformatted by the pricing
// service.
type Quote struct {
	Sum       string `json:"sum"`
	IsSuccess bool   `json:"isSuccess"`
}

// Lookup loads a quote for a route.
type Lookup interface {
	LoadPrice(ctx context.Context, route Route) (Quote, error)
}

// LookupFunc adapts a function into a Lookup.
type LookupFunc func(ctx context.Context, route Route) (Quote, error)

// LoadPrice delegates to the underlying function.
func (fn LookupFunc) LoadPrice(ctx context.Context, route Route) (Quote, error) {
	return fn(ctx, route)
}
