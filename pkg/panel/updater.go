package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-courierform/pkg/formstate"
	"github.com/goliatone/go-courierform/pkg/orchestrator"
	"github.com/goliatone/go-courierform/pkg/pricing"
)

// ReadinessSource is the part of the orchestrator the panel reads.
type ReadinessSource interface {
	Readiness() (orchestrator.Readiness, error)
	Declaration() formstate.Declaration
}

// Sink receives every committed repaint.
type Sink func(html string, view View)

// Updater repaints the panel after form changes. Each repaint loads a fresh
// quote; when lookups overlap only the most recently issued one may paint.
type Updater struct {
	source   ReadinessSource
	decl     formstate.Declaration
	tracker  *pricing.Tracker
	renderer *Renderer
	sink     Sink

	mu        sync.Mutex
	lastQuote *pricing.Quote
	lastView  View
}

// NewUpdater wires a readiness source, a quote tracker and a renderer. sink
// may be nil when callers only need the returned views.
func NewUpdater(source ReadinessSource, tracker *pricing.Tracker, renderer *Renderer, sink Sink) *Updater {
	return &Updater{
		source:   source,
		decl:     source.Declaration(),
		tracker:  tracker,
		renderer: renderer,
		sink:     sink,
	}
}

// Update snapshots readiness and repaints with a fresh quote for route.
func (u *Updater) Update(ctx context.Context, route pricing.Route) (View, error) {
	readiness, err := u.source.Readiness()
	if err != nil {
		return View{}, fmt.Errorf("panel: readiness: %w", err)
	}
	return u.UpdateWith(ctx, readiness, route)
}

// UpdateWith repaints from a readiness snapshot taken by the caller. It
// returns pricing.ErrStaleQuote, without painting, when a newer update was
// issued while the quote was loading. A failed lookup still repaints the
// readiness with the last good price and returns the lookup error. An
// incomplete route skips the lookup and repaints with the last good price.
func (u *Updater) UpdateWith(ctx context.Context, readiness orchestrator.Readiness, route pricing.Route) (View, error) {
	return u.update(ctx, u.tracker.Begin(), readiness, route)
}

func (u *Updater) update(ctx context.Context, tok pricing.Token, readiness orchestrator.Readiness, route pricing.Route) (View, error) {
	var (
		quote     pricing.Quote
		fetched   bool
		lookupErr error
	)
	if route.Complete() {
		quote, lookupErr = u.tracker.FetchWith(ctx, tok, route)
		if errors.Is(lookupErr, pricing.ErrStaleQuote) || errors.Is(lookupErr, context.Canceled) {
			return View{}, lookupErr
		}
		fetched = lookupErr == nil
	}

	var (
		view      View
		html      string
		renderErr error
	)
	committed := u.tracker.Commit(tok, func() {
		u.mu.Lock()
		defer u.mu.Unlock()
		if fetched {
			q := quote
			u.lastQuote = &q
		}
		view = BuildView(u.decl, readiness, u.lastQuote)
		html, renderErr = u.renderer.Render(view)
		if renderErr != nil {
			return
		}
		u.lastView = view
		if u.sink != nil {
			u.sink(html, view)
		}
	})
	if !committed {
		return View{}, pricing.ErrStaleQuote
	}
	if renderErr != nil {
		return View{}, renderErr
	}
	if lookupErr != nil {
		return view, fmt.Errorf("panel: load price: %w", lookupErr)
	}
	return view, nil
}

// Hook adapts the updater into an orchestrator change hook. Each change
// starts an asynchronous repaint. The route and the lookup token are taken
// synchronously, so repaints are ordered by change events rather than by
// goroutine scheduling. Stale repaints are dropped silently; other errors go
// to onErr when set.
func (u *Updater) Hook(ctx context.Context, route func() pricing.Route, onErr func(error)) orchestrator.ChangeHook {
	return func(readiness orchestrator.Readiness) {
		r := route()
		tok := u.tracker.Begin()
		go func() {
			if _, err := u.update(ctx, tok, readiness, r); err != nil && !errors.Is(err, pricing.ErrStaleQuote) && onErr != nil {
				onErr(err)
			}
		}()
	}
}

// LastView returns the most recently painted view.
func (u *Updater) LastView() View {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastView
}
