package pricing

import (
	"context"
	"sync"
)

// Token identifies one issued lookup. Later lookups carry larger tokens.
type Token uint64

// Tracker wraps a Lookup with a request sequence. Each Fetch issues a new
// token; results whose token is no longer the latest are reported as stale.
type Tracker struct {
	lookup Lookup

	mu     sync.Mutex
	latest Token
}

// NewTracker wraps lookup.
func NewTracker(lookup Lookup) *Tracker {
	return &Tracker{lookup: lookup}
}

// Begin issues a new token, superseding every earlier one.
func (t *Tracker) Begin() Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest++
	return t.latest
}

// Current reports whether tok is the most recently issued token.
func (t *Tracker) Current(tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tok == t.latest
}

// Commit runs apply only if tok is still the latest token. The check and
// apply happen under the tracker lock so a newer result can never be
// overwritten by an older one.
func (t *Tracker) Commit(tok Token, apply func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tok != t.latest {
		return false
	}
	if apply != nil {
		apply()
	}
	return true
}

// Fetch issues a token and performs the lookup. It returns ErrStaleQuote when
// a newer Fetch or Begin happened before the lookup resolved.
func (t *Tracker) Fetch(ctx context.Context, route Route) (Quote, Token, error) {
	tok := t.Begin()
	quote, err := t.FetchWith(ctx, tok, route)
	return quote, tok, err
}

// FetchWith performs the lookup for a token obtained from Begin. Callers that
// order lookups by event rather than by goroutine take the token on the event
// path and hand it here.
func (t *Tracker) FetchWith(ctx context.Context, tok Token, route Route) (Quote, error) {
	if !t.Current(tok) {
		return Quote{}, ErrStaleQuote
	}
	quote, err := t.lookup.LoadPrice(ctx, route)
	if err != nil {
		return Quote{}, err
	}
	if !t.Current(tok) {
		return Quote{}, ErrStaleQuote
	}
	return quote, nil
}
