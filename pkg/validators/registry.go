package validators

// Registry maps each Kind to its predicate. The zero value is empty; use
// NewRegistry for the built-in table.
type Registry struct {
	funcs map[Kind]Func
}

// Option customises a Registry during construction.
type Option func(*Registry)

// WithFunc overrides the predicate for a kind. KindNone cannot be bound.
func WithFunc(kind Kind, fn Func) Option {
	return func(r *Registry) {
		if kind == KindNone || fn == nil {
			return
		}
		r.funcs[kind] = fn
	}
}

// NewRegistry returns the built-in table with any overrides applied.
func NewRegistry(options ...Option) *Registry {
	reg := &Registry{
		funcs: map[Kind]Func{
			KindPhone:   Phone,
			KindName:    Name,
			KindPrice:   Price,
			KindAddress: Address,
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(reg)
	}
	return reg
}

// Lookup returns the predicate for kind. KindNone never resolves.
func (r *Registry) Lookup(kind Kind) (Func, bool) {
	if r == nil || kind == KindNone {
		return nil, false
	}
	fn, ok := r.funcs[kind]
	return fn, ok
}

// Validate runs the predicate for kind. The second result is false when no
// predicate applies and the caller should leave validity untouched.
func (r *Registry) Validate(kind Kind, raw string) (valid bool, applied bool) {
	fn, ok := r.Lookup(kind)
	if !ok {
		return false, false
	}
	return fn(raw), true
}
