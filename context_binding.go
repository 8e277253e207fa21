package deps

import "context"

type valuesContextKey struct{}

// NewContext returns a copy of ctx carrying v.
func NewContext(ctx context.Context, v *Values) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, valuesContextKey{}, v)
}

// FromContext returns the container bound to ctx. When none is bound it
// returns a fresh container using the detected execution context.
func FromContext(ctx context.Context) *Values {
	if ctx != nil {
		if v, ok := ctx.Value(valuesContextKey{}).(*Values); ok && v != nil {
			return v
		}
	}
	return New()
}

// Resolve is Get on the container bound to ctx.
func Resolve[V any](ctx context.Context, key *Key[V]) V {
	return Get(FromContext(ctx), key)
}

// WithOverrides runs body with apply's overrides in effect on the container
// bound to ctx. body receives a context carrying that container and the
// scope's span.
func WithOverrides(ctx context.Context, apply Override, body func(context.Context) error) error {
	v := FromContext(ctx)
	return v.scope(ctx, "overrides", apply, func(scoped context.Context) error {
		if body == nil {
			return nil
		}
		return body(NewContext(scoped, v))
	})
}

// Run hands body a context bound to a clone of the current container. Use
// it when starting a goroutine: the clone sees the overrides active now, and
// scopes opened by either side never leak into the other.
func Run(ctx context.Context, body func(context.Context) error) error {
	if body == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return body(NewContext(ctx, FromContext(ctx).Clone()))
}
