package deps

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dependencies/pkg/activity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Override mutates a container inside an override scope. Everything it
// changes is undone when the scope ends.
type Override func(*Values)

// Value returns an Override installing value for key.
func Value[V any](key *Key[V], value V) Override {
	return func(v *Values) {
		Set(v, key, value)
	}
}

// InContext returns an Override switching the execution context.
func InContext(c Context) Override {
	return func(v *Values) {
		v.context = c.normalized()
	}
}

// Overrides combines overrides, applied in order.
func Overrides(overrides ...Override) Override {
	return func(v *Values) {
		for _, apply := range overrides {
			if apply != nil {
				apply(v)
			}
		}
	}
}

// frame records what a scope changed so it can be put back.
type frame struct {
	label   string
	context Context
	parent  context.Context
	prior   map[*keyIdentity]priorEntry
	order   []*keyIdentity
}

type priorEntry struct {
	entry   entry
	existed bool
}

// capture remembers the value id had before this frame first touched it.
func (f *frame) capture(id *keyIdentity, entries map[*keyIdentity]entry) {
	if _, seen := f.prior[id]; seen {
		return
	}
	if f.prior == nil {
		f.prior = make(map[*keyIdentity]priorEntry)
	}
	previous, existed := entries[id]
	f.prior[id] = priorEntry{entry: previous, existed: existed}
	f.order = append(f.order, id)
}

func (f *frame) keys() []string {
	names := make([]string, 0, len(f.order))
	for _, id := range f.order {
		names = append(names, id.name)
	}
	return names
}

// WithOverrides runs body with apply's overrides in effect. The overrides
// and any Set performed by body are reverted when body returns, when it
// fails and when it panics (the panic continues after the restore).
func (v *Values) WithOverrides(apply Override, body func() error) error {
	return v.scope(v.activeContext(), "overrides", apply, func(context.Context) error {
		return run(body)
	})
}

// WithContext runs body under execution context c.
func (v *Values) WithContext(c Context, body func() error) error {
	return v.scope(v.activeContext(), "context:"+c.normalized().String(), InContext(c), func(context.Context) error {
		return run(body)
	})
}

// WithValue runs body with value installed for key.
func WithValue[V any](v *Values, key *Key[V], value V, body func() error) error {
	return v.scope(v.activeContext(), key.Name(), Value(key, value), func(context.Context) error {
		return run(body)
	})
}

func run(body func() error) error {
	if body == nil {
		return nil
	}
	return body()
}

func (v *Values) scope(ctx context.Context, label string, apply Override, body func(context.Context) error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := v.tracer().Start(ctx, "deps.override", trace.WithAttributes(
		attribute.String("deps.scope", label),
		attribute.String("deps.context", v.context.String()),
		attribute.Int("deps.depth", len(v.frames)+1),
	))

	v.push(label)
	v.active = ctx
	defer func() {
		f := v.pop()
		span.SetAttributes(attribute.StringSlice("deps.keys", f.keys()))
		if r := recover(); r != nil {
			span.SetStatus(codes.Error, fmt.Sprint(r))
			span.End()
			panic(r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if apply != nil {
		apply(v)
	}
	top := &v.frames[len(v.frames)-1]
	_ = v.emitter.Emit(ctx, activity.BuildOverrideAppliedEvent(activity.OverrideEventInput{
		Scope:    label,
		Context:  v.context.String(),
		Depth:    len(v.frames),
		Keys:     top.keys(),
		Metadata: copyMetadata(v.cfg.metadata),
	}))

	if body == nil {
		return nil
	}
	return body(ctx)
}

func (v *Values) push(label string) {
	v.frames = append(v.frames, frame{label: label, context: v.context, parent: v.active})
}

// activeContext is the context of the innermost open scope, so scopes opened
// without a context.Context still nest their spans.
func (v *Values) activeContext() context.Context {
	if v.active != nil {
		return v.active
	}
	return context.Background()
}

// pop releases the innermost frame and restores what it captured. Frames
// are released strictly in reverse order of acquisition.
func (v *Values) pop() frame {
	n := len(v.frames)
	f := v.frames[n-1]
	v.frames[n-1] = frame{}
	v.frames = v.frames[:n-1]

	for i := len(f.order) - 1; i >= 0; i-- {
		id := f.order[i]
		prior := f.prior[id]
		if prior.existed {
			v.entries[id] = prior.entry
		} else {
			delete(v.entries, id)
		}
	}
	v.context = f.context
	v.active = f.parent
	return f
}
