package deps

import (
	"context"
	"sort"
	"time"

	layering "github.com/goliatone/go-dependencies/layering"
	"github.com/goliatone/go-dependencies/pkg/activity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/goliatone/go-dependencies"

// Values is the container a unit of work resolves dependencies from. It holds
// the execution context, the active overrides and the stack of open scope
// frames.
//
// Values is not safe for concurrent use. Give every concurrent unit of work
// its own container with Clone or Run.
type Values struct {
	cfg     valuesConfig
	context Context
	entries map[*keyIdentity]entry
	frames  []frame
	active  context.Context
	emitter *activity.Emitter
}

type entry struct {
	name  string
	value any
}

// New constructs a Values container. Without WithContext the execution
// context comes from DetectContext.
//
// Inside a go test binary that detects ContextTest, but the default reporter
// only writes to stderr, so a missing test value does not fail the test. Use
// deptest.New(t), or WithReporter(deptest.Reporter(t)), to turn reports into
// test errors.
func New(opts ...Option) *Values {
	cfg := applyOptions(opts)
	return &Values{
		cfg:     cfg,
		context: cfg.context.normalized(),
		entries: make(map[*keyIdentity]entry),
		emitter: cfg.emitter(),
	}
}

// Context returns the execution context resolution currently starts from.
func (v *Values) Context() Context {
	if v == nil {
		return DetectContext()
	}
	return v.context
}

// Clone returns an independent container carrying the same execution
// context, overrides and collaborators. Open frames are not copied: the clone
// starts with an empty stack, and releasing frames on either side never
// affects the other.
func (v *Values) Clone() *Values {
	if v == nil {
		return New()
	}
	entries := make(map[*keyIdentity]entry, len(v.entries))
	for id, e := range v.entries {
		entries[id] = e
	}
	return &Values{
		cfg:     v.cfg,
		context: v.context,
		entries: entries,
		emitter: v.emitter,
	}
}

// Overridden returns the names of keys that currently hold an override,
// sorted alphabetically.
func (v *Values) Overridden() []string {
	if v == nil || len(v.entries) == 0 {
		return nil
	}
	names := make([]string, 0, len(v.entries))
	for _, e := range v.entries {
		names = append(names, e.name)
	}
	sort.Strings(names)
	return names
}

// Depth returns the number of open scope frames.
func (v *Values) Depth() int {
	if v == nil {
		return 0
	}
	return len(v.frames)
}

// Get resolves key: the active override when one exists, otherwise the
// cascade for the current execution context.
func Get[V any](v *Values, key *Key[V]) V {
	value, _ := Lookup(v, key)
	return value
}

// Lookup resolves key like Get and also reports where the value came from.
//
// In a test context, falling past the test tier reports exactly one
// FailureMissingTestValue before the fallback value is returned. In a live
// context, a key without a live implementation reports
// FailureMissingLiveValue. Resolution itself never fails.
func Lookup[V any](v *Values, key *Key[V]) (V, Source) {
	if v == nil {
		v = New()
	}
	start := time.Now()
	value, source := resolve(v, key)
	v.cfg.resolveLogger.LogResolve(ResolveLogEvent{
		Key:       key.Name(),
		ValueType: key.ValueType(),
		Context:   v.context,
		Source:    source,
		Duration:  time.Since(start),
	})
	return value, source
}

func resolve[V any](v *Values, key *Key[V]) (V, Source) {
	if e, ok := v.entries[key.identity()]; ok {
		// A nil interface value fails the assertion and yields the zero V,
		// which is that same nil.
		typed, _ := e.value.(V)
		return typed, SourceOverride
	}

	value, tier, ok := key.candidate(v.context.startTier())
	if !ok {
		return value, SourceNone
	}

	switch {
	case v.context == ContextTest && tier != layering.TierTest:
		v.report(Failure{
			Kind:      FailureMissingTestValue,
			Key:       key.Name(),
			ValueType: key.ValueType(),
			Context:   v.context,
		})
	case v.context == ContextLive && tier != layering.TierLive:
		v.report(Failure{
			Kind:      FailureMissingLiveValue,
			Key:       key.Name(),
			ValueType: key.ValueType(),
			Context:   v.context,
		})
	}
	return value, sourceFromTier(tier)
}

// Set installs value as the override for key. Inside a scope the previous
// value is restored when the innermost frame is released; outside any scope
// the override stays for the lifetime of the container.
func Set[V any](v *Values, key *Key[V], value V) {
	v.store(key.identity(), value)
}

// Modify resolves the current value of key, lets fn mutate a copy and stores
// the result as an override.
func Modify[V any](v *Values, key *Key[V], fn func(*V)) {
	value := Get(v, key)
	if fn != nil {
		fn(&value)
	}
	Set(v, key, value)
}

// Patch overlays the non-zero fields of partial on the current value of key
// and stores the result as an override. It is meant for struct-of-funcs
// clients where a test replaces a single endpoint.
func Patch[V any](v *Values, key *Key[V], partial V) {
	current := Get(v, key)
	Set(v, key, layering.Overlay(partial, current))
}

func (v *Values) store(id *keyIdentity, value any) {
	if n := len(v.frames); n > 0 {
		v.frames[n-1].capture(id, v.entries)
	}
	v.entries[id] = entry{name: id.name, value: value}
}

func (v *Values) report(failure Failure) {
	v.cfg.reporter.Report(failure)
	_ = v.emitter.Emit(context.Background(), activity.BuildFailureReportedEvent(activity.FailureEventInput{
		Key:       failure.Key,
		ValueType: failure.ValueType,
		Kind:      failure.Kind.String(),
		Context:   failure.Context.String(),
	}))
}

func (v *Values) tracer() trace.Tracer {
	if v.cfg.tracer != nil {
		return v.cfg.tracer
	}
	return otel.Tracer(tracerName)
}
