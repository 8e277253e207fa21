package deps

import (
	"time"

	layering "github.com/goliatone/go-dependencies/layering"
	"github.com/goliatone/go-dependencies/pkg/activity"
	"go.opentelemetry.io/otel/trace"
)

// Source reports where a resolved value came from.
type Source int

const (
	// SourceNone is returned only for keys without any declared candidate.
	SourceNone Source = iota
	// SourceOverride marks a value installed with Set or a scope override.
	SourceOverride
	// SourceTest marks the key's test implementation.
	SourceTest
	// SourcePreview marks the key's preview implementation.
	SourcePreview
	// SourceLive marks the key's live implementation.
	SourceLive
)

func (s Source) String() string {
	switch s {
	case SourceOverride:
		return "override"
	case SourceTest:
		return "test"
	case SourcePreview:
		return "preview"
	case SourceLive:
		return "live"
	default:
		return "none"
	}
}

func sourceFromTier(tier layering.Tier) Source {
	switch tier {
	case layering.TierTest:
		return SourceTest
	case layering.TierPreview:
		return SourcePreview
	case layering.TierLive:
		return SourceLive
	default:
		return SourceNone
	}
}

// RuleContext carries inputs needed when evaluating a rule expression.
type RuleContext struct {
	Context   Context
	Now       *time.Time
	Args      map[string]any
	Metadata  map[string]any
	Overrides []string
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	if ctx.Overrides == nil {
		ctx.Overrides = []string{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) contextLabel() string {
	return ctx.Context.normalized().String()
}

// binding exposes the context to expression engines.
func (ctx RuleContext) binding() map[string]any {
	ctx = ctx.withDefaults()
	return map[string]any{
		"context":   ctx.contextLabel(),
		"now":       ctx.timestamp(),
		"args":      ctx.Args,
		"metadata":  ctx.Metadata,
		"overrides": ctx.Overrides,
	}
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// Option configures a Values container.
type Option func(*valuesConfig)

type valuesConfig struct {
	context         Context
	reporter        Reporter
	resolveLogger   ResolveLogger
	evaluator       Evaluator
	engine          string
	programCache    ProgramCache
	functions       *FunctionRegistry
	evaluatorLogger EvaluatorLogger
	activityHooks   activity.Hooks
	activityConfig  *activity.Config
	tracer          trace.Tracer
	metadata        map[string]any
}

func applyOptions(opts []Option) valuesConfig {
	cfg := valuesConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.context == ContextUnknown {
		cfg.context = DetectContext()
	}
	if cfg.reporter == nil {
		cfg.reporter = defaultReporter()
	}
	if cfg.resolveLogger == nil {
		cfg.resolveLogger = noopResolveLogger{}
	}
	if cfg.evaluatorLogger == nil {
		cfg.evaluatorLogger = noopEvaluatorLogger{}
	}
	return cfg
}

func (cfg valuesConfig) emitter() *activity.Emitter {
	config := activity.Config{Enabled: true}
	if cfg.activityConfig != nil {
		config = *cfg.activityConfig
	}
	return activity.NewEmitter(cfg.activityHooks, config)
}

func copyMetadata(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}
