package deps

import (
	"github.com/goliatone/go-dependencies/pkg/activity"
	"go.opentelemetry.io/otel/trace"
)

// WithContext pins the execution context instead of detecting it.
func WithContext(c Context) Option {
	return func(cfg *valuesConfig) {
		cfg.context = c
	}
}

// WithReporter routes recoverable failures to reporter. A nil reporter keeps
// the default stderr reporter.
func WithReporter(reporter Reporter) Option {
	return func(cfg *valuesConfig) {
		cfg.reporter = reporter
	}
}

// WithEvaluator configures the evaluator used for rule expressions.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *valuesConfig) {
		cfg.evaluator = e
	}
}

// WithRuleEngine selects a bundled rule engine by name (expr, cel, js).
// WithEvaluator takes precedence.
func WithRuleEngine(engine string) Option {
	return func(cfg *valuesConfig) {
		cfg.engine = engine
	}
}

// WithActivityHooks attaches activity hooks notified about overrides, rule
// matches and failures. Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *valuesConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityConfig overrides the emitter configuration. Without it events
// are emitted whenever hooks are present, on the "dependencies" channel.
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *valuesConfig) {
		copied := config
		cfg.activityConfig = &copied
	}
}

// WithTracer sets the tracer used for override scopes. The global
// OpenTelemetry tracer is used otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(cfg *valuesConfig) {
		cfg.tracer = tracer
	}
}

// WithRuleMetadata sets the metadata exposed to rule expressions as
// `metadata`. The map is copied.
func WithRuleMetadata(metadata map[string]any) Option {
	copied := copyMetadata(metadata)
	return func(cfg *valuesConfig) {
		cfg.metadata = copied
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
