package deps

import "time"

// ResolveLogEvent describes one resolve call for logging.
type ResolveLogEvent struct {
	Key       string
	ValueType string
	Context   Context
	Source    Source
	Duration  time.Duration
}

// ResolveLogger records resolve events.
type ResolveLogger interface {
	LogResolve(ResolveLogEvent)
}

// ResolveLoggerFunc adapts a function to ResolveLogger.
type ResolveLoggerFunc func(ResolveLogEvent)

// LogResolve implements ResolveLogger.
func (f ResolveLoggerFunc) LogResolve(event ResolveLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopResolveLogger struct{}

func (noopResolveLogger) LogResolve(ResolveLogEvent) {}

// WithResolveLogger attaches a resolve logger to the Values container.
func WithResolveLogger(logger ResolveLogger) Option {
	return func(cfg *valuesConfig) {
		if logger == nil {
			cfg.resolveLogger = noopResolveLogger{}
			return
		}
		cfg.resolveLogger = logger
	}
}

// EvaluatorLogEvent describes a rule evaluation attempt for logging.
type EvaluatorLogEvent struct {
	Engine   string
	Rule     string
	Expr     string
	Context  string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// WithEvaluatorLogger attaches an evaluator logger to the Values container.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *valuesConfig) {
		if logger == nil {
			cfg.evaluatorLogger = noopEvaluatorLogger{}
			return
		}
		cfg.evaluatorLogger = logger
	}
}
