package deps

// EvaluatorOption configures any of the bundled rule engines.
type EvaluatorOption func(*evaluatorConfig)

type evaluatorConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// EvaluatorWithProgramCache shares compiled programs through cache. Entries
// are namespaced by engine and by function registry, so one cache can serve
// several evaluators and containers.
func EvaluatorWithProgramCache(cache ProgramCache) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		cfg.cache = cache
	}
}

// EvaluatorWithFunctionRegistry exposes registry's functions to expressions.
func EvaluatorWithFunctionRegistry(registry *FunctionRegistry) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

func applyEvaluatorOptions(opts []EvaluatorOption) evaluatorConfig {
	cfg := evaluatorConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (cfg evaluatorConfig) cached(engine, expression string) (any, bool) {
	if cfg.cache == nil {
		return nil, false
	}
	return cfg.cache.Get(cfg.cacheKey(engine, expression))
}

func (cfg evaluatorConfig) store(engine, expression string, program any) {
	if cfg.cache == nil {
		return
	}
	cfg.cache.Set(cfg.cacheKey(engine, expression), program)
}

// cacheKey is engine:expression, or engine:fingerprint:expression when the
// program binds custom functions.
func (cfg evaluatorConfig) cacheKey(engine, expression string) string {
	if fp := cfg.registry.Fingerprint(); fp != "" {
		return engine + ":" + fp + ":" + expression
	}
	return engine + ":" + expression
}

// Engine names accepted by NewEvaluatorNamed.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// NewEvaluatorNamed builds the evaluator registered under engine. The js
// engine is only available in binaries built with the js_eval tag.
func NewEvaluatorNamed(engine string, opts ...EvaluatorOption) (Evaluator, error) {
	switch engine {
	case "", EngineExpr:
		return NewExprEvaluator(opts...), nil
	case EngineCEL:
		return NewCELEvaluator(opts...), nil
	case EngineJS:
		if evaluator := NewJSEvaluator(opts...); evaluator != nil {
			return evaluator, nil
		}
		return nil, wrapEvaluatorError(EngineJS, ErrNoEvaluator)
	default:
		return nil, wrapEvaluatorError(engine, ErrNoEvaluator)
	}
}
