package deps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-dependencies/pkg/activity"
)

// Rule is a conditional override. When is an expression evaluated by the
// container's rule engine; an empty When always matches.
type Rule struct {
	Name  string
	When  string
	Apply Override
}

// Evaluate runs expr against the container's current state.
func (v *Values) Evaluate(expr string) (any, error) {
	return v.EvaluateWith(RuleContext{}, expr)
}

// EvaluateWith runs expr against ctx. Context and Overrides default to the
// container's current state, Metadata to WithRuleMetadata.
func (v *Values) EvaluateWith(ctx RuleContext, expr string) (any, error) {
	return v.evaluate(v.ruleContext(ctx), "", expr)
}

// MatchRules returns the rules whose condition holds for ctx, in order. An
// expression that fails or does not produce a bool stops matching.
func (v *Values) MatchRules(ctx RuleContext, rules []Rule) ([]Rule, error) {
	ctx = v.ruleContext(ctx)
	var matched []Rule
	for _, rule := range rules {
		ok, err := v.ruleMatches(ctx, rule)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, rule)
		}
	}
	return matched, nil
}

// ApplyRules runs body inside one override scope holding every matching
// rule's overrides.
func (v *Values) ApplyRules(ctx context.Context, rules []Rule, body func(context.Context) error) error {
	return v.ApplyRulesWith(ctx, RuleContext{}, rules, body)
}

// ApplyRulesWith is ApplyRules evaluating conditions against rc.
func (v *Values) ApplyRulesWith(ctx context.Context, rc RuleContext, rules []Rule, body func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	matched, err := v.MatchRules(rc, rules)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(matched))
	overrides := make([]Override, 0, len(matched))
	for _, rule := range matched {
		names = append(names, rule.Name)
		overrides = append(overrides, rule.Apply)
		_ = v.emitter.Emit(ctx, activity.BuildRuleMatchedEvent(activity.RuleEventInput{
			Rule:     rule.Name,
			Expr:     rule.When,
			Engine:   v.engineName(),
			Context:  v.context.String(),
			Metadata: copyMetadata(v.cfg.metadata),
		}))
	}

	return v.scope(ctx, "rules:"+strings.Join(names, ","), Overrides(overrides...), func(scoped context.Context) error {
		if body == nil {
			return nil
		}
		return body(NewContext(scoped, v))
	})
}

func (v *Values) ruleMatches(ctx RuleContext, rule Rule) (bool, error) {
	if strings.TrimSpace(rule.When) == "" {
		return true, nil
	}
	result, err := v.evaluate(ctx, rule.Name, rule.When)
	if err != nil {
		return false, err
	}
	matched, ok := result.(bool)
	if !ok {
		return false, wrapEvaluationError(v.engineName(), rule.Name, rule.When, ctx.contextLabel(),
			fmt.Errorf("%w, got %T", ErrRuleResult, result))
	}
	return matched, nil
}

func (v *Values) ruleContext(ctx RuleContext) RuleContext {
	if ctx.Context == ContextUnknown {
		ctx.Context = v.Context()
	}
	if ctx.Overrides == nil {
		ctx.Overrides = v.Overridden()
	}
	if ctx.Metadata == nil && v != nil {
		ctx.Metadata = copyMetadata(v.cfg.metadata)
	}
	return ctx.withDefaults()
}

func (v *Values) evaluate(ctx RuleContext, rule, expr string) (any, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("deps: expression must not be empty")
	}
	evaluator, err := v.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	evalErr = wrapEvaluationError(engine, rule, expr, ctx.contextLabel(), evalErr)
	v.cfg.evaluatorLogger.LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Rule:     rule,
		Expr:     expr,
		Context:  ctx.contextLabel(),
		Duration: time.Since(start),
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return value, nil
}

func (v *Values) resolveEvaluator() (Evaluator, error) {
	if v == nil {
		return nil, ErrNoEvaluator
	}
	if v.cfg.evaluator != nil {
		return v.cfg.evaluator, nil
	}
	var opts []EvaluatorOption
	if v.cfg.programCache != nil {
		opts = append(opts, EvaluatorWithProgramCache(v.cfg.programCache))
	}
	if v.cfg.functions != nil {
		opts = append(opts, EvaluatorWithFunctionRegistry(v.cfg.functions))
	}
	evaluator, err := NewEvaluatorNamed(v.cfg.engine, opts...)
	if err != nil {
		return nil, err
	}
	v.cfg.evaluator = evaluator
	return evaluator, nil
}

func (v *Values) engineName() string {
	evaluator, err := v.resolveEvaluator()
	if err != nil {
		return "unknown"
	}
	return evaluatorEngineName(evaluator)
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*deps.exprEvaluator":
		return EngineExpr
	case "*deps.celEvaluator":
		return EngineCEL
	case "*deps.jsEvaluator":
		return EngineJS
	default:
		return "custom"
	}
}
