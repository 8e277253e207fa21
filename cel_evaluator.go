package deps

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// maxCallArgs bounds the arity of call(name, ...) overloads declared in CEL.
const maxCallArgs = 3

type celEvaluator struct {
	evaluatorConfig
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. Expressions see
// context (string), now (timestamp), args and metadata (dyn) and overrides
// (list of key names).
func NewCELEvaluator(opts ...EvaluatorOption) Evaluator {
	return &celEvaluator{evaluatorConfig: applyEvaluatorOptions(opts)}
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, expression, program)
}

func (e *celEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &celCompiledRule{
		evaluator:  e,
		program:    program,
		expression: expression,
	}, nil
}

func (e *celEvaluator) loadOrCompile(expression string) (celgo.Program, error) {
	if expression == "" {
		return nil, wrapEvaluatorError(EngineCEL, fmt.Errorf("expression must not be empty"))
	}
	if cached, ok := e.cached(EngineCEL, expression); ok {
		if program, ok := cached.(celgo.Program); ok {
			return program, nil
		}
	}

	env, err := e.buildEnv()
	if err != nil {
		return nil, wrapEvaluatorError(EngineCEL, err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError(EngineCEL, "", expression, "", issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, wrapEvaluationError(EngineCEL, "", expression, "", err)
	}
	e.store(EngineCEL, expression, program)
	return program, nil
}

func (e *celEvaluator) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("context", celgo.StringType),
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
		celgo.Variable("overrides", celgo.ListType(celgo.StringType)),
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call", e.callOverloads()...))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) callOverloads() []celgo.FunctionOpt {
	overloads := make([]celgo.FunctionOpt, 0, maxCallArgs+1)
	params := []*celgo.Type{celgo.StringType}
	for arity := 0; arity <= maxCallArgs; arity++ {
		overloads = append(overloads, celgo.Overload(
			fmt.Sprintf("call_string_dyn%d", arity),
			append([]*celgo.Type{}, params...),
			celgo.DynType,
			celgo.FunctionBinding(e.callBinding),
		))
		params = append(params, celgo.DynType)
	}
	return overloads
}

func (e *celEvaluator) callBinding(values ...ref.Val) ref.Val {
	if len(values) == 0 {
		return types.NewErr("deps: call requires function name")
	}
	name, ok := values[0].Value().(string)
	if !ok {
		return types.NewErr("deps: call name must be string")
	}
	args := make([]any, 0, len(values)-1)
	for _, val := range values[1:] {
		args = append(args, val.Value())
	}
	result, err := e.registry.Call(name, args...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}

func (e *celEvaluator) run(ctx RuleContext, expression string, program celgo.Program) (any, error) {
	ctx = ctx.withDefaults()
	out, _, err := program.Eval(ctx.binding())
	if err != nil {
		return nil, wrapEvaluationError(EngineCEL, "", expression, ctx.contextLabel(), err)
	}
	return out.Value(), nil
}

type celCompiledRule struct {
	evaluator  *celEvaluator
	program    celgo.Program
	expression string
}

func (r *celCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.evaluator == nil || r.program == nil {
		return nil, wrapEvaluatorError(EngineCEL, fmt.Errorf("compiled rule missing program"))
	}
	return r.evaluator.run(ctx, r.expression, r.program)
}
