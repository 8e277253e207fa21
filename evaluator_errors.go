package deps

import (
	"errors"
	"fmt"
	"strings"
)

// EvaluationError reports a rule expression that failed to compile or run.
type EvaluationError struct {
	Engine  string
	Rule    string
	Expr    string
	Context string
	Err     error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "deps: %s evaluator", e.Engine)
	if e.Rule != "" {
		fmt.Fprintf(&b, " rule=%q", e.Rule)
	}
	if e.Expr == "" {
		b.WriteString(" expr=<empty>")
	} else {
		fmt.Fprintf(&b, " expr=%q", e.Expr)
	}
	if e.Context != "" {
		fmt.Fprintf(&b, " context=%s", e.Context)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}
	if strings.HasPrefix(err.Error(), "deps:") {
		return err
	}
	return fmt.Errorf("deps: %s evaluator: %w", engine, err)
}

// wrapEvaluationError attaches rule metadata to err. Fields already set on
// an existing EvaluationError are kept.
func wrapEvaluationError(engine, rule, expr, context string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Rule == "" {
			evalErr.Rule = rule
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Context == "" {
			evalErr.Context = context
		}
		return evalErr
	}

	return &EvaluationError{
		Engine:  engine,
		Rule:    rule,
		Expr:    expr,
		Context: context,
		Err:     err,
	}
}
