package deps

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapEvaluationErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError("expr", "beta", `metadata.tier == "beta"`, "test", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" || evalErr.Rule != "beta" || evalErr.Context != "test" {
		t.Fatalf("unexpected metadata: %+v", evalErr)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "deps: expr evaluator rule=\"beta\"") || !strings.HasSuffix(msg, ": boom") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestWrapEvaluationErrorAugmentsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{Engine: "expr", Err: base}

	err := wrapEvaluationError("cel", "rule", "true", "preview", existing)
	if !errors.Is(err, base) {
		t.Fatalf("expected base error to unwrap")
	}
	if existing.Engine != "expr" {
		t.Fatalf("existing engine should not be overwritten, got %q", existing.Engine)
	}
	if existing.Rule != "rule" || existing.Expr != "true" || existing.Context != "preview" {
		t.Fatalf("missing fields should be filled, got %+v", existing)
	}
}

func TestWrapEvaluatorErrorKeepsPrefixedErrors(t *testing.T) {
	if wrapEvaluatorError("expr", nil) != nil {
		t.Fatalf("nil should stay nil")
	}
	prefixed := errors.New("deps: already wrapped")
	if got := wrapEvaluatorError("expr", prefixed); got != prefixed {
		t.Fatalf("expected prefixed error unchanged, got %v", got)
	}
	got := wrapEvaluatorError("cel", errors.New("bad"))
	if got.Error() != "deps: cel evaluator: bad" {
		t.Fatalf("unexpected message %q", got.Error())
	}
}

func TestEvaluationErrorEmptyExpression(t *testing.T) {
	err := &EvaluationError{Engine: "expr", Err: errors.New("x")}
	if !strings.Contains(err.Error(), "expr=<empty>") {
		t.Fatalf("expected empty expression marker, got %q", err.Error())
	}
}
