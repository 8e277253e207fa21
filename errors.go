package deps

import "errors"

var (
	// ErrMissingTestValue matches failures raised when a test context falls
	// back to a non-test implementation.
	ErrMissingTestValue = errors.New("deps: missing test value")
	// ErrMissingLiveValue matches failures raised when a live context
	// resolves a key without a live implementation.
	ErrMissingLiveValue = errors.New("deps: missing live value")
	// ErrUnknownContext indicates an execution context name that could not be
	// parsed.
	ErrUnknownContext = errors.New("deps: unknown execution context")
	// ErrKeyRequired indicates a nil key handed to a Catalog.
	ErrKeyRequired = errors.New("deps: key must be provided")
	// ErrDuplicateKey indicates a Catalog received two keys with one name.
	ErrDuplicateKey = errors.New("deps: key names must be unique")
	// ErrUnknownKey indicates a Catalog lookup for an unregistered name.
	ErrUnknownKey = errors.New("deps: key not registered")
	// ErrUnknownVariant indicates a key has no variant with the given name.
	ErrUnknownVariant = errors.New("deps: variant not declared")
	// ErrNoEvaluator indicates rule evaluation without a usable evaluator.
	ErrNoEvaluator = errors.New("deps: evaluator not configured")
	// ErrRuleResult indicates a rule expression that did not produce a bool.
	ErrRuleResult = errors.New("deps: rule must evaluate to a bool")
)
