package deps

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// FailureKind classifies a recoverable resolution failure.
type FailureKind int

const (
	// FailureMissingTestValue is raised when a test context falls back past
	// the test tier because no test value and no override exist.
	FailureMissingTestValue FailureKind = iota + 1
	// FailureMissingLiveValue is raised when a live context resolves a key
	// that only declares test (and preview) implementations.
	FailureMissingLiveValue
)

func (k FailureKind) String() string {
	switch k {
	case FailureMissingTestValue:
		return "missing_test_value"
	case FailureMissingLiveValue:
		return "missing_live_value"
	default:
		return "unknown"
	}
}

// Failure describes one offending resolve call. It is produced for the
// configured Reporter and is never returned from resolution, which always
// yields a usable value.
type Failure struct {
	Kind      FailureKind
	Key       string
	ValueType string
	Context   Context
}

const missingTestValueTemplate = `A dependency is being used in a test environment without providing a test implementation:

  Key:
    %s
  Dependency:
    %s

Dependencies registered with the library are not allowed to use their live implementations when run in a test context.

To fix, supply a test implementation for %s.`

const missingLiveValueTemplate = `A dependency has no live implementation, but was accessed from a live context:

  Key:
    %s
  Dependency:
    %s

Every dependency registered with the library must provide a live implementation, which is used when the application runs outside of previews and tests.

To fix, supply a live implementation for %s.`

// Message renders the fixed diagnostic text for the failure.
func (f Failure) Message() string {
	switch f.Kind {
	case FailureMissingLiveValue:
		return fmt.Sprintf(missingLiveValueTemplate, f.Key, f.ValueType, f.Key)
	default:
		return fmt.Sprintf(missingTestValueTemplate, f.Key, f.ValueType, f.Key)
	}
}

func (f Failure) Error() string {
	return f.Message()
}

// Is lets errors.Is match a Failure against ErrMissingTestValue and
// ErrMissingLiveValue.
func (f Failure) Is(target error) bool {
	switch target {
	case ErrMissingTestValue:
		return f.Kind == FailureMissingTestValue
	case ErrMissingLiveValue:
		return f.Kind == FailureMissingLiveValue
	default:
		return false
	}
}

// Reporter receives recoverable failures. Implementations must not stop the
// calling goroutine; the resolve call that produced the failure still
// returns its fallback value afterwards.
type Reporter interface {
	Report(Failure)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Failure)

// Report implements Reporter.
func (f ReporterFunc) Report(failure Failure) {
	if f != nil {
		f(failure)
	}
}

// WriterReporter returns a Reporter that writes every failure message to w,
// prefixed with "deps: ". It is the default reporter (bound to os.Stderr).
func WriterReporter(w io.Writer) Reporter {
	return &writerReporter{w: w}
}

type writerReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func (r *writerReporter) Report(failure Failure) {
	if r.w == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	message := strings.ReplaceAll(failure.Message(), "\n", "\n      ")
	fmt.Fprintf(r.w, "deps: %s\n", message)
}

func defaultReporter() Reporter {
	return WriterReporter(os.Stderr)
}
