// Package deptest wires dependency containers into go test.
package deptest

import (
	"sync"
	"testing"

	deps "github.com/goliatone/go-dependencies"
)

// Reporter returns a Reporter that fails t with the failure message. The
// test keeps running, so the resolve call still returns its fallback value.
func Reporter(t testing.TB) deps.Reporter {
	return deps.ReporterFunc(func(failure deps.Failure) {
		t.Helper()
		t.Errorf("%s", failure.Message())
	})
}

// New returns a test context container reporting failures through t.
// opts are applied after the defaults and may replace them.
func New(t testing.TB, opts ...deps.Option) *deps.Values {
	t.Helper()
	base := []deps.Option{
		deps.WithContext(deps.ContextTest),
		deps.WithReporter(Reporter(t)),
	}
	return deps.New(append(base, opts...)...)
}

// Capture is a Reporter recording failures for later assertions.
type Capture struct {
	mu       sync.Mutex
	failures []deps.Failure
}

// Report implements deps.Reporter.
func (c *Capture) Report(failure deps.Failure) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, failure)
}

// Failures returns a copy of the recorded failures.
func (c *Capture) Failures() []deps.Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]deps.Failure(nil), c.failures...)
}

// Len returns the number of recorded failures.
func (c *Capture) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.failures)
}

// Reset drops the recorded failures.
func (c *Capture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = nil
}

// Expect runs fn with a test context container whose failures are captured,
// and fails t unless exactly want failures were reported. The captured
// failures are returned for further checks.
func Expect(t testing.TB, want int, fn func(v *deps.Values)) []deps.Failure {
	t.Helper()
	capture := &Capture{}
	v := deps.New(deps.WithContext(deps.ContextTest), deps.WithReporter(capture))
	if fn != nil {
		fn(v)
	}
	failures := capture.Failures()
	if len(failures) != want {
		t.Errorf("deptest: expected %d reported failure(s), got %d", want, len(failures))
		for _, failure := range failures {
			t.Logf("reported:\n%s", failure.Message())
		}
	}
	return failures
}
