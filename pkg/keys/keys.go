// Package keys declares dependency keys for collaborators most programs
// need: identifier generation, the clock and a scratch directory.
package keys

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	deps "github.com/goliatone/go-dependencies"
	"github.com/google/uuid"
)

// UUIDGenerator produces identifiers.
type UUIDGenerator func() uuid.UUID

// New returns the next identifier.
func (g UUIDGenerator) New() uuid.UUID {
	if g == nil {
		return uuid.Nil
	}
	return g()
}

// Incrementing returns a generator yielding 00000000-0000-0000-0000-000000000000,
// then ...0001 and so on. Each call returns an independent sequence.
func Incrementing() UUIDGenerator {
	var (
		mu   sync.Mutex
		next uint64
	)
	return func() uuid.UUID {
		mu.Lock()
		defer mu.Unlock()
		id := uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012x", next))
		next++
		return id
	}
}

// Constant returns a generator that always yields id.
func Constant(id uuid.UUID) UUIDGenerator {
	return func() uuid.UUID { return id }
}

// Clock reports the current time.
type Clock func() time.Time

// Now returns the current time according to c.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Time{}
	}
	return c()
}

// Fixed returns a clock stopped at t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}

// Epoch is the instant test and preview clocks are stopped at.
var Epoch = time.Unix(1234567890, 0).UTC()

var (
	// UUID generates identifiers. Tests get a constant nil UUID unless they
	// install the "incrementing" variant or their own generator.
	UUID = deps.NewKey("UUID", UUIDGenerator(uuid.New),
		deps.WithTestValue(Constant(uuid.Nil)),
		deps.WithVariant("incrementing", Incrementing()),
		deps.WithDescription[UUIDGenerator]("identifier generator"),
	)

	// Now is the clock. Preview and test contexts see Epoch.
	Now = deps.NewKey("Now", Clock(time.Now),
		deps.WithPreviewValue(Fixed(Epoch)),
		deps.WithTestValue(Fixed(Epoch)),
		deps.WithVariant("fixed", Fixed(Epoch)),
		deps.WithDescription[Clock]("current time"),
	)

	// TemporaryDirectory is a scratch directory path.
	TemporaryDirectory = deps.NewKey("TemporaryDirectory", os.TempDir(),
		deps.WithPreviewValue(filepath.Join(os.TempDir(), "go-dependencies-preview")),
		deps.WithTestValue(filepath.Join(os.TempDir(), "go-dependencies-test")),
		deps.WithDescription[string]("scratch directory"),
	)
)

// Builtins catalogs the keys declared in this package.
var Builtins = deps.MustCatalog(UUID, Now, TemporaryDirectory)
