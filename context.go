package deps

import (
	"fmt"
	"os"
	"strings"
	"testing"

	layering "github.com/goliatone/go-dependencies/layering"
)

// EnvContext names the environment variable that forces the execution
// context picked by DetectContext.
const EnvContext = "GO_DEPENDENCIES_CONTEXT"

// Context identifies the execution context a Values container resolves
// under. It selects the tier resolution starts from.
type Context int

const (
	// ContextUnknown guards against misconfiguration so call sites can detect
	// missing metadata. Values treats it as ContextLive.
	ContextUnknown Context = iota
	// ContextLive is production: live implementations are used.
	ContextLive
	// ContextPreview is design-time rendering: preview implementations first.
	ContextPreview
	// ContextTest is automated testing: test implementations are required.
	ContextTest
)

func (c Context) String() string {
	switch c {
	case ContextLive:
		return "live"
	case ContextPreview:
		return "preview"
	case ContextTest:
		return "test"
	default:
		return "unknown"
	}
}

// ParseContext converts a string representation into the corresponding
// Context. Matching is case insensitive and ignores surrounding whitespace.
func ParseContext(value string) (Context, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "live":
		return ContextLive, nil
	case "preview":
		return ContextPreview, nil
	case "test":
		return ContextTest, nil
	default:
		return ContextUnknown, fmt.Errorf("%w: %q", ErrUnknownContext, value)
	}
}

// DetectContext returns the execution context for the current process.
// EnvContext wins when it holds a valid value, binaries built by go test
// resolve to ContextTest, everything else is ContextLive.
func DetectContext() Context {
	if raw := os.Getenv(EnvContext); raw != "" {
		if c, err := ParseContext(raw); err == nil {
			return c
		}
	}
	if testing.Testing() {
		return ContextTest
	}
	return ContextLive
}

func (c Context) normalized() Context {
	if c == ContextUnknown {
		return ContextLive
	}
	return c
}

// startTier maps the execution context onto the tier resolution begins at.
func (c Context) startTier() layering.Tier {
	switch c.normalized() {
	case ContextPreview:
		return layering.TierPreview
	case ContextTest:
		return layering.TierTest
	default:
		return layering.TierLive
	}
}
