package deps

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-dependencies/pkg/activity"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GO_DEPENDENCIES_CONTEXT", "")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RuleEngine != "expr" || !cfg.ActivityEnabled || cfg.ActivityChannel != "dependencies" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfigRejectsInvalidBool(t *testing.T) {
	t.Setenv("GO_DEPENDENCIES_ACTIVITY_ENABLED", "maybe")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNewFromEnvAppliesSettings(t *testing.T) {
	t.Setenv("GO_DEPENDENCIES_CONTEXT", "preview")
	t.Setenv("GO_DEPENDENCIES_RULE_ENGINE", "cel")
	t.Setenv("GO_DEPENDENCIES_ACTIVITY_CHANNEL", "audit")

	capture := &activity.CaptureHook{}
	v, err := NewFromEnv(WithActivityHooks(activity.Hooks{capture}))
	if err != nil {
		t.Fatalf("new from env: %v", err)
	}
	if v.Context() != ContextPreview {
		t.Fatalf("expected preview context, got %s", v.Context())
	}
	got, err := v.Evaluate(`size(overrides) == 0`)
	if err != nil || got != true {
		t.Fatalf("expected cel engine, got %v %v", got, err)
	}
	_ = v.ApplyRules(context.Background(), nil, nil)
	if len(capture.Events) != 1 || capture.Events[0].Channel != "audit" {
		t.Fatalf("expected event on audit channel, got %+v", capture.Events)
	}
}

func TestConfigOptionsValidation(t *testing.T) {
	if _, err := (Config{Context: "staging"}).Options(); !errors.Is(err, ErrUnknownContext) {
		t.Fatalf("expected unknown context, got %v", err)
	}
	if _, err := (Config{RuleEngine: "lua"}).Options(); err == nil {
		t.Fatalf("expected unknown engine error")
	}
}

func TestDetectContext(t *testing.T) {
	t.Setenv(EnvContext, "")
	if got := DetectContext(); got != ContextTest {
		t.Fatalf("expected test context under go test, got %s", got)
	}
	t.Setenv(EnvContext, " Preview ")
	if got := DetectContext(); got != ContextPreview {
		t.Fatalf("expected env override, got %s", got)
	}
	t.Setenv(EnvContext, "bogus")
	if got := DetectContext(); got != ContextTest {
		t.Fatalf("expected invalid env to be ignored, got %s", got)
	}
}

func TestParseContext(t *testing.T) {
	for input, want := range map[string]Context{"live": ContextLive, "PREVIEW": ContextPreview, " test ": ContextTest} {
		got, err := ParseContext(input)
		if err != nil || got != want {
			t.Fatalf("%q: expected %s, got %s (%v)", input, want, got, err)
		}
	}
	if _, err := ParseContext("staging"); !errors.Is(err, ErrUnknownContext) {
		t.Fatalf("expected ErrUnknownContext, got %v", err)
	}
}
