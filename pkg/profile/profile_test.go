package profile

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	deps "github.com/goliatone/go-dependencies"
	"github.com/goliatone/go-dependencies/internal/hydrate"
	"github.com/goliatone/go-dependencies/pkg/keys"
)

func testdataPath(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("unable to resolve caller")
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

func TestLoadExpandsShorthand(t *testing.T) {
	p, err := Load(testdataPath(t, "preview.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Name != "preview" || p.Context != "preview" {
		t.Fatalf("unexpected header %+v", p)
	}
	if len(p.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(p.Rules))
	}
	if p.Rules[0].Use["UUID"] != "incrementing" {
		t.Fatalf("expected shorthand expanded, got %+v", p.Rules[0].Use)
	}
	if exprs := p.Expressions(); len(exprs) != 2 {
		t.Fatalf("expected 2 expressions, got %v", exprs)
	}
}

func TestParseValidation(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want error
	}{
		{name: "missing rule name", raw: `{"rules":[{"use":{"Now":"fixed"}}]}`, want: ErrRuleName},
		{name: "empty use", raw: `{"rules":[{"name":"r","use":{}}]}`, want: ErrRuleUse},
		{name: "bad context", raw: `{"context":"staging","rules":[]}`, want: deps.ErrUnknownContext},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.raw), hydrate.Context{Profile: "inline"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseDefaultsName(t *testing.T) {
	p, err := Parse([]byte(`{"rules":[]}`), hydrate.Context{Profile: "fallback"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Name != "fallback" {
		t.Fatalf("expected default name, got %q", p.Name)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	if _, err := Parse([]byte(`{"name":"x","extra":1}`), hydrate.Context{}); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestRulesUnknownVariant(t *testing.T) {
	p := Profile{Name: "p", Rules: []RuleSpec{{Name: "r", Use: map[string]string{"Now": "slow"}}}}
	if _, err := p.Rules(keys.Builtins); !errors.Is(err, deps.ErrUnknownVariant) {
		t.Fatalf("expected unknown variant, got %v", err)
	}
	p.Rules[0].Use = map[string]string{"Missing": "x"}
	if _, err := p.Rules(keys.Builtins); !errors.Is(err, deps.ErrUnknownKey) {
		t.Fatalf("expected unknown key, got %v", err)
	}
}

func TestApplySwitchesContextAndRestores(t *testing.T) {
	p, err := Load(testdataPath(t, "preview.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	v := deps.New(deps.WithContext(deps.ContextTest))

	err = p.Apply(context.Background(), v, keys.Builtins, func(ctx context.Context) error {
		scoped := deps.FromContext(ctx)
		if scoped.Context() != deps.ContextPreview {
			t.Fatalf("expected preview context, got %s", scoped.Context())
		}
		gen := deps.Get(scoped, keys.UUID)
		if first, second := gen.New(), gen.New(); first == second {
			t.Fatalf("expected incrementing generator, got %s twice", first)
		}
		if _, source := deps.Lookup(scoped, keys.Now); source != deps.SourceOverride {
			t.Fatalf("expected frozen clock override, got %s", source)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if v.Context() != deps.ContextTest {
		t.Fatalf("expected context restored, got %s", v.Context())
	}
	if got := v.Overridden(); len(got) != 0 {
		t.Fatalf("expected overrides released, got %v", got)
	}
}
