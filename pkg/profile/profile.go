// Package profile loads named sets of conditional overrides from JSON
// documents and applies them to a dependency container.
package profile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	deps "github.com/goliatone/go-dependencies"
	"github.com/goliatone/go-dependencies/internal/hydrate"
)

var (
	// ErrRuleName indicates a rule without a name.
	ErrRuleName = errors.New("profile: rule name must be provided")
	// ErrRuleUse indicates a rule that installs nothing.
	ErrRuleUse = errors.New("profile: rule must use at least one variant")
)

// Profile is a named set of rules. Context, when set, switches the
// execution context while the profile is applied.
type Profile struct {
	Name    string     `json:"name"`
	Context string     `json:"context,omitempty"`
	Rules   []RuleSpec `json:"rules"`
}

// RuleSpec installs key variants when When holds. Use maps key names to
// variant names; the shorthand "Key=variant" (comma separated) is accepted.
type RuleSpec struct {
	Name string            `json:"name"`
	When string            `json:"when,omitempty"`
	Use  map[string]string `json:"use"`
}

// Load reads and decodes the profile at path.
func Load(path string) (Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("profile: read %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(raw, hydrate.Context{Source: path, Profile: name})
}

// Parse decodes raw. ctx names the document in errors and provides the
// default profile name.
func Parse(raw []byte, ctx hydrate.Context) (Profile, error) {
	decoder := hydrate.NewDecoder(
		hydrate.WithDisallowUnknownFields[Profile](),
		hydrate.WithPreHook[Profile](expandShorthand),
		hydrate.WithPostHook[Profile](validate),
	)
	return decoder.DecodeBytes(ctx, raw)
}

// ExecutionContext parses Context. ContextUnknown means the profile leaves
// the container's context alone.
func (p Profile) ExecutionContext() (deps.Context, error) {
	if strings.TrimSpace(p.Context) == "" {
		return deps.ContextUnknown, nil
	}
	return deps.ParseContext(p.Context)
}

// Expressions returns the non-empty rule conditions in declaration order.
func (p Profile) Expressions() []string {
	var out []string
	for _, rule := range p.Rules {
		if strings.TrimSpace(rule.When) != "" {
			out = append(out, rule.When)
		}
	}
	return out
}

// Rules resolves every rule against catalog. Variants are installed in key
// name order.
func (p Profile) Rules(catalog *deps.Catalog) ([]deps.Rule, error) {
	rules := make([]deps.Rule, 0, len(p.Rules))
	for _, spec := range p.Rules {
		keys := make([]string, 0, len(spec.Use))
		for key := range spec.Use {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		overrides := make([]deps.Override, 0, len(keys))
		for _, key := range keys {
			override, err := catalog.Variant(key, spec.Use[key])
			if err != nil {
				return nil, fmt.Errorf("profile %s: rule %s: %w", p.Name, spec.Name, err)
			}
			overrides = append(overrides, override)
		}
		rules = append(rules, deps.Rule{
			Name:  spec.Name,
			When:  spec.When,
			Apply: deps.Overrides(overrides...),
		})
	}
	return rules, nil
}

// Apply runs body with the profile in effect on v: the profile context, if
// any, then every matching rule. Everything is restored when body returns.
func (p Profile) Apply(ctx context.Context, v *deps.Values, catalog *deps.Catalog, body func(context.Context) error) error {
	rules, err := p.Rules(catalog)
	if err != nil {
		return err
	}
	execution, err := p.ExecutionContext()
	if err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	if execution == deps.ContextUnknown {
		return v.ApplyRules(ctx, rules, body)
	}
	return v.WithContext(execution, func() error {
		return v.ApplyRules(ctx, rules, body)
	})
}

func expandShorthand(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	rules, _ := payload["rules"].([]any)
	for _, raw := range rules {
		rule, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		use, ok := rule["use"].(string)
		if !ok {
			continue
		}
		expanded := map[string]any{}
		for _, pair := range strings.Split(use, ",") {
			key, variant, found := strings.Cut(pair, "=")
			key, variant = strings.TrimSpace(key), strings.TrimSpace(variant)
			if !found || key == "" || variant == "" {
				return nil, fmt.Errorf("profile: invalid use %q, want Key=variant", use)
			}
			expanded[key] = variant
		}
		rule["use"] = expanded
	}
	return payload, nil
}

func validate(ctx hydrate.Context, p *Profile) error {
	if p.Name == "" {
		p.Name = ctx.Profile
	}
	if _, err := p.ExecutionContext(); err != nil {
		return err
	}
	for i, rule := range p.Rules {
		if strings.TrimSpace(rule.Name) == "" {
			return fmt.Errorf("%w (rule %d)", ErrRuleName, i)
		}
		if len(rule.Use) == 0 {
			return fmt.Errorf("%w: %s", ErrRuleUse, rule.Name)
		}
	}
	return nil
}
