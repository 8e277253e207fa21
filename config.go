package deps

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-dependencies/pkg/activity"
)

// Config holds container settings read from the environment.
type Config struct {
	Context         string `env:"GO_DEPENDENCIES_CONTEXT"`
	RuleEngine      string `env:"GO_DEPENDENCIES_RULE_ENGINE" envDefault:"expr"`
	ActivityEnabled bool   `env:"GO_DEPENDENCIES_ACTIVITY_ENABLED" envDefault:"true"`
	ActivityChannel string `env:"GO_DEPENDENCIES_ACTIVITY_CHANNEL" envDefault:"dependencies"`
}

// LoadConfig parses Config from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("deps: parse env: %w", err)
	}
	return cfg, nil
}

// Options converts the configuration into container options. An empty
// Context leaves detection to New.
func (c Config) Options() ([]Option, error) {
	var opts []Option
	if strings.TrimSpace(c.Context) != "" {
		parsed, err := ParseContext(c.Context)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithContext(parsed))
	}
	switch engine := strings.ToLower(strings.TrimSpace(c.RuleEngine)); engine {
	case "", EngineExpr, EngineCEL, EngineJS:
		opts = append(opts, WithRuleEngine(engine))
	default:
		return nil, fmt.Errorf("deps: unknown rule engine %q", c.RuleEngine)
	}
	opts = append(opts, WithActivityConfig(activity.Config{
		Enabled: c.ActivityEnabled,
		Channel: c.ActivityChannel,
	}))
	return opts, nil
}

// NewFromEnv builds a container from LoadConfig followed by opts.
func NewFromEnv(opts ...Option) (*Values, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	base, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return New(append(base, opts...)...), nil
}
