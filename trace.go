package deps

import (
	"encoding/json"

	layering "github.com/goliatone/go-dependencies/layering"
)

// Trace captures how a key resolves in a container: which tiers the key
// declares, the order the current execution context walks them in, and the
// source that won.
type Trace struct {
	Key       string       `json:"key"`
	ValueType string       `json:"value_type"`
	Context   string       `json:"context"`
	Source    string       `json:"source"`
	Steps     []Provenance `json:"steps"`
}

// Provenance details one step of the resolution walk. The override step
// always comes first, followed by the tiers in cascade order.
type Provenance struct {
	Source   string `json:"source"`
	Found    bool   `json:"found"`
	Selected bool   `json:"selected"`
}

// TraceKey explains how key would resolve in v without reporting failures.
func TraceKey[V any](v *Values, key *Key[V]) Trace {
	if v == nil {
		v = New()
	}
	trace := Trace{
		Key:       key.Name(),
		ValueType: key.ValueType(),
		Context:   v.context.String(),
	}

	_, overridden := v.entries[key.identity()]
	trace.Steps = append(trace.Steps, Provenance{
		Source:   SourceOverride.String(),
		Found:    overridden,
		Selected: overridden,
	})

	selected := layering.TierUnknown
	if !overridden {
		selected, _ = layering.NewChain(v.context.startTier()).First(key.Tiers())
	}
	for _, tier := range layering.NewChain(v.context.startTier()).Ordered() {
		trace.Steps = append(trace.Steps, Provenance{
			Source:   sourceFromTier(tier).String(),
			Found:    key.Tiers().Has(tier),
			Selected: tier == selected,
		})
	}

	switch {
	case overridden:
		trace.Source = SourceOverride.String()
	default:
		trace.Source = sourceFromTier(selected).String()
	}
	return trace
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
