package deps

// KeyDescriptor summarises a key and how it currently resolves.
type KeyDescriptor struct {
	Name        string   `json:"name"`
	ValueType   string   `json:"value_type"`
	Description string   `json:"description,omitempty"`
	Tiers       []string `json:"tiers"`
	Variants    []string `json:"variants,omitempty"`
	Overridden  bool     `json:"overridden"`
	Source      string   `json:"source"`
}

// Describe lists every key in c as seen from v, sorted by name. Nothing is
// reported while describing.
func Describe(c *Catalog, v *Values) []KeyDescriptor {
	keys := c.Keys()
	out := make([]KeyDescriptor, 0, len(keys))
	for _, key := range keys {
		trace := key.traceIn(v)
		out = append(out, KeyDescriptor{
			Name:        key.Name(),
			ValueType:   key.ValueType(),
			Description: key.Description(),
			Tiers:       key.Tiers().Strings(),
			Variants:    key.Variants(),
			Overridden:  trace.Source == SourceOverride.String(),
			Source:      trace.Source,
		})
	}
	return out
}
