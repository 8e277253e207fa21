package layering

import "strings"

// Tier identifies one candidate implementation slot of a dependency key.
type Tier int

const (
	// TierUnknown guards against misconfiguration so call sites can detect
	// missing metadata.
	TierUnknown Tier = iota
	// TierLive holds the production implementation.
	TierLive
	// TierPreview holds the design-time implementation.
	TierPreview
	// TierTest holds the implementation used by automated tests.
	TierTest
)

func (t Tier) String() string {
	switch t {
	case TierLive:
		return "live"
	case TierPreview:
		return "preview"
	case TierTest:
		return "test"
	default:
		return "unknown"
	}
}

// ParseTier converts a string representation into the corresponding Tier.
// Returns TierUnknown for unrecognised values.
func ParseTier(value string) Tier {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "live":
		return TierLive
	case "preview":
		return TierPreview
	case "test":
		return TierTest
	default:
		return TierUnknown
	}
}

// Chain describes the cascade order for a starting tier, from the tier that
// is consulted first to the last resort.
type Chain struct {
	ordered []Tier
}

// NewChain builds the cascade for start:
//
//	test    -> test, preview, live
//	preview -> preview, live, test
//	live    -> live, preview, test
//
// Unknown start tiers cascade like live.
func NewChain(start Tier) Chain {
	switch start {
	case TierTest:
		return Chain{ordered: []Tier{TierTest, TierPreview, TierLive}}
	case TierPreview:
		return Chain{ordered: []Tier{TierPreview, TierLive, TierTest}}
	default:
		return Chain{ordered: []Tier{TierLive, TierPreview, TierTest}}
	}
}

// Ordered returns the cascade from first consulted (index 0) to last.
func (c Chain) Ordered() []Tier {
	out := make([]Tier, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Strongest returns the first tier in the chain (TierUnknown if empty).
func (c Chain) Strongest() Tier {
	if len(c.ordered) == 0 {
		return TierUnknown
	}
	return c.ordered[0]
}

// Weakest returns the final tier in the chain (TierUnknown if empty).
func (c Chain) Weakest() Tier {
	if len(c.ordered) == 0 {
		return TierUnknown
	}
	return c.ordered[len(c.ordered)-1]
}

// First returns the first tier of the chain that present reports as
// declared.
func (c Chain) First(present TierSet) (Tier, bool) {
	for _, tier := range c.ordered {
		if present.Has(tier) {
			return tier, true
		}
	}
	return TierUnknown, false
}

// TierSet is a small bitset of declared tiers.
type TierSet uint8

// NewTierSet returns a set holding tiers.
func NewTierSet(tiers ...Tier) TierSet {
	var set TierSet
	for _, tier := range tiers {
		set = set.With(tier)
	}
	return set
}

// With returns a copy of s that includes tier.
func (s TierSet) With(tier Tier) TierSet {
	if tier == TierUnknown {
		return s
	}
	return s | 1<<uint(tier)
}

// Has reports whether tier is part of the set.
func (s TierSet) Has(tier Tier) bool {
	if tier == TierUnknown {
		return false
	}
	return s&(1<<uint(tier)) != 0
}

// Tiers lists the members in live, preview, test order.
func (s TierSet) Tiers() []Tier {
	var out []Tier
	for _, tier := range []Tier{TierLive, TierPreview, TierTest} {
		if s.Has(tier) {
			out = append(out, tier)
		}
	}
	return out
}

// Strings lists the member names in live, preview, test order.
func (s TierSet) Strings() []string {
	tiers := s.Tiers()
	out := make([]string, len(tiers))
	for i, tier := range tiers {
		out[i] = tier.String()
	}
	return out
}
