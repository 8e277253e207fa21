package layering

import (
	"reflect"
	"testing"
)

func TestNewChainOrdering(t *testing.T) {
	cases := []struct {
		name   string
		start  Tier
		expect []Tier
	}{
		{name: "test", start: TierTest, expect: []Tier{TierTest, TierPreview, TierLive}},
		{name: "preview", start: TierPreview, expect: []Tier{TierPreview, TierLive, TierTest}},
		{name: "live", start: TierLive, expect: []Tier{TierLive, TierPreview, TierTest}},
		{name: "unknown", start: TierUnknown, expect: []Tier{TierLive, TierPreview, TierTest}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chain := NewChain(tc.start)
			if got := chain.Ordered(); !reflect.DeepEqual(tc.expect, got) {
				t.Fatalf("unexpected cascade\nwant: %v\n got: %v", tc.expect, got)
			}
			if chain.Strongest() != tc.expect[0] {
				t.Fatalf("expected strongest %v, got %v", tc.expect[0], chain.Strongest())
			}
			if chain.Weakest() != tc.expect[len(tc.expect)-1] {
				t.Fatalf("expected weakest %v, got %v", tc.expect[len(tc.expect)-1], chain.Weakest())
			}
		})
	}
}

func TestChainOrderedIsCopy(t *testing.T) {
	chain := NewChain(TierTest)
	ordered := chain.Ordered()
	ordered[0] = TierLive
	if chain.Strongest() != TierTest {
		t.Fatalf("mutating Ordered() leaked into chain: %v", chain.Ordered())
	}
}

func TestChainFirstSkipsUndeclaredTiers(t *testing.T) {
	liveOnly := NewTierSet(TierLive)
	if tier, ok := NewChain(TierTest).First(liveOnly); !ok || tier != TierLive {
		t.Fatalf("expected live fallback, got %v ok=%t", tier, ok)
	}

	testOnly := NewTierSet(TierTest)
	if tier, ok := NewChain(TierPreview).First(testOnly); !ok || tier != TierTest {
		t.Fatalf("expected preview to cascade to test, got %v ok=%t", tier, ok)
	}

	liveAndTest := NewTierSet(TierLive, TierTest)
	if tier, _ := NewChain(TierPreview).First(liveAndTest); tier != TierLive {
		t.Fatalf("expected preview to prefer live over test, got %v", tier)
	}

	if _, ok := NewChain(TierLive).First(TierSet(0)); ok {
		t.Fatalf("expected empty set to report no tier")
	}
}

func TestTierSet(t *testing.T) {
	set := NewTierSet(TierTest, TierUnknown, TierLive)
	if !set.Has(TierLive) || !set.Has(TierTest) || set.Has(TierPreview) {
		t.Fatalf("unexpected membership: %v", set.Strings())
	}
	if set.Has(TierUnknown) {
		t.Fatalf("unknown tier must never be a member")
	}
	if got, want := set.Strings(), []string{"live", "test"}; !reflect.DeepEqual(want, got) {
		t.Fatalf("want %v got %v", want, got)
	}
}

func TestParseTier(t *testing.T) {
	for input, want := range map[string]Tier{
		"live":      TierLive,
		" Preview ": TierPreview,
		"TEST":      TierTest,
		"staging":   TierUnknown,
	} {
		if got := ParseTier(input); got != want {
			t.Fatalf("ParseTier(%q): want %v got %v", input, want, got)
		}
	}
}
