package join

import (
	"testing"

	"github.com/cognicore/loom/pkg/loom/term"
)

func sky(color string) term.Term {
	return term.Tree(map[string]term.Term{"sky": term.Sym(color)})
}

func man(name string) term.Term {
	return term.Tree(map[string]term.Term{"man": term.Str(name)})
}

// S4 — existence pattern.
func TestAllBindingsExistencePattern(t *testing.T) {
	patterns := []term.Term{
		sky("blue"),
		term.Tree(map[string]term.Term{"man": term.Var("x")}),
	}
	facts := []term.Term{man("socrates"), man("plato"), sky("blue")}

	got := AllBindings(patterns, facts)
	if len(got) != 2 {
		t.Fatalf("expected 2 bindings, got %d: %v", len(got), got)
	}

	names := map[string]bool{}
	for _, b := range got {
		names[b["x"].StringValue()] = true
	}
	if !names["socrates"] || !names["plato"] {
		t.Errorf("expected socrates and plato, got %v", names)
	}
}

func TestAllBindingsWithoutExistenceFactIsEmpty(t *testing.T) {
	patterns := []term.Term{
		sky("blue"),
		term.Tree(map[string]term.Term{"man": term.Var("x")}),
	}
	facts := []term.Term{man("socrates"), man("plato")}

	got := AllBindings(patterns, facts)
	if len(got) != 0 {
		t.Fatalf("expected empty result without the sky fact, got %v", got)
	}
}

// S5 — McCarthy duck.
func TestAllBindingsMcCarthyDuck(t *testing.T) {
	premises := []term.Term{
		term.Tree(map[string]term.Term{"walks-like-duck": term.Var("x")}),
		term.Tree(map[string]term.Term{"looks-like-duck": term.Var("x")}),
		term.Tree(map[string]term.Term{"quacks-like-duck": term.Var("x")}),
	}
	facts := []term.Term{
		term.Tree(map[string]term.Term{"walks-like-duck": term.Str("dolan")}),
		term.Tree(map[string]term.Term{"looks-like-duck": term.Str("dolan")}),
		term.Tree(map[string]term.Term{"quacks-like-duck": term.Str("dolan")}),
		term.Tree(map[string]term.Term{"walks-like-duck": term.Str("daffy")}),
		term.Tree(map[string]term.Term{"looks-like-duck": term.Str("daffy")}),
	}

	got := AllBindings(premises, facts)
	if len(got) != 1 {
		t.Fatalf("expected exactly one duck, got %d: %v", len(got), got)
	}
	if got[0]["x"].StringValue() != "dolan" {
		t.Errorf("expected dolan, got %v", got[0]["x"])
	}
}

func TestAllBindingsDedupesSurvivors(t *testing.T) {
	patterns := []term.Term{
		term.Tree(map[string]term.Term{"a": term.Var("x")}),
		term.Tree(map[string]term.Term{"b": term.Var("x")}),
	}
	facts := []term.Term{
		term.Tree(map[string]term.Term{"a": term.Int(1)}),
		term.Tree(map[string]term.Term{"b": term.Int(1)}),
	}

	got := AllBindings(patterns, facts)
	if len(got) != 1 {
		t.Fatalf("expected a single deduplicated binding, got %d", len(got))
	}
}

func TestAllBindingsEmptyPatternSetYieldsNothing(t *testing.T) {
	got := AllBindings(nil, []term.Term{sky("blue")})
	if got != nil {
		t.Errorf("expected nil for an empty pattern set, got %v", got)
	}
}

func TestMatchesOverCachedIsReusedAcrossCalls(t *testing.T) {
	p := term.Tree(map[string]term.Term{"man": term.Var("x")})
	facts := []term.Term{man("socrates")}

	first := matchesOverCached(p, facts)
	second := matchesOverCached(p, facts)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected a single cached match, got %v / %v", first, second)
	}
	if first[0].Key() != second[0].Key() {
		t.Errorf("expected identical cached bindings, got %v vs %v", first, second)
	}
}
