package match

import (
	"testing"

	"github.com/cognicore/loom/pkg/loom/bindings"
	"github.com/cognicore/loom/pkg/loom/term"
)

// S1 — basic binding.
func TestMatchBasicBinding(t *testing.T) {
	pattern := term.Tree(map[string]term.Term{"foo": term.Var("bar")})
	fact := term.Tree(map[string]term.Term{"foo": term.Int(3)})

	got, ok := Match(pattern, fact, bindings.Empty())
	if !ok {
		t.Fatal("expected match")
	}
	want := bindings.Bindings{"bar": term.Int(3)}
	if got.Key() != want.Key() {
		t.Errorf("got %v, want %v", got, want)
	}
}

// S2 — two bindings, nested.
func TestMatchNestedBindings(t *testing.T) {
	pattern := term.Tree(map[string]term.Term{
		"foo":  term.Tree(map[string]term.Term{"baz": term.Var("bar")}),
		"bing": term.Var("quux"),
	})
	fact := term.Tree(map[string]term.Term{
		"foo":  term.Tree(map[string]term.Term{"baz": term.Int(3)}),
		"bing": term.Int(5),
	})

	got, ok := Match(pattern, fact, bindings.Empty())
	if !ok {
		t.Fatal("expected match")
	}
	want := bindings.Bindings{"bar": term.Int(3), "quux": term.Int(5)}
	if got.Key() != want.Key() {
		t.Errorf("got %v, want %v", got, want)
	}
}

// S3 — conflicting repeated variable fails the match.
func TestMatchConflictFails(t *testing.T) {
	pattern := term.Tree(map[string]term.Term{
		"foo": term.Var("bar"),
		"baz": term.Var("bar"),
	})
	fact := term.Tree(map[string]term.Term{"foo": term.Int(3), "baz": term.Int(4)})

	_, ok := Match(pattern, fact, bindings.Empty())
	if ok {
		t.Fatal("expected conflicting repeated variable to fail")
	}
}

func TestMatchExtraFactKeysIgnored(t *testing.T) {
	pattern := term.Tree(map[string]term.Term{"foo": term.Int(3)})
	fact := term.Tree(map[string]term.Term{"foo": term.Int(3), "extra": term.Str("x")})

	_, ok := Match(pattern, fact, bindings.Empty())
	if !ok {
		t.Fatal("expected submap match to ignore extra fact keys")
	}
}

func TestMatchMissingKeyFails(t *testing.T) {
	pattern := term.Tree(map[string]term.Term{"foo": term.Int(3)})
	fact := term.Tree(map[string]term.Term{"bar": term.Int(3)})

	_, ok := Match(pattern, fact, bindings.Empty())
	if ok {
		t.Fatal("expected missing key to fail")
	}
}

func TestMatchScalarPatternEmptyBindings(t *testing.T) {
	pattern := term.Tree(map[string]term.Term{"sky": term.Sym("blue")})
	fact := term.Tree(map[string]term.Term{"sky": term.Sym("blue")})

	got, ok := Match(pattern, fact, bindings.Empty())
	if !ok {
		t.Fatal("expected match")
	}
	if len(got) != 0 {
		t.Errorf("expected empty bindings for variable-less pattern, got %v", got)
	}
}

func TestMatchesOverNoneMatches(t *testing.T) {
	pattern := term.Tree(map[string]term.Term{"sky": term.Sym("green")})
	facts := []term.Term{term.Tree(map[string]term.Term{"sky": term.Sym("blue")})}

	got := MatchesOver(pattern, facts)
	if len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestMatchesOverCollectsAll(t *testing.T) {
	pattern := term.Tree(map[string]term.Term{"man": term.Var("x")})
	facts := []term.Term{
		term.Tree(map[string]term.Term{"man": term.Str("socrates")}),
		term.Tree(map[string]term.Term{"man": term.Str("plato")}),
		term.Tree(map[string]term.Term{"sky": term.Sym("blue")}),
	}

	got := MatchesOver(pattern, facts)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
}
