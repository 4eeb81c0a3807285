package trace

import (
	"context"
	"strings"
	"testing"

	"github.com/cognicore/loom/pkg/loom/rules"
	"github.com/cognicore/loom/pkg/loom/term"
)

func TestRunAllRecordsProvenance(t *testing.T) {
	rec := New()
	kb := rules.NewKnowledgeBase(
		[]term.Term{term.Tree(map[string]term.Term{"man": term.Str("socrates")})},
		[]rules.Rule{{
			Name:     "mortal",
			Premises: []term.Term{term.Tree(map[string]term.Term{"man": term.Var("x")})},
			Conclusions: []rules.Conclusion{
				{Pattern: term.Tree(map[string]term.Term{"mortal": term.Var("x")})},
			},
		}},
	)

	got, err := RunAll(context.Background(), kb, rec)
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}

	mortal := term.Tree(map[string]term.Term{"mortal": term.Str("socrates")})
	found := false
	for _, f := range got.Facts {
		if f.Equal(mortal) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected mortal(socrates) in closure, got %v", got.Facts)
	}

	explanation := rec.Explain(mortal)
	if !strings.Contains(explanation, "mortal") || !strings.Contains(explanation, "socrates") {
		t.Errorf("expected explanation to mention rule and binding, got %q", explanation)
	}
}

func TestExplainUnknownFact(t *testing.T) {
	rec := New()
	unknown := term.Tree(map[string]term.Term{"never": term.Int(1)})
	explanation := rec.Explain(unknown)
	if !strings.Contains(explanation, "no recorded derivation") {
		t.Errorf("expected a not-derived message, got %q", explanation)
	}
}

func TestEntriesAreMonotonicallyIDed(t *testing.T) {
	rec := New()
	kb := rules.NewKnowledgeBase(
		[]term.Term{
			term.Tree(map[string]term.Term{"man": term.Str("socrates")}),
			term.Tree(map[string]term.Term{"man": term.Str("plato")}),
		},
		[]rules.Rule{{
			Premises: []term.Term{term.Tree(map[string]term.Term{"man": term.Var("x")})},
			Conclusions: []rules.Conclusion{
				{Pattern: term.Tree(map[string]term.Term{"mortal": term.Var("x")})},
			},
		}},
	)

	if _, err := RunAll(context.Background(), kb, rec); err != nil {
		t.Fatalf("RunAll: %v", err)
	}

	entries := rec.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 recorded entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.ID == "" {
			t.Error("expected every entry to have an ID")
		}
	}
}
