// Package rules implements the per-rule inference step and the
// fixed-point driver.
package rules

import (
	"context"

	"github.com/cognicore/loom/pkg/loom/join"
	"github.com/cognicore/loom/pkg/loom/substitute"
	"github.com/cognicore/loom/pkg/loom/term"
)

// Effect is invoked for newly-derived facts (see Infer for exactly when).
// Its result value is discarded for inference purposes; its invocation is
// the externally observable side channel. A non-nil error it returns
// aborts the inference step and is returned to the caller.
type Effect func(fact term.Term) (any, error)

// Conclusion pairs a conclusion pattern with the effect triggered for each
// fact it instantiates.
type Conclusion struct {
	Pattern term.Term
	Effect  Effect
}

// Rule is a non-empty set of premise patterns paired with a map from
// conclusion pattern to effect.
type Rule struct {
	Name        string
	Premises    []term.Term
	Conclusions []Conclusion
}

// Infer computes, for one rule, the joined bindings over its premises,
// instantiates each conclusion under each binding, and invokes the
// conclusion's effect for each instantiated fact not already present in
// facts at the start of this call. Novelty is judged only against that
// starting set, so if several bindings instantiate the same new fact the
// effect is invoked once for each of them.
//
// The returned slice includes every instantiated fact regardless of
// novelty; callers (InferAll) are responsible for deduplicating it into
// the growing fact set.
func Infer(r Rule, facts []term.Term) ([]term.Term, error) {
	existing := make(map[string]bool, len(facts))
	for _, f := range facts {
		existing[f.Key()] = true
	}

	bs := join.AllBindings(r.Premises, facts)

	var derived []term.Term
	for _, b := range bs {
		for _, c := range r.Conclusions {
			newFact, err := substitute.Substitute(c.Pattern, b)
			if err != nil {
				return nil, err
			}
			if !existing[newFact.Key()] && c.Effect != nil {
				if _, err := c.Effect(newFact); err != nil {
					return nil, err
				}
			}
			derived = append(derived, newFact)
		}
	}
	return derived, nil
}

// NewKnowledgeBase builds a KnowledgeBase with facts deduplicated by
// Term.Key(): Facts is a set rather than a sequence with observable
// duplicates.
func NewKnowledgeBase(facts []term.Term, rs []Rule) KnowledgeBase {
	seen := make(map[string]bool, len(facts))
	out := make([]term.Term, 0, len(facts))
	for _, f := range facts {
		k := f.Key()
		if !seen[k] {
			seen[k] = true
			out = append(out, f)
		}
	}
	return KnowledgeBase{Facts: out, Rules: rs}
}

// KnowledgeBase is an immutable (Facts, Rules) pair. InferAll produces a
// new KnowledgeBase with an enlarged fact set and the same rule set; it
// never mutates kb in place.
type KnowledgeBase struct {
	Facts []term.Term
	Rules []Rule
}

// InferAll iterates the per-rule inference step over the knowledge base
// until the fact set is stable, i.e. one more step adds no new fact.
// Termination is guaranteed because conclusions introduce no scalar
// values beyond those already present in the initial fact set.
//
// ctx is checked once per rule per iteration; a cancelled context stops the
// loop early and returns ctx.Err(), never an incomplete-but-silent result.
func InferAll(ctx context.Context, kb KnowledgeBase) (KnowledgeBase, error) {
	facts := kb.Facts
	for {
		next, changed, err := inferStep(ctx, facts, kb.Rules)
		if err != nil {
			return KnowledgeBase{}, err
		}
		facts = next
		if !changed {
			break
		}
	}
	return KnowledgeBase{Facts: facts, Rules: kb.Rules}, nil
}

// inferStep applies every rule once against facts and returns the union of
// facts with all derived facts, plus whether the set actually grew.
func inferStep(ctx context.Context, facts []term.Term, rs []Rule) ([]term.Term, bool, error) {
	seen := make(map[string]term.Term, len(facts))
	for _, f := range facts {
		seen[f.Key()] = f
	}

	for _, r := range rs {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		derived, err := Infer(r, facts)
		if err != nil {
			return nil, false, err
		}
		for _, d := range derived {
			seen[d.Key()] = d
		}
	}

	if len(seen) == len(facts) {
		return facts, false, nil
	}

	out := make([]term.Term, 0, len(seen))
	for _, f := range seen {
		out = append(out, f)
	}
	return out, true, nil
}
