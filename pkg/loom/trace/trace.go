// Package trace records provenance for derived facts: which rule and
// binding produced each fact, in the order it was first derived. It stays
// outside pkg/loom/rules so the core inference step remains free of
// tracing concerns; the core stays single-threaded and side-effect-free
// except through Effect.
package trace

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/loom/pkg/loom/bindings"
	"github.com/cognicore/loom/pkg/loom/join"
	"github.com/cognicore/loom/pkg/loom/rules"
	"github.com/cognicore/loom/pkg/loom/substitute"
	"github.com/cognicore/loom/pkg/loom/term"
)

// Entry records one fact's derivation.
type Entry struct {
	ID       string
	Rule     string
	Bindings bindings.Bindings
	Fact     term.Term
}

// Recorder assigns each newly-observed fact a monotonically increasing
// ULID and keeps its derivation entry for later explanation.
type Recorder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	entries map[string]Entry
}

// New creates an empty Recorder.
func New() *Recorder {
	return &Recorder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		entries: make(map[string]Entry),
	}
}

// record stamps fact with a fresh ULID and stores its provenance, unless an
// entry for that fact already exists (the first derivation wins, matching
// the per-step novelty guarantee effects rely on).
func (r *Recorder) record(ruleName string, b bindings.Bindings, fact term.Term) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fact.Key()
	if _, ok := r.entries[key]; ok {
		return
	}
	r.entries[key] = Entry{
		ID:       ulid.MustNew(ulid.Now(), r.entropy).String(),
		Rule:     ruleName,
		Bindings: b.Clone(),
		Fact:     fact,
	}
}

// Explain renders a human-readable provenance line for fact, or a
// not-derived message if no entry was recorded for it.
func (r *Recorder) Explain(fact term.Term) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[fact.Key()]
	if !ok {
		return fmt.Sprintf("%s: no recorded derivation (asserted or not yet derived)", fact)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s derived by rule %q (id %s) with bindings:", fact, e.Rule, e.ID)
	for k, v := range e.Bindings {
		fmt.Fprintf(&b, " %s=%s", k, v)
	}
	return b.String()
}

// Entries returns every recorded entry, in no particular order beyond the
// ULID's own monotonic sort order, available via Entry.ID.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out
}

// RunAll drives the same fixed-point loop as rules.InferAll, using only
// pkg/loom/join and pkg/loom/substitute (the same public building blocks
// rules.Infer uses), but additionally records each newly-derived fact's
// rule and binding into rec before invoking its effect. This keeps
// pkg/loom/rules itself free of tracing concerns while giving the CLI's
// -explain flag real provenance, not just a rule name (the limitation of
// wrapping Effect alone: Effect's signature takes only the instantiated
// fact, so the binding that produced it is unavailable from inside an
// effect).
func RunAll(ctx context.Context, kb rules.KnowledgeBase, rec *Recorder) (rules.KnowledgeBase, error) {
	facts := kb.Facts
	for {
		next, changed, err := traceStep(ctx, facts, kb.Rules, rec)
		if err != nil {
			return rules.KnowledgeBase{}, err
		}
		facts = next
		if !changed {
			break
		}
	}
	return rules.KnowledgeBase{Facts: facts, Rules: kb.Rules}, nil
}

func traceStep(ctx context.Context, facts []term.Term, rs []rules.Rule, rec *Recorder) ([]term.Term, bool, error) {
	seen := make(map[string]term.Term, len(facts))
	for _, f := range facts {
		seen[f.Key()] = f
	}

	for _, r := range rs {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		existing := make(map[string]bool, len(facts))
		for _, f := range facts {
			existing[f.Key()] = true
		}

		for _, b := range join.AllBindings(r.Premises, facts) {
			for _, c := range r.Conclusions {
				newFact, err := substitute.Substitute(c.Pattern, b)
				if err != nil {
					return nil, false, err
				}
				novel := !existing[newFact.Key()]
				if novel {
					rec.record(r.Name, b, newFact)
				}
				if novel && c.Effect != nil {
					if _, err := c.Effect(newFact); err != nil {
						return nil, false, err
					}
				}
				seen[newFact.Key()] = newFact
			}
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
