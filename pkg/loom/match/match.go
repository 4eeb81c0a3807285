// Package match implements the single-pattern matcher and its lift across
// a fact set.
package match

import (
	"github.com/cognicore/loom/pkg/loom/bindings"
	"github.com/cognicore/loom/pkg/loom/term"
)

// Match matches pattern against fact starting from cur, returning the
// accumulated bindings on success or bindings.Fail, false on failure.
//
// Patterns are submap-style: extra keys present in fact but absent from
// pattern are ignored. Only keys whose pattern value is itself considered
// are dispatched on (Var / Tree / Scalar); a pattern key missing from fact
// fails the match.
func Match(pattern, fact term.Term, cur bindings.Bindings) (bindings.Bindings, bool) {
	if !pattern.IsTree() {
		// A bare scalar or var pattern at the top level is matched directly
		// against the fact value passed in (used by the recursive descent
		// below; the public entry point always receives tree patterns, but
		// the dispatch is defined uniformly here).
		return matchNode(pattern, fact, cur)
	}

	acc := cur
	for _, key := range pattern.Keys() {
		pv, _ := pattern.Get(key)
		fv, ok := fact.Get(key)
		if !ok {
			return bindings.Fail, false
		}
		next, ok := matchNode(pv, fv, acc)
		if !ok {
			return bindings.Fail, false
		}
		acc = next
	}
	return acc, true
}

// matchNode dispatches on the pattern node's kind: Var, Tree, or Scalar.
func matchNode(pv, fv term.Term, cur bindings.Bindings) (bindings.Bindings, bool) {
	if name, ok := pv.AsVar(); ok {
		return bindings.MergeOne(cur, name, fv)
	}
	if pv.IsTree() {
		if !fv.IsTree() {
			return bindings.Fail, false
		}
		return Match(pv, fv, cur)
	}
	// Scalar: succeeds iff equal, contributing no new bindings.
	if pv.Equal(fv) {
		return cur, true
	}
	return bindings.Fail, false
}

// MatchesOver applies Match(pattern, f, Empty()) to every fact in facts and
// collects the successful binding maps. It returns nil (not a slice holding
// a single empty map) when no fact matches.
func MatchesOver(pattern term.Term, facts []term.Term) []bindings.Bindings {
	var out []bindings.Bindings
	for _, f := range facts {
		if b, ok := Match(pattern, f, bindings.Empty()); ok {
			out = append(out, b)
		}
	}
	return out
}
