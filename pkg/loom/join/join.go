// Package join implements the multi-pattern join: Cartesian-producting the
// per-pattern match sets and merging each tuple into a single
// globally-consistent binding map.
package join

import (
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/loom/pkg/loom/bindings"
	"github.com/cognicore/loom/pkg/loom/match"
	"github.com/cognicore/loom/pkg/loom/term"
)

// cacheSize bounds the matches-over-one-pattern memoization cache shared by
// every AllBindings call in a process. A fixed-point run re-evaluates the
// same premises against a growing fact set every iteration; memoizing by
// (pattern, fact-set) fingerprint avoids rescanning facts that have not
// changed since the last iteration.
const cacheSize = 4096

var matchesCache, _ = lru.New[string, []bindings.Bindings](cacheSize)

// AllBindings computes the set of all globally-consistent binding maps
// across patterns and facts:
//  1. compute per-pattern match sets;
//  2. if any is empty, the join is unsatisfiable;
//  3. Cartesian-product the per-pattern rows;
//  4. merge each tuple, dropping failures and empty merges;
//  5. deduplicate survivors.
func AllBindings(patterns []term.Term, facts []term.Term) []bindings.Bindings {
	if len(patterns) == 0 {
		return nil
	}

	rows := make([][]bindings.Bindings, len(patterns))
	for i, p := range patterns {
		rows[i] = matchesOverCached(p, facts)
		if len(rows[i]) == 0 {
			return nil
		}
	}

	var out []bindings.Bindings
	seen := make(map[string]bool)

	var walk func(i int, acc bindings.Bindings)
	walk = func(i int, acc bindings.Bindings) {
		if i == len(rows) {
			if len(acc) == 0 {
				return
			}
			key := acc.Key()
			if seen[key] {
				return
			}
			seen[key] = true
			out = append(out, acc)
			return
		}
		for _, row := range rows[i] {
			merged, ok := bindings.MergeAll(acc, row)
			if !ok {
				continue
			}
			walk(i+1, merged)
		}
	}
	walk(0, bindings.Empty())

	return out
}

func matchesOverCached(pattern term.Term, facts []term.Term) []bindings.Bindings {
	key := pattern.Key() + "|" + factSetFingerprint(facts)
	if cached, ok := matchesCache.Get(key); ok {
		return cached
	}
	result := match.MatchesOver(pattern, facts)
	matchesCache.Add(key, result)
	return result
}

// factSetFingerprint builds an order-independent identity for facts by
// sorting their canonical keys and joining them. It holds every fact's full
// key, so it grows with the fact set. Two fact sets that yield the same
// fingerprint share one cache entry, and a hit returns the stored result
// unchanged.
func factSetFingerprint(facts []term.Term) string {
	keys := make([]string, len(facts))
	for i, f := range facts {
		keys[i] = f.Key()
	}
	sort.Strings(keys)
	return strings.Join(keys, "\x1f")
}
