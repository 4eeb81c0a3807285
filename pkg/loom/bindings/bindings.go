// Package bindings implements the binding-merge kernel: combining two
// partial variable->value maps into one, failing when they disagree on
// any variable.
package bindings

import (
	"sort"
	"strings"

	"github.com/cognicore/loom/pkg/loom/term"
)

// Bindings maps a variable name to the ground Term it is bound to. A nil
// Bindings is Fail, distinguishable from the empty successful Bindings{}.
type Bindings map[string]term.Term

// Fail is the distinct failure value returned by Merge* on conflict. It is
// nil, so callers can test `b == nil` or rely on the returned bool.
var Fail Bindings = nil

// Empty is a fresh, successful, empty binding map.
func Empty() Bindings { return Bindings{} }

// Clone returns a shallow copy of b.
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// MergeOne combines val into cur under key:
//   - if key is already bound in cur, succeeds iff the existing value
//     equals val; otherwise fails.
//   - otherwise returns cur extended with key -> val.
//
// cur is never mutated: when key is new the result is a fresh copy, and
// when key is already bound to an equal value cur itself is returned.
func MergeOne(cur Bindings, key string, val term.Term) (Bindings, bool) {
	if existing, ok := cur[key]; ok {
		if !existing.Equal(val) {
			return Fail, false
		}
		return cur, true
	}
	out := cur.Clone()
	out[key] = val
	return out, true
}

// MergeAll folds MergeOne across every entry of add into cur. A conflict at
// any step fails the whole merge.
func MergeAll(cur Bindings, add Bindings) (Bindings, bool) {
	out := cur
	for k, v := range add {
		var ok bool
		out, ok = MergeOne(out, k, v)
		if !ok {
			return Fail, false
		}
	}
	return out, true
}

// Key returns a canonical, hashable string for b, used to deduplicate sets
// of binding maps.
func (b Bindings) Key() string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(b[k].Key())
	}
	return sb.String()
}
