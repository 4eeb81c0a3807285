// Package term implements the algebraic term model shared by facts and
// patterns: scalars, trees, and variables.
package term

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind tags which variant a Term holds.
type Kind uint8

const (
	KindScalar Kind = iota
	KindTree
	KindVar
)

// ScalarKind distinguishes the atomic primitive a Scalar term carries.
type ScalarKind uint8

const (
	ScalarInt ScalarKind = iota
	ScalarString
	ScalarSymbol
	ScalarBool
)

// varKey is the reserved tree key that spells a variable in the wire
// encoding: a one-entry Tree {var: <symbol>}.
const varKey = "var"

// Term is a tagged union of Scalar, Tree, and Var. The zero value is
// indistinguishable from Int(0); use the constructors below.
type Term struct {
	kind Kind

	scalarKind ScalarKind
	intVal     int64
	strVal     string
	boolVal    bool

	tree map[string]Term

	varName string
}

// Int builds an integer Scalar.
func Int(v int64) Term { return Term{kind: KindScalar, scalarKind: ScalarInt, intVal: v} }

// Str builds a string Scalar.
func Str(v string) Term { return Term{kind: KindScalar, scalarKind: ScalarString, strVal: v} }

// Sym builds a symbolic-name Scalar (an identifier-like literal, distinct
// from an arbitrary string).
func Sym(v string) Term { return Term{kind: KindScalar, scalarKind: ScalarSymbol, strVal: v} }

// Bool builds a boolean Scalar.
func Bool(v bool) Term { return Term{kind: KindScalar, scalarKind: ScalarBool, boolVal: v} }

// Tree builds a Tree term from a key->Term mapping. The map is copied.
func Tree(entries map[string]Term) Term {
	t := make(map[string]Term, len(entries))
	for k, v := range entries {
		t[k] = v
	}
	return Term{kind: KindTree, tree: t}
}

// Var builds a variable node. Var nodes may only appear inside patterns.
func Var(name string) Term { return Term{kind: KindVar, varName: name} }

// Kind reports the term's tag.
func (t Term) Kind() Kind { return t.kind }

// IsVar reports whether t denotes a variable, recognizing both the native
// KindVar variant and the literal wire-encoded shape {var: Scalar(symbol)}
// so that patterns assembled directly from parsed YAML/JSON (bypassing the
// Var constructor) are still recognized.
func (t Term) IsVar() bool {
	_, ok := t.AsVar()
	return ok
}

// AsVar returns the variable's name if t is a variable in either form.
func (t Term) AsVar() (string, bool) {
	if t.kind == KindVar {
		return t.varName, true
	}
	if t.kind == KindTree && len(t.tree) == 1 {
		if v, ok := t.tree[varKey]; ok && v.kind == KindScalar && v.scalarKind == ScalarSymbol {
			return v.strVal, true
		}
	}
	return "", false
}

// IsGround reports whether t contains no Var node at any depth.
func (t Term) IsGround() bool {
	if t.IsVar() {
		return false
	}
	switch t.kind {
	case KindTree:
		for _, v := range t.tree {
			if !v.IsGround() {
				return false
			}
		}
	}
	return true
}

// IsTree reports whether t is a Tree and not a var-shaped literal tree.
func (t Term) IsTree() bool {
	return t.kind == KindTree && !t.IsVar()
}

// IsScalar reports whether t is a Scalar.
func (t Term) IsScalar() bool { return t.kind == KindScalar }

// Get looks up a key in a Tree term. Ok is false if t is not a tree or the
// key is absent.
func (t Term) Get(key string) (Term, bool) {
	if t.kind != KindTree {
		return Term{}, false
	}
	v, ok := t.tree[key]
	return v, ok
}

// Keys returns the sorted key set of a Tree term, or nil otherwise.
func (t Term) Keys() []string {
	if t.kind != KindTree {
		return nil
	}
	keys := make([]string, 0, len(t.tree))
	for k := range t.tree {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of entries in a Tree term.
func (t Term) Len() int {
	if t.kind != KindTree {
		return 0
	}
	return len(t.tree)
}

// ScalarKind reports the atomic kind of a Scalar term.
func (t Term) ScalarKind() ScalarKind { return t.scalarKind }

// IntValue returns the integer value of an integer Scalar.
func (t Term) IntValue() int64 { return t.intVal }

// StringValue returns the string/symbol value of a string or symbol Scalar.
func (t Term) StringValue() string { return t.strVal }

// BoolValue returns the boolean value of a boolean Scalar.
func (t Term) BoolValue() bool { return t.boolVal }

// Equal is structural equality: Scalars equal iff same scalar kind and
// value, Trees equal iff same key set with pairwise-equal values, Var nodes
// equal iff same name. Var is not expected to occur in the ground terms
// compared during inference.
func (t Term) Equal(other Term) bool {
	if t.IsVar() || other.IsVar() {
		tn, tok := t.AsVar()
		on, ook := other.AsVar()
		return tok && ook && tn == on
	}
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindScalar:
		if t.scalarKind != other.scalarKind {
			return false
		}
		switch t.scalarKind {
		case ScalarInt:
			return t.intVal == other.intVal
		case ScalarBool:
			return t.boolVal == other.boolVal
		default:
			return t.strVal == other.strVal
		}
	case KindTree:
		if len(t.tree) != len(other.tree) {
			return false
		}
		for k, v := range t.tree {
			ov, ok := other.tree[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// Key returns a canonical, hashable string representation of t, used to
// dedupe sets of facts and sets of binding maps.
func (t Term) Key() string {
	var b strings.Builder
	t.writeKey(&b)
	return b.String()
}

func (t Term) writeKey(b *strings.Builder) {
	if name, ok := t.AsVar(); ok {
		b.WriteString("v:")
		b.WriteString(name)
		return
	}
	switch t.kind {
	case KindScalar:
		switch t.scalarKind {
		case ScalarInt:
			b.WriteString("i:")
			b.WriteString(strconv.FormatInt(t.intVal, 10))
		case ScalarBool:
			b.WriteString("b:")
			b.WriteString(strconv.FormatBool(t.boolVal))
		case ScalarSymbol:
			b.WriteString("y:")
			b.WriteString(t.strVal)
		default:
			b.WriteString("s:")
			b.WriteString(strconv.Quote(t.strVal))
		}
	case KindTree:
		keys := t.Keys()
		b.WriteString("{")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(":")
			t.tree[k].writeKey(b)
		}
		b.WriteString("}")
	}
}

// String renders t for debugging; it is not the wire format.
func (t Term) String() string {
	if name, ok := t.AsVar(); ok {
		return fmt.Sprintf("?%s", name)
	}
	switch t.kind {
	case KindScalar:
		switch t.scalarKind {
		case ScalarInt:
			return strconv.FormatInt(t.intVal, 10)
		case ScalarBool:
			return strconv.FormatBool(t.boolVal)
		case ScalarSymbol:
			return ":" + t.strVal
		default:
			return strconv.Quote(t.strVal)
		}
	case KindTree:
		keys := t.Keys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, t.tree[k].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "<invalid>"
}
