// Package substitute implements conclusion instantiation: replacing every
// variable in a pattern with its bound value.
package substitute

import (
	"errors"
	"fmt"

	"github.com/cognicore/loom/pkg/loom/bindings"
	"github.com/cognicore/loom/pkg/loom/term"
)

// ErrUnboundVariable is returned when a pattern references a variable with
// no entry in the supplied bindings. Apart from errors returned by effects,
// it is the one error the core propagates rather than encoding as an
// absent result.
var ErrUnboundVariable = errors.New("substitute: unbound variable")

// UnboundVariableError carries the offending variable name and the binding
// map in effect at the failure point.
type UnboundVariableError struct {
	Name     string
	Bindings bindings.Bindings
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("substitute: unbound variable %q (bindings: %v)", e.Name, e.Bindings)
}

func (e *UnboundVariableError) Unwrap() error { return ErrUnboundVariable }

// Substitute instantiates pattern under b:
//   - a Var node is replaced by b[name], or fails if name is unbound;
//   - a Tree node is rebuilt with every value substituted recursively;
//   - a Scalar node is returned unchanged.
func Substitute(pattern term.Term, b bindings.Bindings) (term.Term, error) {
	if name, ok := pattern.AsVar(); ok {
		val, bound := b[name]
		if !bound {
			return term.Term{}, &UnboundVariableError{Name: name, Bindings: b}
		}
		return val, nil
	}
	if pattern.IsTree() {
		out := make(map[string]term.Term, pattern.Len())
		for _, k := range pattern.Keys() {
			v, _ := pattern.Get(k)
			sub, err := Substitute(v, b)
			if err != nil {
				return term.Term{}, err
			}
			out[k] = sub
		}
		return term.Tree(out), nil
	}
	return pattern, nil
}
