package term

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// symbolPrefix marks a YAML/JSON scalar string as a symbolic name rather
// than a plain string, e.g. ":blue" decodes to Sym("blue"). This mirrors a
// keyword-like notation (e.g. `{sky::blue}`) in a form plain YAML/JSON can
// carry without a custom tag.
const symbolPrefix = ":"

// MarshalYAML renders t in its wire form: a variable becomes the literal
// Tree {var: <symbol>}, trees become mappings, symbols are rendered with
// the leading colon convention.
func (t Term) MarshalYAML() (interface{}, error) {
	if name, ok := t.AsVar(); ok {
		return map[string]interface{}{varKey: symbolPrefix + name}, nil
	}
	switch t.kind {
	case KindScalar:
		switch t.scalarKind {
		case ScalarInt:
			return t.intVal, nil
		case ScalarBool:
			return t.boolVal, nil
		case ScalarSymbol:
			return symbolPrefix + t.strVal, nil
		default:
			return t.strVal, nil
		}
	case KindTree:
		out := make(map[string]interface{}, len(t.tree))
		for k, v := range t.tree {
			rendered, err := v.MarshalYAML()
			if err != nil {
				return nil, err
			}
			out[k] = rendered
		}
		return out, nil
	}
	return nil, fmt.Errorf("term: cannot marshal invalid term")
}

// UnmarshalYAML parses a fact/pattern tree from YAML, recognizing the
// literal var-shaped tree {var: <symbol>} and normalizing it to a native
// Var term.
func (t *Term) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := decodeYAMLNode(node)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func decodeYAMLNode(node *yaml.Node) (Term, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return decodeScalarString(node.Value, node.Tag)
	case yaml.MappingNode:
		entries := make(map[string]Term, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			val, err := decodeYAMLNode(node.Content[i+1])
			if err != nil {
				return Term{}, err
			}
			entries[key] = val
		}
		tr := Tree(entries)
		if name, ok := tr.AsVar(); ok {
			return Var(name), nil
		}
		return tr, nil
	default:
		return Term{}, fmt.Errorf("term: unsupported YAML node kind %v", node.Kind)
	}
}

func decodeScalarString(raw, tag string) (Term, error) {
	switch tag {
	case "!!int":
		var v int64
		if _, err := fmt.Sscanf(raw, "%d", &v); err != nil {
			return Term{}, fmt.Errorf("term: invalid integer %q: %w", raw, err)
		}
		return Int(v), nil
	case "!!bool":
		return Bool(raw == "true"), nil
	}
	if strings.HasPrefix(raw, symbolPrefix) {
		return Sym(strings.TrimPrefix(raw, symbolPrefix)), nil
	}
	return Str(raw), nil
}

// MarshalJSON mirrors MarshalYAML for JSON consumers (the sqlite store's
// fact column).
func (t Term) MarshalJSON() ([]byte, error) {
	rendered, err := t.MarshalYAML()
	if err != nil {
		return nil, err
	}
	return json.Marshal(rendered)
}

// UnmarshalJSON mirrors UnmarshalYAML for JSON input.
func (t *Term) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := decodeJSONValue(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func decodeJSONValue(raw interface{}) (Term, error) {
	switch v := raw.(type) {
	case nil:
		return Term{}, fmt.Errorf("term: cannot decode null")
	case bool:
		return Bool(v), nil
	case float64:
		return Int(int64(v)), nil
	case string:
		if strings.HasPrefix(v, symbolPrefix) {
			return Sym(strings.TrimPrefix(v, symbolPrefix)), nil
		}
		return Str(v), nil
	case map[string]interface{}:
		entries := make(map[string]Term, len(v))
		for k, raw := range v {
			val, err := decodeJSONValue(raw)
			if err != nil {
				return Term{}, err
			}
			entries[k] = val
		}
		tr := Tree(entries)
		if name, ok := tr.AsVar(); ok {
			return Var(name), nil
		}
		return tr, nil
	default:
		return Term{}, fmt.Errorf("term: unsupported JSON value %T", raw)
	}
}
