// Package config loads facts and rules from YAML documents. Serialization
// is a host concern rather than a core one, so this loader lives beside
// the inference core rather than inside it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/loom/pkg/loom/internalerr"
	"github.com/cognicore/loom/pkg/loom/rules"
	"github.com/cognicore/loom/pkg/loom/term"
)

// LoadFacts reads a YAML document holding a list of fact trees.
func LoadFacts(path string) ([]term.Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read facts: %w", err)
	}

	var facts []term.Term
	if err := yaml.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("config: parse facts: %w", err)
	}

	for _, f := range facts {
		if !f.IsGround() {
			return nil, fmt.Errorf("config: fact %v is not ground: %w", f, internalerr.ErrInvalidInput)
		}
	}
	return facts, nil
}

// ruleDoc and conclusionDoc mirror Rule/Conclusion but substitute a
// by-name effect reference for the Go callable a YAML document cannot
// carry: an effect is an opaque callable, a host collaborator, never
// serialized data.
type ruleDoc struct {
	Name        string          `yaml:"name"`
	Premises    []term.Term     `yaml:"premises"`
	Conclusions []conclusionDoc `yaml:"conclusions"`
}

type conclusionDoc struct {
	Pattern term.Term `yaml:"pattern"`
	Effect  string    `yaml:"effect"`
}

// LoadRules reads a YAML document holding a list of rules. Each
// conclusion's optional "effect" name is resolved against effects; a named
// effect absent from that map is a configuration error.
func LoadRules(path string, effects map[string]rules.Effect) ([]rules.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read rules: %w", err)
	}

	var docs []ruleDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("config: parse rules: %w", err)
	}

	out := make([]rules.Rule, 0, len(docs))
	for _, d := range docs {
		if len(d.Premises) == 0 {
			return nil, fmt.Errorf("config: rule %q has no premises: %w", d.Name, internalerr.ErrInvalidRule)
		}
		conclusions := make([]rules.Conclusion, 0, len(d.Conclusions))
		for _, cd := range d.Conclusions {
			var effect rules.Effect
			if cd.Effect != "" {
				e, ok := effects[cd.Effect]
				if !ok {
					return nil, fmt.Errorf("config: rule %q references unknown effect %q: %w", d.Name, cd.Effect, internalerr.ErrInvalidConfig)
				}
				effect = e
			}
			conclusions = append(conclusions, rules.Conclusion{Pattern: cd.Pattern, Effect: effect})
		}
		out = append(out, rules.Rule{Name: d.Name, Premises: d.Premises, Conclusions: conclusions})
	}
	return out, nil
}
