package fingerprint

import (
	"fmt"
	"os"
	"slices"
	"sync"

	"domainintel/pkg/domain"

	"gopkg.in/yaml.v3"
)

// Feature marks signatures that drive the derived TechStack booleans.
type Feature string

const (
	FeatureNone        Feature = ""
	FeatureContactForm Feature = "contact-form"
	FeatureLiveChat    Feature = "live-chat"
)

// Signature is a named rule set identifying one technology.
type Signature struct {
	Name     string
	Category domain.Category
	Feature  Feature
	Rules    []Rule
}

// Matches reports whether any rule of s matches ev.
func (s Signature) Matches(ev *Evidence) bool {
	for _, r := range s.Rules {
		if r.Match(ev) {
			return true
		}
	}

	return false
}

// Registry is an immutable, ordered set of signatures with unique names.
// Order decides which match becomes the primary value of singular categories.
type Registry struct {
	signatures []Signature
}

// NewRegistry validates sigs and builds a registry preserving their order.
func NewRegistry(sigs ...Signature) (*Registry, error) {
	seen := make(map[string]bool, len(sigs))
	for _, s := range sigs {
		if s.Name == "" {
			return nil, fmt.Errorf("signature without name")
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate signature %q", s.Name)
		}
		seen[s.Name] = true

		if !slices.Contains(domain.Categories, s.Category) {
			return nil, fmt.Errorf("signature %q: unknown category %q", s.Name, s.Category)
		}
		if len(s.Rules) == 0 {
			return nil, fmt.Errorf("signature %q has no rules", s.Name)
		}
		switch s.Feature {
		case FeatureNone, FeatureContactForm, FeatureLiveChat:
		default:
			return nil, fmt.Errorf("signature %q: unknown feature %q", s.Name, s.Feature)
		}
	}

	return &Registry{signatures: slices.Clone(sigs)}, nil
}

// Signatures returns a copy of the registry's signatures in order.
func (r *Registry) Signatures() []Signature {
	return slices.Clone(r.signatures)
}

// Len returns the number of signatures.
func (r *Registry) Len() int { return len(r.signatures) }

// Extend returns a new registry with sigs appended after r's signatures.
func (r *Registry) Extend(sigs ...Signature) (*Registry, error) {
	return NewRegistry(append(r.Signatures(), sigs...)...)
}

// DefaultRegistry returns the built-in registry. It is built once per
// process and is safe for concurrent use.
var DefaultRegistry = sync.OnceValue(func() *Registry { //nolint: gochecknoglobals
	r, err := NewRegistry(builtinSignatures()...)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in signatures: %v", err))
	}

	return r
})

// signatureFile is the YAML layout of an additional signatures file:
//
//	signatures:
//	  - name: Acme CMS
//	    category: cms
//	    rules:
//	      - body: "acme-static/"
//	      - header: x-powered-by
//	        pattern: "Acme"
//	      - meta: generator
//	        pattern: "^Acme"
type signatureFile struct {
	Signatures []struct {
		Name     string `yaml:"name"`
		Category string `yaml:"category"`
		Feature  string `yaml:"feature"`
		Rules    []struct {
			Body    string `yaml:"body"`
			Header  string `yaml:"header"`
			Meta    string `yaml:"meta"`
			Pattern string `yaml:"pattern"`
		} `yaml:"rules"`
	} `yaml:"signatures"`
}

// ParseSignatures decodes signatures from the YAML layout documented on
// signatureFile.
func ParseSignatures(data []byte) ([]Signature, error) {
	var file signatureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("could not decode signatures: %w", err)
	}

	out := make([]Signature, 0, len(file.Signatures))
	for _, fs := range file.Signatures {
		sig := Signature{
			Name:     fs.Name,
			Category: domain.Category(fs.Category),
			Feature:  Feature(fs.Feature),
		}
		for i, fr := range fs.Rules {
			var (
				rule Rule
				err  error
			)
			switch {
			case fr.Body != "" && fr.Header == "" && fr.Meta == "":
				rule, err = NewBodyRule(fr.Body)
			case fr.Header != "" && fr.Body == "" && fr.Meta == "":
				rule, err = NewHeaderRule(fr.Header, fr.Pattern)
			case fr.Meta != "" && fr.Body == "" && fr.Header == "":
				rule, err = NewMetaRule(fr.Meta, fr.Pattern)
			default:
				err = fmt.Errorf("exactly one of body, header or meta must be set")
			}
			if err != nil {
				return nil, fmt.Errorf("signature %q rule %d: %w", fs.Name, i, err)
			}
			sig.Rules = append(sig.Rules, rule)
		}
		out = append(out, sig)
	}

	return out, nil
}

// LoadRegistry returns the built-in registry extended with the signatures in
// the YAML file at path. An empty path returns the built-in registry.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read signatures file: %w", err)
	}
	extra, err := ParseSignatures(data)
	if err != nil {
		return nil, err
	}

	reg, err := DefaultRegistry().Extend(extra...)
	if err != nil {
		return nil, fmt.Errorf("could not extend registry: %w", err)
	}

	return reg, nil
}
