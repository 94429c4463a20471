package fingerprint

import (
	"fmt"
	"regexp"
	"strings"
)

// RuleKind tags the evidence source a rule inspects.
type RuleKind string

const (
	RuleKindBody   RuleKind = "body"
	RuleKindHeader RuleKind = "header"
	RuleKindMeta   RuleKind = "meta"
)

// Rule is a single detection rule of a signature. A signature matches when
// any of its rules matches.
type Rule interface {
	Kind() RuleKind
	Match(ev *Evidence) bool
}

// BodyRule matches a pattern anywhere in the raw HTML, script tags included.
type BodyRule struct {
	Pattern *regexp.Regexp
}

func (r BodyRule) Kind() RuleKind { return RuleKindBody }

func (r BodyRule) Match(ev *Evidence) bool {
	return r.Pattern.MatchString(ev.Body)
}

// HeaderRule matches a response header by name. A nil Pattern matches on the
// header's presence alone.
type HeaderRule struct {
	Name    string // lowercase
	Pattern *regexp.Regexp
}

func (r HeaderRule) Kind() RuleKind { return RuleKindHeader }

func (r HeaderRule) Match(ev *Evidence) bool {
	value, ok := ev.Headers[r.Name]
	if !ok {
		return false
	}

	return r.Pattern == nil || r.Pattern.MatchString(value)
}

// MetaRule matches the content of <meta name="Name" content="..."> tags.
type MetaRule struct {
	Name    string // lowercase
	Pattern *regexp.Regexp
}

func (r MetaRule) Kind() RuleKind { return RuleKindMeta }

func (r MetaRule) Match(ev *Evidence) bool {
	for _, content := range ev.Meta[r.Name] {
		if r.Pattern.MatchString(content) {
			return true
		}
	}

	return false
}

// compilePattern compiles a case-insensitive pattern.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pattern, "(?i)") {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("could not compile pattern %q: %w", pattern, err)
	}

	return re, nil
}

// NewBodyRule compiles a body rule.
func NewBodyRule(pattern string) (Rule, error) {
	if pattern == "" {
		return nil, fmt.Errorf("body rule needs a pattern")
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	return BodyRule{Pattern: re}, nil
}

// NewHeaderRule compiles a header rule. An empty pattern matches presence.
func NewHeaderRule(name, pattern string) (Rule, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("header rule needs a header name")
	}
	rule := HeaderRule{Name: name}
	if pattern != "" {
		re, err := compilePattern(pattern)
		if err != nil {
			return nil, err
		}
		rule.Pattern = re
	}

	return rule, nil
}

// NewMetaRule compiles a meta rule.
func NewMetaRule(name, pattern string) (Rule, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || pattern == "" {
		return nil, fmt.Errorf("meta rule needs a name and a pattern")
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	return MetaRule{Name: name, Pattern: re}, nil
}

func must(r Rule, err error) Rule {
	if err != nil {
		panic(err)
	}

	return r
}

// body, header and meta build rules of the built-in table.
func body(pattern string) Rule { return must(NewBodyRule(pattern)) }
func header(name, pattern string) Rule { return must(NewHeaderRule(name, pattern)) }
func meta(name, pattern string) Rule { return must(NewMetaRule(name, pattern)) }
