// Package filter evaluates boolean predicates over enriched records. It only
// depends on the record shape and the scoring engine, never on how records
// were produced.
package filter

import (
	"strings"
	"time"

	"domainintel/pkg/domain"
	"domainintel/pkg/scoring"
)

// Spec is a set of optional predicates. A record passes when every present
// predicate holds; a zero Spec passes everything.
type Spec struct {
	// IncludeTech passes when any term is a case-insensitive substring of any
	// detected CMS, e-commerce, framework or marketing technology.
	IncludeTech []string `json:"includeTech,omitempty"`
	// ExcludeTech passes when no term matches any such technology.
	ExcludeTech []string `json:"excludeTech,omitempty"`

	RequireContactForm bool `json:"requireContactForm,omitempty"`
	RequireLiveChat    bool `json:"requireLiveChat,omitempty"`

	// RegisteredAfter and RegisteredBefore bound the creation date strictly.
	RegisteredAfter  *time.Time `json:"registeredAfter,omitempty"`
	RegisteredBefore *time.Time `json:"registeredBefore,omitempty"`

	// Countries is an allow-list of registrant country codes.
	Countries []string `json:"countries,omitempty"`
	// MinScore is compared against the record's total score, computed lazily
	// when the record carries none.
	MinScore *int `json:"minScore,omitempty"`
	// Keyword is a case-insensitive substring of the domain or the registrant
	// organization.
	Keyword string `json:"keyword,omitempty"`
}

// Empty reports whether s holds no predicate.
func (s Spec) Empty() bool {
	return len(terms(s.IncludeTech)) == 0 &&
		len(terms(s.ExcludeTech)) == 0 &&
		!s.RequireContactForm &&
		!s.RequireLiveChat &&
		s.RegisteredAfter == nil &&
		s.RegisteredBefore == nil &&
		len(terms(s.Countries)) == 0 &&
		s.MinScore == nil &&
		strings.TrimSpace(s.Keyword) == ""
}

// Evaluator evaluates specs. The scoring configuration and clock are only used
// to score records that carry no precomputed score.
type Evaluator struct {
	scoring scoring.Config
	now     func() time.Time
}

// NewEvaluator returns an evaluator scoring with cfg. A nil now uses time.Now.
func NewEvaluator(cfg scoring.Config, now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}

	return &Evaluator{scoring: cfg, now: now}
}

// Evaluate reports whether record satisfies every present predicate of spec.
// A record lacking the data a present predicate needs fails that predicate,
// except ExcludeTech: a missing stack has no technology to exclude. The record
// is never modified.
func (e *Evaluator) Evaluate(record *domain.Enrichment, spec Spec) bool {
	if record == nil {
		return spec.Empty()
	}
	stack := record.TechStack
	reg := record.Registration

	if include := terms(spec.IncludeTech); len(include) > 0 {
		if stack == nil || !matchesAnyTech(stack, include) {
			return false
		}
	}
	if exclude := terms(spec.ExcludeTech); len(exclude) > 0 {
		if stack != nil && matchesAnyTech(stack, exclude) {
			return false
		}
	}
	if spec.RequireContactForm && (stack == nil || !stack.HasContactForm) {
		return false
	}
	if spec.RequireLiveChat && (stack == nil || !stack.HasLiveChat) {
		return false
	}

	if spec.RegisteredAfter != nil || spec.RegisteredBefore != nil {
		if reg == nil || reg.CreatedAt == nil {
			return false
		}
		if spec.RegisteredAfter != nil && !reg.CreatedAt.After(*spec.RegisteredAfter) {
			return false
		}
		if spec.RegisteredBefore != nil && !reg.CreatedAt.Before(*spec.RegisteredBefore) {
			return false
		}
	}
	if countries := terms(spec.Countries); len(countries) > 0 {
		if reg == nil || !scoring.CountryIn(reg.RegistrantCountry, countries) {
			return false
		}
	}

	if spec.MinScore != nil && e.total(record) < *spec.MinScore {
		return false
	}

	if kw := strings.ToLower(strings.TrimSpace(spec.Keyword)); kw != "" {
		inDomain := strings.Contains(strings.ToLower(record.Domain), kw)
		inOrg := reg != nil && strings.Contains(strings.ToLower(reg.RegistrantOrg), kw)
		if !inDomain && !inOrg {
			return false
		}
	}

	return true
}

func (e *Evaluator) total(record *domain.Enrichment) int {
	if record.Score != nil {
		return record.Score.Total
	}
	s := scoring.Score(scoring.EvidenceOf(record), e.scoring, e.now())

	return s.Total
}

func matchesAnyTech(stack *domain.TechStack, needles []string) bool {
	for _, tech := range stack.Technologies() {
		tech = strings.ToLower(tech)
		for _, n := range needles {
			if strings.Contains(tech, n) {
				return true
			}
		}
	}

	return false
}

// terms lowercases and trims list, dropping blanks.
func terms(list []string) []string {
	var out []string
	for _, v := range list {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}

	return out
}
