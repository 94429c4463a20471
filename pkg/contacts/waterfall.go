package contacts

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"domainintel/pkg/domain"
	"domainintel/pkg/logger"
	"domainintel/pkg/metrics"

	"go.uber.org/zap"
)

// Preference selects which providers a discovery may query.
type Preference string

const (
	PreferPrimary   Preference = "primary"
	PreferSecondary Preference = "secondary"
	PreferBoth      Preference = "both"
)

// ParsePreference maps user input to a Preference. Provider names are
// accepted as aliases of their position in the chain.
func ParsePreference(s string, primary, secondary domain.ContactSource) (Preference, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", string(PreferBoth):
		return PreferBoth, nil
	case string(PreferPrimary), string(primary):
		return PreferPrimary, nil
	case string(PreferSecondary), string(secondary):
		return PreferSecondary, nil
	default:
		return "", fmt.Errorf("unknown contact source %q", s)
	}
}

func (p Preference) wantsPrimary() bool   { return p == PreferPrimary || p == PreferBoth }
func (p Preference) wantsSecondary() bool { return p == PreferSecondary || p == PreferBoth }

// Failure is a provider error absorbed during discovery.
type Failure struct {
	Source domain.ContactSource
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("contact discovery (%s) failed: %v", f.Source, f.Err)
}

// Discovery is the merged outcome of one waterfall run.
type Discovery struct {
	// Contacts are unique by case-insensitive email, ordered by descending
	// confidence. Never nil.
	Contacts []domain.Contact
	// Source is the provider that saved the query: the secondary provider if it
	// contributed any contact, otherwise the primary one, or "none" when the
	// primary provider was not queried and the secondary added nothing.
	Source domain.ContactSource
	// Failures lists provider errors that were absorbed as empty results.
	Failures []Failure
}

// Verdict is the waterfall's answer for a single address. A Source of "none"
// is a definite negative.
type Verdict struct {
	Valid  bool                 `json:"valid"`
	Score  *int                 `json:"score,omitempty"`
	Source domain.ContactSource `json:"source"`
}

// CreditReport is one provider's quota snapshot.
type CreditReport struct {
	Source     domain.ContactSource `json:"source"`
	Configured bool                 `json:"configured"`
	Balance    *Balance             `json:"balance,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// Waterfall queries a primary and a secondary provider in order until a quota
// of contacts is filled. It holds no mutable state.
type Waterfall struct {
	primary   Provider
	secondary Provider
	metrics   *metrics.Enrichment
}

// NewWaterfall builds a waterfall over two providers. Either may be nil, which
// behaves like an unconfigured provider.
func NewWaterfall(primary, secondary Provider, m *metrics.Enrichment) *Waterfall {
	return &Waterfall{primary: primary, secondary: secondary, metrics: m}
}

// Sources returns the tags of the primary and secondary providers.
func (w *Waterfall) Sources() (domain.ContactSource, domain.ContactSource) {
	tag := func(p Provider) domain.ContactSource {
		if p == nil {
			return domain.ContactSourceNone
		}

		return p.Source()
	}

	return tag(w.primary), tag(w.secondary)
}

// Configured reports whether at least one provider has credentials.
func (w *Waterfall) Configured() bool {
	return configured(w.primary) || configured(w.secondary)
}

func configured(p Provider) bool { return p != nil && p.Configured() }

// Discover collects up to maxResults contacts for host. The secondary provider
// is only asked for the deficit left by the primary one. Provider failures
// never fail the discovery.
func (w *Waterfall) Discover(ctx context.Context, host string, pref Preference, maxResults int) Discovery {
	out := Discovery{Contacts: []domain.Contact{}, Source: domain.ContactSourceNone}
	if maxResults <= 0 {
		return out
	}
	seen := map[string]bool{}

	// accept merges found in order, skipping known emails, up to maxResults.
	accept := func(found []domain.Contact) int {
		added := 0
		for _, c := range found {
			if len(out.Contacts) >= maxResults {
				break
			}
			key := strings.ToLower(strings.TrimSpace(c.Email))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out.Contacts = append(out.Contacts, c)
			added++
		}

		return added
	}

	if pref.wantsPrimary() && configured(w.primary) {
		out.Source = w.primary.Source()
		found, err := w.search(ctx, w.primary, host, maxResults)
		if err != nil {
			out.Failures = append(out.Failures, Failure{Source: w.primary.Source(), Err: err})
		}
		accept(found)
	}

	if deficit := maxResults - len(out.Contacts); deficit > 0 && pref.wantsSecondary() && configured(w.secondary) {
		found, err := w.search(ctx, w.secondary, host, deficit)
		if err != nil {
			out.Failures = append(out.Failures, Failure{Source: w.secondary.Source(), Err: err})
		}
		if accept(found) > 0 {
			out.Source = w.secondary.Source()
		}
	}

	slices.SortStableFunc(out.Contacts, func(a, b domain.Contact) int {
		return b.Confidence - a.Confidence
	})

	return out
}

func (w *Waterfall) search(ctx context.Context, p Provider, host string, limit int) ([]domain.Contact, error) {
	found, err := p.SearchDomain(ctx, host, limit)
	if err != nil {
		w.metrics.ProviderCall(string(p.Source()), "search", metrics.OutcomeError)
		logger.Warn(ctx, "contact search failed",
			zap.String("provider", string(p.Source())), zap.String("domain", host), zap.Error(err))

		return nil, err
	}
	w.metrics.ProviderCall(string(p.Source()), "search", metrics.OutcomeOK)
	logger.Debug(ctx, "contact search finished",
		zap.String("provider", string(p.Source())), zap.String("domain", host), zap.Int("found", len(found)))

	return found, nil
}

// VerifyEmail asks the primary provider for a verdict and falls back to the
// secondary one when the primary is unconfigured or reaches none. Provider
// errors count as no verdict.
func (w *Waterfall) VerifyEmail(ctx context.Context, email string) Verdict {
	for _, p := range []Provider{w.primary, w.secondary} {
		if !configured(p) {
			continue
		}
		v, err := p.VerifyEmail(ctx, email)
		if err != nil {
			w.metrics.ProviderCall(string(p.Source()), "verify", metrics.OutcomeError)
			logger.Warn(ctx, "email verification failed",
				zap.String("provider", string(p.Source())), zap.Error(err))

			continue
		}
		w.metrics.ProviderCall(string(p.Source()), "verify", metrics.OutcomeOK)
		if v != nil {
			return Verdict{Valid: v.Valid, Score: v.Score, Source: p.Source()}
		}
	}

	return Verdict{Valid: false, Source: domain.ContactSourceNone}
}

// Credits reports the quota of both providers. Unconfigured providers are
// listed without a balance.
func (w *Waterfall) Credits(ctx context.Context) []CreditReport {
	var out []CreditReport
	for _, p := range []Provider{w.primary, w.secondary} {
		if p == nil {
			continue
		}
		report := CreditReport{Source: p.Source(), Configured: p.Configured()}
		if report.Configured {
			b, err := p.Credits(ctx)
			if err != nil {
				report.Error = err.Error()
			} else {
				report.Balance = b
			}
		}
		out = append(out, report)
	}

	return out
}
