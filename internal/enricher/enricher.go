package enricher

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"domainintel/internal/config"
	"domainintel/pkg/contacts"
	"domainintel/pkg/domain"
	"domainintel/pkg/fingerprint"
	"domainintel/pkg/logger"
	"domainintel/pkg/metrics"
	"domainintel/pkg/registration"
	"domainintel/pkg/scoring"
	"domainintel/pkg/serrors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Phase names used for spans, logs and metrics.
const (
	PhaseRegistration = "registration"
	PhaseTech         = "tech"
	PhaseContacts     = "contacts"
	PhaseVerify       = "verify"
)

// DefaultMaxEmails is the contact quota used when neither the settings nor
// the request set one.
const DefaultMaxEmails = 10

// Settings configure an enricher. These settings are typically derived from
// application configuration.
type Settings struct {
	// MaxEmails is the contact quota for requests that do not set one.
	MaxEmails int
	// Preference is the provider preference for requests that do not set one.
	Preference contacts.Preference
	// Scoring is the base scoring configuration; requests may override parts of it.
	Scoring scoring.Config
	// Metrics records phase durations and outcomes. May be nil.
	Metrics *metrics.Enrichment
	// Tracer starts the enrichment spans. Defaults to the global tracer provider.
	Tracer trace.Tracer
	// Now is the clock scores are computed against. Defaults to time.Now.
	Now func() time.Time
}

// NewSettings constructs Settings from the provided application config. The
// waterfall resolves provider names used as contact source preferences.
func NewSettings(cfg *config.Config, w *contacts.Waterfall, m *metrics.Enrichment) (Settings, error) {
	primary, secondary := domain.ContactSourceNone, domain.ContactSourceNone
	if w != nil {
		primary, secondary = w.Sources()
	}
	pref, err := contacts.ParsePreference(cfg.Enrich.ContactSource, primary, secondary)
	if err != nil {
		return Settings{}, fmt.Errorf("could not parse default contact source: %w", err)
	}

	overrides := scoring.Config{
		TargetCountries: cfg.Scoring.TargetCountries,
		SpamKeywords:    cfg.Scoring.SpamKeywords,
		SpamPenaltyOnly: cfg.Scoring.SpamPenaltyOnly,
	}
	overrides.Tech.ValuablePlatforms = cfg.Scoring.ValuablePlatforms
	sc, err := scoring.DefaultConfig().Merge(overrides)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		MaxEmails:  cfg.Enrich.MaxEmails,
		Preference: pref,
		Scoring:    sc,
		Metrics:    m,
	}, nil
}

// Options are per-request overrides of the enricher's Settings.
type Options struct {
	// MaxEmails caps the number of discovered contacts. Zero uses the default.
	MaxEmails int
	// Preference selects the contact providers, by position or provider name.
	// Empty uses the default.
	Preference contacts.Preference
	// SkipContacts disables contact discovery altogether.
	SkipContacts bool
	// Scoring holds scoring overrides applied over the settings' configuration.
	Scoring scoring.Overrides
}

// enricher is the concrete implementation of the Enricher interface. It fans
// out to the registration lookup and the homepage analyzer, then runs contact
// discovery and scores the result. It holds no per-request state.
type enricher struct {
	lookup    registration.Lookup
	analyzer  fingerprint.Analyzer
	waterfall *contacts.Waterfall
	settings  Settings
}

// Ensure enricher conforms to the Enricher interface.
var _ Enricher = (*enricher)(nil)

// New creates an Enricher. Any collaborator may be nil, which behaves like an
// unconfigured one.
func New(lookup registration.Lookup,
	analyzer fingerprint.Analyzer,
	waterfall *contacts.Waterfall,
	settings Settings) Enricher {
	if settings.MaxEmails <= 0 {
		settings.MaxEmails = DefaultMaxEmails
	}
	if settings.Preference == "" {
		settings.Preference = contacts.PreferBoth
	}
	if settings.Tracer == nil {
		settings.Tracer = otel.Tracer("domainintel/internal/enricher")
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}

	return &enricher{
		lookup:    lookup,
		analyzer:  analyzer,
		waterfall: waterfall,
		settings:  settings,
	}
}

// Enrich builds the best-effort record of a domain. Registration lookup and
// tech detection run concurrently; contact discovery starts once both have
// settled. Sub-operation failures are recorded in the record's Errors and never
// fail the call: the only error returned is a bad request for an invalid
// domain or contact source.
func (e *enricher) Enrich(ctx context.Context, rawDomain string, options Options) (*domain.Enrichment, error) {
	host, err := NormalizeDomain(rawDomain)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid domain")
	}
	cfg := options.Scoring.Apply(e.settings.Scoring)
	pref, err := e.preference(options.Preference)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid contact source")
	}

	ctx, span := e.settings.Tracer.Start(ctx, "enrich", trace.WithAttributes(attribute.String("domain", host)))
	defer span.End()
	ctx = logger.WithFields(ctx, zap.String("domain", host))

	out := &domain.Enrichment{
		Domain:        host,
		Contacts:      []domain.Contact{},
		ContactSource: domain.ContactSourceNone,
		Errors:        []string{},
	}

	// branches never return errors to the group so one failure cannot cancel the other
	var regErr, techErr error
	var g errgroup.Group
	g.Go(func() error {
		regErr = e.phase(ctx, PhaseRegistration, func(ctx context.Context) error {
			if e.lookup == nil {
				return serrors.ErrNotConfigured
			}
			var err error
			out.Registration, err = e.lookup.Lookup(ctx, host)

			return err
		})

		return nil
	})
	g.Go(func() error {
		techErr = e.phase(ctx, PhaseTech, func(ctx context.Context) error {
			if e.analyzer == nil {
				return serrors.ErrNotConfigured
			}
			var err error
			out.TechStack, err = e.analyzer.Analyze(ctx, host)

			return err
		})

		return nil
	})
	_ = g.Wait()

	if regErr != nil {
		out.Registration = nil
		out.Errors = append(out.Errors, fmt.Sprintf("registration lookup failed: %v", regErr))
	}
	if techErr != nil {
		out.TechStack = nil
		out.Errors = append(out.Errors, fmt.Sprintf("tech detection failed: %v", techErr))
	}

	if !options.SkipContacts {
		maxEmails := options.MaxEmails
		if maxEmails <= 0 {
			maxEmails = e.settings.MaxEmails
		}
		for _, f := range e.discover(ctx, host, pref, maxEmails, out) {
			out.Errors = append(out.Errors, f.Error())
		}
	}

	now := e.settings.Now()
	score := scoring.Score(scoring.EvidenceOf(out), cfg, now)
	out.Score = &score
	out.EnrichedAt = now.UTC()

	e.settings.Metrics.Enriched(len(out.Errors), &score.Total)
	span.SetAttributes(
		attribute.Int("score", score.Total),
		attribute.Int("errors", len(out.Errors)),
		attribute.Int("contacts", len(out.Contacts)),
	)
	logger.Debug(ctx, "enrichment finished",
		zap.Int("score", score.Total),
		zap.Int("contacts", len(out.Contacts)),
		zap.Strings("errors", out.Errors))

	return out, nil
}

// discover fills the record's contacts and returns the absorbed provider failures.
func (e *enricher) discover(ctx context.Context,
	host string,
	pref contacts.Preference,
	maxEmails int,
	out *domain.Enrichment) []contacts.Failure {
	var failures []contacts.Failure
	_ = e.phase(ctx, PhaseContacts, func(ctx context.Context) error {
		if e.waterfall == nil || !e.waterfall.Configured() {
			return serrors.ErrNotConfigured
		}
		d := e.waterfall.Discover(ctx, host, pref, maxEmails)
		out.Contacts, out.ContactSource, failures = d.Contacts, d.Source, d.Failures

		errs := make([]error, 0, len(failures))
		for _, f := range failures {
			errs = append(errs, f)
		}

		return errors.Join(errs...)
	})

	return failures
}

// preference resolves a requested preference, which may also name a provider.
func (e *enricher) preference(p contacts.Preference) (contacts.Preference, error) {
	if p == "" {
		return e.settings.Preference, nil
	}
	primary, secondary := domain.ContactSourceNone, domain.ContactSourceNone
	if e.waterfall != nil {
		primary, secondary = e.waterfall.Sources()
	}

	return contacts.ParsePreference(string(p), primary, secondary)
}

// phase runs fn in its own span and records its duration and outcome. An
// unconfigured collaborator is reported as skipped and yields no error.
func (e *enricher) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := e.settings.Tracer.Start(ctx, name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, serrors.ErrNotConfigured):
		outcome, err = metrics.OutcomeSkipped, nil
		logger.Debug(ctx, "phase skipped, not configured", zap.String("phase", name))
	case err != nil:
		outcome = metrics.OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn(ctx, "phase failed", zap.String("phase", name), zap.Error(err))
	}
	e.settings.Metrics.ObservePhase(name, outcome, time.Since(start))

	return err
}

// VerifyEmail asks the contact providers whether email is deliverable. Only a
// malformed address is an error; provider failures yield a negative verdict.
func (e *enricher) VerifyEmail(ctx context.Context, email string) (*contacts.Verdict, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid email")
	}

	verdict := contacts.Verdict{Source: domain.ContactSourceNone}
	_ = e.phase(ctx, PhaseVerify, func(ctx context.Context) error {
		if e.waterfall == nil || !e.waterfall.Configured() {
			return serrors.ErrNotConfigured
		}
		verdict = e.waterfall.VerifyEmail(ctx, addr.Address)

		return nil
	})

	return &verdict, nil
}

// Credits reports the quota of every contact provider.
func (e *enricher) Credits(ctx context.Context) []contacts.CreditReport {
	if e.waterfall == nil {
		return []contacts.CreditReport{}
	}
	reports := e.waterfall.Credits(ctx)
	if reports == nil {
		return []contacts.CreditReport{}
	}

	return reports
}
