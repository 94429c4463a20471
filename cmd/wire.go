package main

import (
	"fmt"
	"net/http"

	"domainintel/internal/config"
	"domainintel/internal/enricher"
	"domainintel/pkg/contacts"
	"domainintel/pkg/contacts/hunter"
	"domainintel/pkg/contacts/snov"
	"domainintel/pkg/filter"
	"domainintel/pkg/fingerprint"
	"domainintel/pkg/metrics"
	"domainintel/pkg/registration/whoisfreaks"

	"github.com/prometheus/client_golang/prometheus"
)

// components are the collaborators shared by the subcommands.
type components struct {
	enricher enricher.Enricher
	filter   *filter.Evaluator
}

// newComponents builds the enrichment pipeline from configuration. Metrics are
// registered with reg when it is not nil.
func newComponents(cfg *config.Config, reg prometheus.Registerer) (*components, error) {
	m, err := metrics.NewEnrichment(reg)
	if err != nil {
		return nil, fmt.Errorf("could not register metrics: %w", err)
	}

	signatures, err := fingerprint.LoadRegistry(cfg.Fingerprint.SignaturesFile)
	if err != nil {
		return nil, fmt.Errorf("could not load signatures: %w", err)
	}
	// the fetcher applies its own per-request timeout
	analyzer := fingerprint.NewDefaultAnalyzer(&http.Client{}, signatures, fingerprint.FetcherOptions{
		Timeout: cfg.Fingerprint.FetchTimeout,
	})

	providerClient := &http.Client{Timeout: cfg.Providers.Timeout}
	lookup := whoisfreaks.New(providerClient, cfg.Providers.WhoisFreaksAPIKey)
	waterfall := contacts.NewWaterfall(
		hunter.New(providerClient, cfg.Providers.HunterAPIKey),
		snov.New(providerClient, snov.ResolveCredentials(
			cfg.Providers.SnovClientID,
			cfg.Providers.SnovClientSecret,
			cfg.Providers.SnovAPIKey,
		)),
		m,
	)

	settings, err := enricher.NewSettings(cfg, waterfall, m)
	if err != nil {
		return nil, fmt.Errorf("could not build enricher settings: %w", err)
	}

	return &components{
		enricher: enricher.New(lookup, analyzer, waterfall, settings),
		filter:   filter.NewEvaluator(settings.Scoring, nil),
	}, nil
}
