package fingerprint

import (
	"context"
	"fmt"
	"net/http"

	"domainintel/pkg/domain"
)

type analyzer struct {
	fetcher    *Fetcher
	classifier *Classifier
}

// NewAnalyzer combines a fetcher and a classifier into an Analyzer.
func NewAnalyzer(fetcher *Fetcher, classifier *Classifier) Analyzer {
	return &analyzer{fetcher: fetcher, classifier: classifier}
}

// NewDefaultAnalyzer builds an Analyzer over registry r with a fetcher using
// httpClient and the given timeout.
func NewDefaultAnalyzer(httpClient *http.Client, r *Registry, options FetcherOptions) Analyzer {
	return NewAnalyzer(NewFetcher(httpClient, options), NewClassifier(r))
}

func (a *analyzer) Analyze(ctx context.Context, host string) (*domain.TechStack, error) {
	page, err := a.fetcher.Fetch(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("could not fetch homepage: %w", err)
	}

	return a.classifier.Detect(page.Body, page.Headers), nil
}
