package enricher

import (
	"context"

	"domainintel/pkg/contacts"
	"domainintel/pkg/domain"
)

//go:generate mockgen -package mockenricher -source=interface.go -destination=mock/mockenricher.go *
type Enricher interface {
	Enrich(ctx context.Context, rawDomain string, options Options) (*domain.Enrichment, error)
	VerifyEmail(ctx context.Context, email string) (*contacts.Verdict, error)
	Credits(ctx context.Context) []contacts.CreditReport
}
