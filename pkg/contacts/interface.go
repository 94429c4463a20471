// Package contacts discovers contact emails for a domain through an ordered
// chain of external providers and verifies single addresses.
package contacts

import (
	"context"

	"domainintel/pkg/domain"
)

// Verification is a provider's verdict on a single address.
type Verification struct {
	Valid bool
	// Score is the provider's deliverability score, when it reports one.
	Score *int
}

// Balance is a provider's remaining quota.
type Balance struct {
	Remaining int `json:"remaining"`
	Used      int `json:"used,omitempty"`
	Limit     int `json:"limit,omitempty"`
}

// Provider is one contact-discovery backend. Credentials are fixed at
// construction; an unconfigured provider is skipped by the waterfall.
//
//go:generate mockgen -package mockcontacts -source=interface.go -destination=mock/mockcontacts.go *
type Provider interface {
	// Source tags the contacts this provider returns.
	Source() domain.ContactSource
	// Configured reports whether the provider has credentials.
	Configured() bool
	// SearchDomain returns at most limit contacts found for host.
	SearchDomain(ctx context.Context, host string, limit int) ([]domain.Contact, error)
	// VerifyEmail returns nil when the provider could not reach a verdict.
	VerifyEmail(ctx context.Context, email string) (*Verification, error)
	// Credits returns the provider's remaining quota.
	Credits(ctx context.Context) (*Balance, error)
}
