// Package registration defines how normalized WHOIS metadata is looked up for
// a domain. Implementations absorb transport and payload failures into a nil
// record plus an error, and never retry.
package registration

import (
	"context"

	"domainintel/pkg/domain"
)

// Lookup resolves registration metadata for a bare domain.
//
// A nil record is returned together with an error for transport failures,
// non-success statuses and payload-level failure flags alike. Lookups that
// have no credentials fail with serrors.ErrNotConfigured.
//
//go:generate mockgen -package mockregistration -source=interface.go -destination=mock/mockregistration.go *
type Lookup interface {
	Lookup(ctx context.Context, host string) (*domain.Registration, error)
}
