package fingerprint

import (
	"context"

	"domainintel/pkg/domain"
)

// Analyzer produces the technology stack of a domain's homepage. A failed
// fetch yields a nil stack and an error, never a partial result.
//
//go:generate mockgen -package mockfingerprint -source=interface.go -destination=mock/mockfingerprint.go *
type Analyzer interface {
	Analyze(ctx context.Context, host string) (*domain.TechStack, error)
}
