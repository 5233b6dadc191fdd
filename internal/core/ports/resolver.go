package ports

import "go.trai.ch/rig/internal/core/domain"

// ConfigResolver validates raw configuration and merges it with defaults.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type ConfigResolver interface {
	// Resolve returns the resolved snapshot or the first validation error.
	// It never returns a partial result.
	Resolve(input domain.ConfigInput) (domain.ResolvedConfig, error)
}
