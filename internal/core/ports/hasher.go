package ports

import "go.trai.ch/rig/internal/core/domain"

// Hasher defines the interface for fingerprinting resolved configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint returns a stable content hash of cfg.
	Fingerprint(cfg *domain.ResolvedConfig) (string, error)

	// HashFile returns the content hash of the file at path.
	HashFile(path string) (string, error)
}
