package ports

import "go.trai.ch/rig/internal/core/domain"

// ResolutionStore defines the interface for remembering previous resolutions.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ResolutionStore interface {
	// Get retrieves the record for a configuration path.
	// Returns nil, nil if not found.
	Get(configPath string) (*domain.ResolutionRecord, error)

	// Put stores the record.
	Put(record domain.ResolutionRecord) error
}
