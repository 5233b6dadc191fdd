package ports

import "go.trai.ch/rig/internal/core/domain"

// ResolvedWriter defines the interface for emitting resolved configuration to the build executor.
//
//go:generate go run go.uber.org/mock/mockgen -source=writer.go -destination=mocks/mock_writer.go -package=mocks
type ResolvedWriter interface {
	// Write serializes cfg in the given format to path. A path of "-" writes to standard output.
	Write(cfg *domain.ResolvedConfig, path string, format domain.Format) error
}
