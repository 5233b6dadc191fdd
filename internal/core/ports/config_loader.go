// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/rig/internal/core/domain"

// ConfigLoader defines the interface for locating and reading the build configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Discover returns the path of the configuration file that applies to cwd.
	Discover(cwd string) (string, error)

	// Load reads the configuration file at path into an unvalidated input.
	Load(path string) (*domain.ConfigInput, error)
}
