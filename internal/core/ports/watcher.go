package ports

import "context"

// Watcher defines the interface for observing configuration changes.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Watch calls onChange after path is modified, coalescing bursts of events.
	// It blocks until ctx is cancelled or the watcher fails.
	Watch(ctx context.Context, path string, onChange func()) error
}
