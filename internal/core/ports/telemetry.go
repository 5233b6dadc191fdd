package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the phases of a resolution run.
type Telemetry interface {
	// Record starts a new vertex for a phase.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded phase.
type Vertex interface {
	// Stdout returns a writer for the phase's output.
	Stdout() io.Writer
	// Complete marks the phase finished, successfully when err is nil.
	Complete(err error)
	// Cached marks the phase as satisfied by a previous run.
	Cached()
}
