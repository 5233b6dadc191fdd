package telemetry

import (
	"context"
	"errors"
	"io"

	"go.trai.ch/rig/internal/core/ports"
)

var _ ports.Telemetry = Fanout(nil)

// Fanout records every phase on each of its sinks.
type Fanout []ports.Telemetry

// Record starts the phase on all sinks, threading the context through each.
func (f Fanout) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	vertices := make(fanoutVertex, 0, len(f))
	for _, t := range f {
		var v ports.Vertex
		ctx, v = t.Record(ctx, name)
		vertices = append(vertices, v)
	}
	return ctx, vertices
}

// Close closes all sinks and joins their errors.
func (f Fanout) Close() error {
	var errs []error
	for _, t := range f {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type fanoutVertex []ports.Vertex

func (v fanoutVertex) Stdout() io.Writer {
	writers := make([]io.Writer, 0, len(v))
	for _, vertex := range v {
		writers = append(writers, vertex.Stdout())
	}
	return io.MultiWriter(writers...)
}

func (v fanoutVertex) Complete(err error) {
	for _, vertex := range v {
		vertex.Complete(err)
	}
}

func (v fanoutVertex) Cached() {
	for _, vertex := range v {
		vertex.Cached()
	}
}
