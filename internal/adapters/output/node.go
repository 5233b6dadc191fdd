package output

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/core/ports"
)

// NodeID is the unique identifier for the resolved writer Graft node.
const NodeID graft.ID = "adapter.output"

func init() {
	graft.Register(graft.Node[ports.ResolvedWriter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ResolvedWriter, error) {
			return NewWriter(), nil
		},
	})
}
