package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/core/ports"
)

// NodeID is the unique identifier for the resolution store Graft node.
const NodeID graft.ID = "adapter.resolution_store"

func init() {
	graft.Register(graft.Node[ports.ResolutionStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ResolutionStore, error) {
			return NewStore(), nil
		},
	})
}
