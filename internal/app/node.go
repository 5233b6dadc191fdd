package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/output"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/rig/internal/engine/resolver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			resolver.NodeID,
			fs.HasherNodeID,
			cas.NodeID,
			output.NodeID,
			watcher.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log, tel), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	res, err := graft.Dep[ports.ConfigResolver](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.ResolutionStore](ctx)
	if err != nil {
		return nil, err
	}

	writer, err := graft.Dep[ports.ResolvedWriter](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, res, hasher, store, writer, w, tel, log), nil
}
