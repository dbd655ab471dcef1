package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vantage/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/vantage/internal/adapters/fs"     //nolint:depguard // Wired in app layer
	"go.trai.ch/vantage/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/vantage/internal/adapters/meta"   //nolint:depguard // Wired in app layer
	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/vantage/internal/core/ports"
	"go.trai.ch/vantage/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds what the entry point needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.EnvironmentNodeID,
			config.ReaderNodeID,
			fs.LocatorNodeID,
			meta.NodeID,
			scheduler.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	env, err := graft.Dep[*domain.Environment](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[ports.SettingsReader](ctx)
	if err != nil {
		return nil, err
	}

	locator, err := graft.Dep[ports.Locator](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.MetadataLoader](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(env, settings, locator, loader, sched, log), nil
}
