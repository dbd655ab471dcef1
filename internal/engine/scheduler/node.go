package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vantage/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/vantage/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/vantage/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/vantage/internal/adapters/meta"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/vantage/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/vantage/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/vantage/internal/core/ports"
	"go.trai.ch/vantage/internal/engine/invocation"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			meta.NodeID,
			fs.LocatorNodeID,
			invocation.NodeID,
			shell.NodeID,
			config.ReaderNodeID,
			config.EnvironmentNodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			loader, err := graft.Dep[ports.MetadataLoader](ctx)
			if err != nil {
				return nil, err
			}

			locator, err := graft.Dep[ports.Locator](ctx)
			if err != nil {
				return nil, err
			}

			builder, err := graft.Dep[ports.InvocationBuilder](ctx)
			if err != nil {
				return nil, err
			}

			runner, err := graft.Dep[ports.ProcessRunner](ctx)
			if err != nil {
				return nil, err
			}

			settings, err := graft.Dep[ports.SettingsReader](ctx)
			if err != nil {
				return nil, err
			}

			env, err := graft.Dep[*domain.Environment](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(
				loader,
				locator,
				builder,
				runner,
				settings,
				tracer,
				log,
				env.Value(domain.EnvPath),
			), nil
		},
	})
}
