package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/vantage/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the ambient settings Graft node.
	NodeID graft.ID = "adapter.config"
	// EnvironmentNodeID is the unique identifier for the ambient environment Graft node.
	EnvironmentNodeID graft.ID = "adapter.config.environment"
	// ReaderNodeID is the unique identifier for the settings reader Graft node.
	ReaderNodeID graft.ID = "adapter.config.reader"
)

func init() {
	graft.Register(graft.Node[*domain.Environment]{
		ID:        EnvironmentNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*domain.Environment, error) {
			return Ambient(os.Environ(), os.Getwd)
		},
	})

	graft.Register(graft.Node[ports.SettingsReader]{
		ID:        ReaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SettingsReader, error) {
			return NewReader(), nil
		},
	})

	graft.Register(graft.Node[*domain.Settings]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{EnvironmentNodeID, ReaderNodeID},
		Run: func(ctx context.Context) (*domain.Settings, error) {
			env, err := graft.Dep[*domain.Environment](ctx)
			if err != nil {
				return nil, err
			}
			reader, err := graft.Dep[ports.SettingsReader](ctx)
			if err != nil {
				return nil, err
			}
			return reader.Read(env)
		},
	})
}
