package meta

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vantage/internal/adapters/logger"
	"go.trai.ch/vantage/internal/core/ports"
)

// NodeID is the unique identifier for the metadata loader Graft node.
const NodeID graft.ID = "adapter.metadata"

func init() {
	graft.Register(graft.Node[ports.MetadataLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.MetadataLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
