package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vantage/internal/adapters/logger"
	"go.trai.ch/vantage/internal/core/ports"
)

// LocatorNodeID is the unique identifier for the task locator Graft node.
const LocatorNodeID graft.ID = "adapter.fs.locator"

func init() {
	graft.Register(graft.Node[ports.Locator]{
		ID:        LocatorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Locator, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLocator(log), nil
		},
	})
}
