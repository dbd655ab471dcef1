package invocation

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vantage/internal/core/ports"
)

// NodeID is the unique identifier for the invocation builder Graft node.
const NodeID graft.ID = "engine.invocation"

func init() {
	graft.Register(graft.Node[ports.InvocationBuilder]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.InvocationBuilder, error) {
			return NewBuilder(), nil
		},
	})
}
