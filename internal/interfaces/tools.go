package interfaces

import (
	"context"
	"iter"

	"github.com/bobmcallan/toolbridge/internal/models"
)

// ToolSource supplies the raw tool configuration for one request.
type ToolSource interface {
	Tools(ctx context.Context) ([]models.RawTool, error)
}

// ToolEngine executes a tool on the host platform. The returned sequence is
// produced lazily; an error yielded mid-stream ends the invocation.
type ToolEngine interface {
	Invoke(ctx context.Context, inv models.Invocation) (iter.Seq2[models.MessagePart, error], error)
}
