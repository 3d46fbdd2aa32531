// Package history keeps the append only log of edits made to each layer during its edit session.
package history

import (
	"context"
	"time"

	"github.com/ergomake/layeredit/pkg/data"
)

type Entry struct {
	Seq    int         `json:"seq"`
	Handle data.Handle `json:"handle"`
	At     time.Time   `json:"at"`
	Change data.Change `json:"change"`
}

// Log is cleared as a whole for a layer, never partially.
type Log interface {
	Append(ctx context.Context, h data.Handle, change data.Change) error
	ForLayer(ctx context.Context, h data.Handle) ([]Entry, error)
	ClearForLayer(ctx context.Context, h data.Handle) error
}
