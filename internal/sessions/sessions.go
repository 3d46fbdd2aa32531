// Package sessions stores open edit sessions. A session holds the snapshot of the layer taken
// when editing started, so it can be restored on discard from any later process.
package sessions

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v3"
	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/pkg/data"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	ID        string      `json:"id"`
	Handle    data.Handle `json:"handle"`
	StartedAt time.Time   `json:"startedAt"`
	Snapshot  []byte      `json:"snapshot"`
}

func New(h data.Handle, snapshot []byte) *Session {
	return &Session{
		ID:        shortuuid.New(),
		Handle:    h,
		StartedAt: time.Now().UTC(),
		Snapshot:  snapshot,
	}
}

type Backend interface {
	GetSession(ctx context.Context, h data.Handle) (*Session, error)
	SaveSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, h data.Handle) error
	ListSessions(ctx context.Context) ([]*Session, error)
}
