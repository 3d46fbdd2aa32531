package sessions

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/pkg/data"
)

type inMemoryBackend struct {
	mu       sync.Mutex
	sessions map[data.Handle]*Session
}

var _ Backend = &inMemoryBackend{}

func NewInMemoryBackend() *inMemoryBackend {
	return &inMemoryBackend{sessions: make(map[data.Handle]*Session)}
}

func (mb *inMemoryBackend) GetSession(_ context.Context, h data.Handle) (*Session, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	s, ok := mb.sessions[h]
	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "no edit session for layer %s", h)
	}

	return s, nil
}

func (mb *inMemoryBackend) SaveSession(_ context.Context, session *Session) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.sessions[session.Handle] = session
	return nil
}

func (mb *inMemoryBackend) DeleteSession(_ context.Context, h data.Handle) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	delete(mb.sessions, h)
	return nil
}

func (mb *inMemoryBackend) ListSessions(context.Context) ([]*Session, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	result := make([]*Session, 0, len(mb.sessions))
	for _, s := range mb.sessions {
		result = append(result, s)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Handle < result[j].Handle })
	return result, nil
}
