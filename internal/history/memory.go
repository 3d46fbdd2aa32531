package history

import (
	"context"
	"sync"
	"time"

	"github.com/ergomake/layeredit/pkg/data"
)

type inMemoryLog struct {
	mu      sync.Mutex
	entries map[data.Handle][]Entry
}

var _ Log = &inMemoryLog{}

func NewInMemoryLog() *inMemoryLog {
	return &inMemoryLog{entries: make(map[data.Handle][]Entry)}
}

func (ml *inMemoryLog) Append(_ context.Context, h data.Handle, change data.Change) error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	entries := ml.entries[h]
	ml.entries[h] = append(entries, Entry{Seq: len(entries) + 1, Handle: h, At: time.Now().UTC(), Change: change})
	return nil
}

func (ml *inMemoryLog) ForLayer(_ context.Context, h data.Handle) ([]Entry, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	return append([]Entry{}, ml.entries[h]...), nil
}

func (ml *inMemoryLog) ClearForLayer(_ context.Context, h data.Handle) error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	delete(ml.entries, h)
	return nil
}
