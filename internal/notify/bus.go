// Package notify delivers edit lifecycle events to registered observers.
package notify

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ergomake/layeredit/pkg/data"
)

type EventKind int

const (
	EventEditingChanged EventKind = iota + 1
	EventRedraw
)

func (k EventKind) String() string {
	switch k {
	case EventEditingChanged:
		return "editing-changed"
	case EventRedraw:
		return "redraw"
	}

	return fmt.Sprintf("event(%d)", int(k))
}

type Event interface {
	Kind() EventKind
}

type EditingChanged struct {
	Handle data.Handle
}

func (EditingChanged) Kind() EventKind { return EventEditingChanged }

// RedrawScope with a zero Handle covers the whole map.
type RedrawScope struct {
	Handle data.Handle
}

func LayerScope(h data.Handle) RedrawScope {
	return RedrawScope{Handle: h}
}

type Redraw struct {
	Scope RedrawScope
}

func (Redraw) Kind() EventKind { return EventRedraw }

type subscription struct {
	id   int
	kind EventKind
	fn   func(Event)
}

// Bus delivers synchronously, in subscription order, on the caller's goroutine.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]subscription
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]subscription)}
}

// Subscribe registers fn for events of kind and returns the function that removes it.
func (b *Bus) Subscribe(kind EventKind, fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	b.subs[id] = subscription{id: id, kind: kind, fn: fn}

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Bus) OnEditingChanged(fn func(EditingChanged)) func() {
	return b.Subscribe(EventEditingChanged, func(e Event) { fn(e.(EditingChanged)) })
}

func (b *Bus) OnRedraw(fn func(Redraw)) func() {
	return b.Subscribe(EventRedraw, func(e Event) { fn(e.(Redraw)) })
}

func (b *Bus) BroadcastEditingChanged(h data.Handle) {
	b.publish(EditingChanged{Handle: h})
}

func (b *Bus) BroadcastRedraw(scope RedrawScope) {
	b.publish(Redraw{Scope: scope})
}

func (b *Bus) publish(e Event) {
	b.mu.RLock()
	subs := make([]subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.kind == e.Kind() {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	for _, s := range subs {
		s.fn(e)
	}
}
