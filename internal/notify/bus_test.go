package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ergomake/layeredit/pkg/data"
)

func TestBus(t *testing.T) {
	bus := NewBus()

	var changed []data.Handle
	var redraws []RedrawScope
	var order []string

	stopChanged := bus.OnEditingChanged(func(e EditingChanged) {
		changed = append(changed, e.Handle)
		order = append(order, "first")
	})
	bus.Subscribe(EventEditingChanged, func(Event) { order = append(order, "second") })
	bus.OnRedraw(func(e Redraw) { redraws = append(redraws, e.Scope) })

	bus.BroadcastEditingChanged(3)
	bus.BroadcastRedraw(LayerScope(3))
	bus.BroadcastRedraw(RedrawScope{})

	assert.Equal(t, []data.Handle{3}, changed)
	assert.Equal(t, []RedrawScope{{Handle: 3}, {}}, redraws)
	assert.Equal(t, []string{"first", "second"}, order)

	stopChanged()
	bus.BroadcastEditingChanged(4)
	assert.Equal(t, []data.Handle{3}, changed)
	assert.Equal(t, []string{"first", "second", "second"}, order)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "editing-changed", EventEditingChanged.String())
	assert.Equal(t, "redraw", EventRedraw.String())
	assert.Equal(t, "event(9)", EventKind(9).String())
}
