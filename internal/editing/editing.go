// Package editing owns the edit lifecycle of layers: entering edit mode, saving or discarding
// pending edits and closing the session.
package editing

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/layers"
	"github.com/ergomake/layeredit/internal/notify"
	"github.com/ergomake/layeredit/internal/vectorsource"
	"github.com/ergomake/layeredit/pkg/data"
)

var (
	ErrInvalidHandle = layers.ErrInvalidHandle
	ErrBusy          = errors.New("another operation is in progress for this layer")
	ErrNotEditing    = errors.New("layer is not in edit mode")
	ErrInvalidChange = errors.New("invalid change")
	ErrNoSnapshot    = errors.New("edit session has no snapshot")
)

type State int

const (
	ReadOnly State = iota
	Editing
	Saving
)

func (s State) String() string {
	switch s {
	case ReadOnly:
		return "read-only"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	}

	return fmt.Sprintf("state(%d)", int(s))
}

type Decision int

const (
	DecisionCancel Decision = iota
	DecisionSave
	DecisionDiscard
)

func (d Decision) String() string {
	switch d {
	case DecisionCancel:
		return "cancel"
	case DecisionSave:
		return "save"
	case DecisionDiscard:
		return "discard"
	}

	return fmt.Sprintf("decision(%d)", int(d))
}

type PartialSavePolicy int

const (
	// ClosePartial closes the session after a partial save. Edits that failed to save are lost.
	ClosePartial PartialSavePolicy = iota
	// KeepEditing keeps the session open so the failed edits can be fixed and saved again.
	KeepEditing
)

func ParsePartialSavePolicy(s string) (PartialSavePolicy, error) {
	switch s {
	case "", "close":
		return ClosePartial, nil
	case "keep":
		return KeepEditing, nil
	}

	return ClosePartial, errors.Errorf("invalid partial save policy %q, expected close or keep", s)
}

type LayerRepository interface {
	Layer(h data.Handle) (*data.Layer, error)
	GetFeatureSet(h data.Handle) (*data.FeatureSet, bool)
	GetVectorLayer(ctx context.Context, h data.Handle) (vectorsource.Driver, bool, error)
	MetadataByHandle(h data.Handle) (data.Metadata, error)
	AnyEditing() bool

	AddLayer(ctx context.Context, l *data.Layer) (data.Handle, error)
	SetInteractiveEditing(ctx context.Context, h data.Handle, editing bool) error
	LeaveEditing(ctx context.Context, h data.Handle) error
	SetFilename(ctx context.Context, h data.Handle, filename string) error
	ReplaceFeatures(ctx context.Context, h data.Handle, fs *data.FeatureSet) error
	ReplaceWorking(ctx context.Context, h data.Handle, fs *data.FeatureSet, dirty bool) error
}

var _ LayerRepository = &layers.Repository{}

type PromptService interface {
	AskSaveDiscardCancel(ctx context.Context, message string) (Decision, error)
	Info(message string)
	Warn(message string)
}

type NotificationBus interface {
	BroadcastEditingChanged(h data.Handle)
	BroadcastRedraw(scope notify.RedrawScope)
}

var _ NotificationBus = &notify.Bus{}

// GeometryEditor is the interactive drawing tool attached to the map, if any.
type GeometryEditor interface {
	// SaveChanges commits the shape being drawn, false aborts the save.
	SaveChanges() bool
	Clear()
	ResetTool()
}

type Options struct {
	PartialSave       PartialSavePolicy
	SaveTimeout       time.Duration
	ErrorSummaryLimit int

	// Region is used for s3:// save targets of in-memory layers.
	Region string
}

type NewLayer struct {
	Name         string
	GeometryType data.GeometryType
	Fields       []data.Field
	Backend      data.BackendKind

	// Filename is the shape file to create for file layers, optional for memory layers.
	Filename string
}
