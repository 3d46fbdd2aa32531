package data

import (
	"strconv"

	"github.com/pkg/errors"
)

// Handle identifies a layer for as long as the layer is registered.
type Handle int

func (h Handle) String() string {
	return strconv.Itoa(int(h))
}

func ParseHandle(s string) (Handle, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.Errorf("invalid layer handle %q", s)
	}

	return Handle(n), nil
}

type BackendKind string

const (
	BackendMemory   BackendKind = BackendKind("memory")
	BackendFile     BackendKind = BackendKind("file")
	BackendExternal BackendKind = BackendKind("external")
)

func (k BackendKind) Valid() bool {
	switch k {
	case BackendMemory, BackendFile, BackendExternal:
		return true
	}

	return false
}

type Layer struct {
	Handle  Handle      `json:"handle"`
	Name    string      `json:"name"`
	Backend BackendKind `json:"backend"`

	// Filename is the save target of memory layers and the shape file of file layers.
	Filename string `json:"filename,omitempty"`

	// Source is the driver URI of external layers.
	Source         string `json:"source,omitempty"`
	DynamicLoading bool   `json:"dynamicLoading,omitempty"`

	InteractiveEditing bool        `json:"interactiveEditing"`
	Dirty              bool        `json:"dirty"`
	Features           *FeatureSet `json:"features"`
}

type Metadata struct {
	Name     string
	Filename string
}

func (l *Layer) Metadata() Metadata {
	filename := l.Filename
	if l.Backend == BackendExternal {
		filename = l.Source
	}

	return Metadata{Name: l.Name, Filename: filename}
}
