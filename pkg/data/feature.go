package data

import (
	"math"

	"github.com/google/uuid"
)

type GeometryType string

const (
	GeometryPoint      GeometryType = GeometryType("point")
	GeometryMultiPoint GeometryType = GeometryType("multipoint")
	GeometryLineString GeometryType = GeometryType("linestring")
	GeometryPolygon    GeometryType = GeometryType("polygon")
)

func (t GeometryType) Valid() bool {
	switch t {
	case GeometryPoint, GeometryMultiPoint, GeometryLineString, GeometryPolygon:
		return true
	}

	return false
}

// Coordinate holds x, y and optionally z and m ordinates.
type Coordinate []float64

type Geometry struct {
	Type  GeometryType   `json:"type"`
	Parts [][]Coordinate `json:"parts"`
}

func (g Geometry) Finite() bool {
	for _, part := range g.Parts {
		for _, c := range part {
			for _, v := range c {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return false
				}
			}
		}
	}

	return true
}

func (g Geometry) Clone() Geometry {
	if g.Parts == nil {
		return Geometry{Type: g.Type}
	}

	parts := make([][]Coordinate, len(g.Parts))
	for i, part := range g.Parts {
		if part == nil {
			continue
		}

		parts[i] = make([]Coordinate, len(part))
		for j, c := range part {
			if c != nil {
				parts[i][j] = append(Coordinate{}, c...)
			}
		}
	}

	return Geometry{Type: g.Type, Parts: parts}
}

func (g Geometry) Equal(o Geometry) bool {
	if g.Type != o.Type || len(g.Parts) != len(o.Parts) {
		return false
	}

	for i := range g.Parts {
		if len(g.Parts[i]) != len(o.Parts[i]) {
			return false
		}

		for j := range g.Parts[i] {
			a, b := g.Parts[i][j], o.Parts[i][j]
			if len(a) != len(b) {
				return false
			}

			for k := range a {
				if math.Float64bits(a[k]) != math.Float64bits(b[k]) {
					return false
				}
			}
		}
	}

	return true
}

type Feature struct {
	ID         string            `json:"id"`
	Geometry   Geometry          `json:"geometry"`
	Attributes map[string]string `json:"attributes"`
}

func NewFeature(geometry Geometry, attributes map[string]string) *Feature {
	return &Feature{
		ID:         uuid.NewString(),
		Geometry:   geometry,
		Attributes: attributes,
	}
}

func (f *Feature) Clone() *Feature {
	if f == nil {
		return nil
	}

	var attrs map[string]string
	if f.Attributes != nil {
		attrs = make(map[string]string, len(f.Attributes))
		for k, v := range f.Attributes {
			attrs[k] = v
		}
	}

	return &Feature{
		ID:         f.ID,
		Geometry:   f.Geometry.Clone(),
		Attributes: attrs,
	}
}

// Equal compares geometry bit for bit and attributes by value.
func (f *Feature) Equal(o *Feature) bool {
	if f == nil || o == nil {
		return f == o
	}

	if f.ID != o.ID || !f.Geometry.Equal(o.Geometry) || len(f.Attributes) != len(o.Attributes) {
		return false
	}

	for k, v := range f.Attributes {
		ov, ok := o.Attributes[k]
		if !ok || ov != v {
			return false
		}
	}

	return true
}

type FieldType string

const (
	FieldString  FieldType = FieldType("string")
	FieldInteger FieldType = FieldType("integer")
	FieldDouble  FieldType = FieldType("double")
)

type Field struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// FeatureSet is the geometry + attribute content of one layer.
type FeatureSet struct {
	GeometryType GeometryType `json:"geometryType"`
	Fields       []Field      `json:"fields"`
	Features     []*Feature   `json:"features"`
}

func NewFeatureSet(geometryType GeometryType, fields ...Field) *FeatureSet {
	return &FeatureSet{
		GeometryType: geometryType,
		Fields:       fields,
		Features:     []*Feature{},
	}
}

func (fs *FeatureSet) Clone() *FeatureSet {
	if fs == nil {
		return nil
	}

	clone := &FeatureSet{GeometryType: fs.GeometryType}
	if fs.Fields != nil {
		clone.Fields = append([]Field{}, fs.Fields...)
	}

	if fs.Features != nil {
		clone.Features = make([]*Feature, len(fs.Features))
		for i, f := range fs.Features {
			clone.Features[i] = f.Clone()
		}
	}

	return clone
}

func (fs *FeatureSet) Equal(o *FeatureSet) bool {
	if fs == nil || o == nil {
		return fs == o
	}

	if fs.GeometryType != o.GeometryType ||
		len(fs.Fields) != len(o.Fields) ||
		len(fs.Features) != len(o.Features) {
		return false
	}

	for i := range fs.Fields {
		if fs.Fields[i] != o.Fields[i] {
			return false
		}
	}

	for i := range fs.Features {
		if !fs.Features[i].Equal(o.Features[i]) {
			return false
		}
	}

	return true
}

func (fs *FeatureSet) IndexOf(id string) int {
	for i, f := range fs.Features {
		if f.ID == id {
			return i
		}
	}

	return -1
}
