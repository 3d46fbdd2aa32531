package data

type ChangeKind string

const (
	ChangeInsert ChangeKind = ChangeKind("insert")
	ChangeUpdate ChangeKind = ChangeKind("update")
	ChangeDelete ChangeKind = ChangeKind("delete")
)

// Change is one pending edit. Index points into the working feature set for inserts and
// updates, and into the pre-edit feature set for deletes.
type Change struct {
	Kind    ChangeKind `json:"kind"`
	Index   int        `json:"index"`
	Feature *Feature   `json:"feature"`
}

// Diff returns the changes that turn before into after, deletes first.
func Diff(before, after *FeatureSet) []Change {
	changes := make([]Change, 0)

	beforeByID := make(map[string]*Feature)
	if before != nil {
		for _, f := range before.Features {
			beforeByID[f.ID] = f
		}
	}

	afterIDs := make(map[string]struct{})
	if after != nil {
		for _, f := range after.Features {
			afterIDs[f.ID] = struct{}{}
		}
	}

	if before != nil {
		for i, f := range before.Features {
			if _, ok := afterIDs[f.ID]; !ok {
				changes = append(changes, Change{Kind: ChangeDelete, Index: i, Feature: f})
			}
		}
	}

	if after != nil {
		for i, f := range after.Features {
			prev, ok := beforeByID[f.ID]
			switch {
			case !ok:
				changes = append(changes, Change{Kind: ChangeInsert, Index: i, Feature: f})
			case !prev.Equal(f):
				changes = append(changes, Change{Kind: ChangeUpdate, Index: i, Feature: f})
			}
		}
	}

	return changes
}

// Apply performs the change on fs in place.
func (c Change) Apply(fs *FeatureSet) bool {
	switch c.Kind {
	case ChangeInsert:
		if c.Feature == nil || fs.IndexOf(c.Feature.ID) >= 0 {
			return false
		}
		fs.Features = append(fs.Features, c.Feature.Clone())
		return true
	case ChangeUpdate:
		if c.Feature == nil {
			return false
		}
		i := fs.IndexOf(c.Feature.ID)
		if i < 0 {
			return false
		}
		fs.Features[i] = c.Feature.Clone()
		return true
	case ChangeDelete:
		if c.Feature == nil {
			return false
		}
		i := fs.IndexOf(c.Feature.ID)
		if i < 0 {
			return false
		}
		fs.Features = append(fs.Features[:i], fs.Features[i+1:]...)
		return true
	}

	return false
}
