package catalog

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDuplicateID = errors.New("catalog: duplicate museum id")
	ErrEmptyID     = errors.New("catalog: museum without id")
)

// Dataset is an immutable, ordered set of museums. Order is the source order
// and is what the stable sort falls back to.
type Dataset struct {
	records []Museum
	index   map[string]int
}

// NewDataset copies records and checks id uniqueness.
func NewDataset(records []Museum) (*Dataset, error) {
	d := &Dataset{
		records: slices.Clone(records),
		index:   make(map[string]int, len(records)),
	}
	for i, m := range d.records {
		if m.ID == "" {
			return nil, fmt.Errorf("%w (position %d, name %q)", ErrEmptyID, i, m.Name)
		}
		if j, ok := d.index[m.ID]; ok {
			return nil, fmt.Errorf("%w %q at positions %d and %d", ErrDuplicateID, m.ID, j, i)
		}
		d.index[m.ID] = i
	}
	return d, nil
}

// Records returns a copy of the records in source order.
func (d *Dataset) Records() []Museum { return slices.Clone(d.records) }

func (d *Dataset) Len() int { return len(d.records) }

// ByID resolves a museum by id.
func (d *Dataset) ByID(id string) (Museum, bool) {
	i, ok := d.index[id]
	if !ok {
		return Museum{}, false
	}
	return d.records[i], true
}

// Categories returns the fixed category list.
func (d *Dataset) Categories() []Category { return Categories() }

// Problems lists records whose category or status is outside the known sets.
// Such records load fine; the filter simply never matches an unknown category.
func (d *Dataset) Problems() []string {
	var out []string
	for _, m := range d.records {
		if !KnownCategory(m.Category) || m.Category == AllCategory {
			out = append(out, fmt.Sprintf("%s: unknown category %q", m.ID, m.Category))
		}
		if !m.Status.Valid() {
			out = append(out, fmt.Sprintf("%s: unknown status %q", m.ID, m.Status))
		}
	}
	return out
}
