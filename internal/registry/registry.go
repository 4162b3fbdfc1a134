// Package registry maintains the catalog of families. IDs are dense
// integers 1..N with no gaps: deleting a family shifts every higher ID
// down by one, so the key set is always exactly {1..len}.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/avargascr/linaje/internal/family"
)

// ErrUnknownFamily is returned when an ID is not in the registry.
var ErrUnknownFamily = errors.New("family not found")

// Registry is the multi-family catalog with a current-family selector.
type Registry struct {
	families map[int]*family.Family
	nextID   int
	current  int // 0 means no current family

	// deletedIDs records the original IDs of deleted families. It exists
	// only for snapshot compatibility and plays no role in ID assignment.
	deletedIDs []int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		families: make(map[int]*family.Family),
		nextID:   1,
	}
}

// Create adds a new family, assigns it the next ID, and makes it current
// when no family is selected. Returns the assigned ID.
func (r *Registry) Create(name string, opts ...family.Option) int {
	f := family.New(name, opts...)
	f.ID = r.nextID
	r.families[f.ID] = f
	r.nextID++
	if r.current == 0 {
		r.current = f.ID
	}
	return f.ID
}

// Adopt registers an already-built family (a decoded import, a seed
// build) under the next ID and returns it. The current selector is set
// when no family was selected.
func (r *Registry) Adopt(f *family.Family) int {
	f.ID = r.nextID
	r.families[f.ID] = f
	r.nextID++
	if r.current == 0 {
		r.current = f.ID
	}
	return f.ID
}

// Get returns the family with the given ID.
func (r *Registry) Get(id int) (*family.Family, error) {
	f, ok := r.families[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFamily, id)
	}
	return f, nil
}

// Delete removes the family at id and remaps every higher ID down by one,
// both as map key and as Family.ID, keeping the key set {1..len}. The
// current selector follows the remap; when it pointed at the deleted
// family it falls back to the lowest remaining ID, or none.
func (r *Registry) Delete(id int) error {
	if _, ok := r.families[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownFamily, id)
	}
	delete(r.families, id)
	r.deletedIDs = append(r.deletedIDs, id)

	ids := r.ids()
	for _, k := range ids {
		if k > id {
			f := r.families[k]
			delete(r.families, k)
			f.ID = k - 1
			r.families[k-1] = f
		}
	}

	switch {
	case r.current == id:
		if rest := r.ids(); len(rest) > 0 {
			r.current = rest[0]
		} else {
			r.current = 0
		}
	case r.current > id:
		r.current--
	}

	if rest := r.ids(); len(rest) > 0 {
		r.nextID = rest[len(rest)-1] + 1
	} else {
		r.nextID = 1
	}
	return nil
}

// SetCurrent selects the family all single-family commands operate on.
func (r *Registry) SetCurrent(id int) error {
	if _, ok := r.families[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownFamily, id)
	}
	r.current = id
	return nil
}

// Current returns the selected family, or ErrUnknownFamily when none is
// selected.
func (r *Registry) Current() (*family.Family, error) {
	if r.current == 0 {
		return nil, fmt.Errorf("%w: no family selected", ErrUnknownFamily)
	}
	return r.Get(r.current)
}

// CurrentID returns the selected family ID, or 0.
func (r *Registry) CurrentID() int {
	return r.current
}

// Rename changes the display name of a family.
func (r *Registry) Rename(id int, name string) error {
	f, ok := r.families[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownFamily, id)
	}
	f.Name = name
	return nil
}

// List returns the families ordered by ascending ID.
func (r *Registry) List() []*family.Family {
	out := make([]*family.Family, 0, len(r.families))
	for _, id := range r.ids() {
		out = append(out, r.families[id])
	}
	return out
}

// Len returns the number of families.
func (r *Registry) Len() int {
	return len(r.families)
}

// NextID returns the ID the next Create call will assign.
func (r *Registry) NextID() int {
	return r.nextID
}

// DeletedIDs returns the original IDs of families deleted so far.
func (r *Registry) DeletedIDs() []int {
	return append([]int(nil), r.deletedIDs...)
}

// Stats summarizes the registry.
type Stats struct {
	Families int
	Members  int
	Living   int
	Deceased int
}

// Stats counts families and members across the registry.
func (r *Registry) Stats() Stats {
	s := Stats{Families: len(r.families)}
	for _, f := range r.families {
		s.Members += f.Len()
		s.Living += len(f.Living())
	}
	s.Deceased = s.Members - s.Living
	return s
}

// Restore rebuilds registry state from a snapshot. Families are re-keyed
// densely in ascending order of their stored IDs; the current selector is
// kept when it still resolves.
func (r *Registry) Restore(families []*family.Family, current, next int, deleted []int) {
	ordered := append([]*family.Family(nil), families...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	r.families = make(map[int]*family.Family, len(ordered))
	for i, f := range ordered {
		f.ID = i + 1
		r.families[f.ID] = f
	}
	r.current = 0
	if _, ok := r.families[current]; ok {
		r.current = current
	}
	r.nextID = len(r.families) + 1
	if next > r.nextID {
		r.nextID = next
	}
	r.deletedIDs = append([]int(nil), deleted...)
}

func (r *Registry) ids() []int {
	ids := make([]int, 0, len(r.families))
	for id := range r.families {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
