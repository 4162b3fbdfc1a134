// Package family holds the Family container: a set of Persons keyed by
// cedula, with membership operations, living/deceased filters, and the
// integrity checker that audits the relation invariants after bulk
// imports.
package family

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/avargascr/linaje/internal/person"
)

// ErrDuplicateCedula is returned when adding a cedula that already exists.
var ErrDuplicateCedula = errors.New("duplicate cedula")

// ErrUnknownPerson is returned when a cedula is not in the family.
var ErrUnknownPerson = errors.New("person not found")

// ErrHasRelations is returned when removing a person that still has a
// spouse or children.
var ErrHasRelations = errors.New("person still has spouse or children")

// ErrGenderLocked is returned by AddOrUpdate when the update would change
// the gender of a person currently holding a father or mother role.
var ErrGenderLocked = errors.New("gender cannot change for an active parent")

// Family is a private mutable graph of Persons. It belongs to exactly one
// registry entry; Persons are shared by reference inside it but never
// across families.
type Family struct {
	ID          int
	Name        string
	Description string

	// CurrentYear is the simulation clock. Zero means the civil calendar
	// applies.
	CurrentYear int

	members map[string]*person.Person
}

// New creates an empty family. The ID is assigned by the registry.
type Option func(*Family)

// WithDescription sets the optional description.
func WithDescription(desc string) Option {
	return func(f *Family) { f.Description = desc }
}

// New creates an empty named family.
func New(name string, opts ...Option) *Family {
	f := &Family{
		Name:    name,
		members: make(map[string]*person.Person),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Len returns the number of members.
func (f *Family) Len() int {
	return len(f.members)
}

// Add inserts a person. Returns ErrDuplicateCedula if the cedula is taken.
func (f *Family) Add(p *person.Person) error {
	if _, ok := f.members[p.Cedula]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCedula, p.Cedula)
	}
	f.members[p.Cedula] = p
	return nil
}

// AddOrUpdate upserts a person by cedula. When the cedula already exists
// the stored object is updated in place so that relation pointers held by
// other members stay valid. A gender change is refused while the person
// holds a father or mother role on any child.
func (f *Family) AddOrUpdate(p *person.Person) error {
	old, ok := f.members[p.Cedula]
	if !ok {
		f.members[p.Cedula] = p
		return nil
	}
	if old.Gender != p.Gender {
		for _, c := range old.Children {
			if c.Father == old || c.Mother == old {
				return fmt.Errorf("%w: %s", ErrGenderLocked, p.Cedula)
			}
		}
	}
	old.FirstName = p.FirstName
	old.LastName = p.LastName
	old.BirthDate = p.BirthDate
	old.DeathDate = p.DeathDate
	old.Gender = p.Gender
	old.Province = p.Province
	old.MaritalStatus = p.MaritalStatus
	old.Interests = p.Interests
	old.EmotionalHealth = p.EmotionalHealth
	return nil
}

// Get returns the member with the given cedula, or nil.
func (f *Family) Get(cedula string) *person.Person {
	return f.members[cedula]
}

// Members returns all members in ascending cedula order.
func (f *Family) Members() []*person.Person {
	out := make([]*person.Person, 0, len(f.members))
	for _, p := range f.members {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cedula < out[j].Cedula })
	return out
}

// Living returns the members with no recorded death.
func (f *Family) Living() []*person.Person {
	var out []*person.Person
	for _, p := range f.Members() {
		if p.Alive() {
			out = append(out, p)
		}
	}
	return out
}

// Deceased returns the members with a recorded death.
func (f *Family) Deceased() []*person.Person {
	var out []*person.Person
	for _, p := range f.Members() {
		if !p.Alive() {
			out = append(out, p)
		}
	}
	return out
}

// Now returns the reference date for age arithmetic: December 31st of the
// simulation year when the clock is set, the civil date otherwise.
func (f *Family) Now() time.Time {
	if f.CurrentYear > 0 {
		return time.Date(f.CurrentYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return time.Now().UTC()
}

// Remove deletes a person that has no spouse and no children, clearing
// every inbound pointer first. Returns ErrHasRelations otherwise.
func (f *Family) Remove(cedula string) error {
	p, ok := f.members[cedula]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPerson, cedula)
	}
	if p.Spouse != nil || len(p.Children) > 0 {
		return fmt.Errorf("%w: %s", ErrHasRelations, cedula)
	}
	if p.Father != nil {
		delete(p.Father.Children, cedula)
	}
	if p.Mother != nil {
		delete(p.Mother.Children, cedula)
	}
	for _, s := range p.Siblings {
		delete(s.Siblings, cedula)
	}
	p.Father, p.Mother = nil, nil
	p.Siblings = make(map[string]*person.Person)
	delete(f.members, cedula)
	return nil
}
