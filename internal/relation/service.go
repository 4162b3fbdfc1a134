// Package relation implements the validated mutators for the kinship
// graph. They are the only legal path to touch relation pointers: every
// spouse, parent, child, and sibling edge is set and cleared here, keeping
// the symmetry invariants intact.
package relation

import (
	"errors"
	"fmt"
	"time"

	"github.com/avargascr/linaje/internal/family"
	"github.com/avargascr/linaje/internal/person"
)

// Mode selects how strictly RegisterSpouse screens a pairing.
type Mode int

const (
	// Manual accepts any pairing that satisfies the structural
	// preconditions, regardless of age or interests.
	Manual Mode = iota
	// Simulated additionally requires adult age, a bounded age gap,
	// shared interests, and a minimum compatibility score.
	Simulated
)

// Simulated-mode thresholds.
const (
	minMarriageAge  = 18
	maxAgeGap       = 15
	minSharedTastes = 2
	minCompat       = 70.0
)

// ErrUnknownPerson mirrors family.ErrUnknownPerson for callers that only
// import this package.
var ErrUnknownPerson = family.ErrUnknownPerson

// ErrGenderMismatch is returned when a parent's gender does not fit its
// role.
var ErrGenderMismatch = errors.New("gender does not match role")

// RefusedError reports a mutator precondition failure with its reason.
type RefusedError struct {
	Reason string
}

func (e *RefusedError) Error() string {
	return "relationship refused: " + e.Reason
}

func refuse(format string, args ...any) error {
	return &RefusedError{Reason: fmt.Sprintf(format, args...)}
}

// RegisterSpouse links a and b as spouses. Both must exist, differ, have
// opposite genders, and have no current live spouse other than each
// other. In Simulated mode the pairing must also pass the compatibility
// screen. On success both spouse pointers are set, marital statuses
// follow vitality (Casado/a, or Viudo/a against a deceased partner), and
// matched history entries are recorded.
func RegisterSpouse(f *family.Family, aCedula, bCedula string, mode Mode) error {
	a := f.Get(aCedula)
	if a == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPerson, aCedula)
	}
	b := f.Get(bCedula)
	if b == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPerson, bCedula)
	}
	if a == b {
		return refuse("%s cannot marry themselves", aCedula)
	}
	if a.Gender == b.Gender {
		return refuse("%s and %s have the same gender", aCedula, bCedula)
	}
	// A spouse pointer already aimed at the other partner is not bigamy:
	// re-registering the pair repairs a one-sided link.
	if s := a.Spouse; s != nil && s != b && s.Alive() {
		return refuse("%s already has a living spouse", aCedula)
	}
	if s := b.Spouse; s != nil && s != a && s.Alive() {
		return refuse("%s already has a living spouse", bCedula)
	}

	if mode == Simulated {
		now := f.Now()
		if a.AgeAt(now) < minMarriageAge || b.AgeAt(now) < minMarriageAge {
			return refuse("both partners must be at least %d", minMarriageAge)
		}
		if gap := ageGap(a, b, now); gap > maxAgeGap {
			return refuse("age gap %d exceeds %d years", gap, maxAgeGap)
		}
		if n := a.SharedInterests(b); n < minSharedTastes {
			return refuse("only %d shared interests, need %d", n, minSharedTastes)
		}
		if score := Compatibility(a, b, now); score < minCompat {
			return refuse("compatibility %.0f below %.0f", score, minCompat)
		}
	}

	// A widowed partner remarrying: unlink the deceased spouse so the
	// symmetry invariant keeps holding.
	for _, p := range []*person.Person{a, b} {
		if prev := p.Spouse; prev != nil && prev.Spouse == p {
			prev.Spouse = nil
		}
	}

	a.Spouse = b
	b.Spouse = a
	// Historical records may marry a person to a deceased partner; the
	// status must track vitality, not the act of registering.
	for _, p := range []*person.Person{a, b} {
		switch {
		case !p.Alive():
			p.MaritalStatus = person.StatusDeceased
		case p.Spouse.Alive():
			p.MaritalStatus = person.StatusMarried
		default:
			p.MaritalStatus = person.StatusWidowed
		}
	}
	when := f.Now()
	a.Record(when, "Se casó con "+b.FullName())
	b.Record(when, "Se casó con "+a.FullName())
	return nil
}

// RegisterParents binds a child to its father and/or mother. At least one
// parent is required; the father must be Masculino and the mother
// Femenino. The child joins each parent's child set (idempotently) and the
// child's sibling set is recomputed as the union of the parents' children,
// reciprocally.
func RegisterParents(f *family.Family, childCedula, fatherCedula, motherCedula string) error {
	child := f.Get(childCedula)
	if child == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPerson, childCedula)
	}
	if fatherCedula == "" && motherCedula == "" {
		return refuse("at least one parent is required")
	}

	var father, mother *person.Person
	if fatherCedula != "" {
		father = f.Get(fatherCedula)
		if father == nil {
			return fmt.Errorf("%w: %s", ErrUnknownPerson, fatherCedula)
		}
		if father.Gender != person.GenderMale {
			return fmt.Errorf("%w: father %s is not %s", ErrGenderMismatch, fatherCedula, person.GenderMale)
		}
	}
	if motherCedula != "" {
		mother = f.Get(motherCedula)
		if mother == nil {
			return fmt.Errorf("%w: %s", ErrUnknownPerson, motherCedula)
		}
		if mother.Gender != person.GenderFemale {
			return fmt.Errorf("%w: mother %s is not %s", ErrGenderMismatch, motherCedula, person.GenderFemale)
		}
	}

	if father == child || mother == child {
		return refuse("%s cannot be their own parent", childCedula)
	}

	// Reassigning a parent slot detaches from the previous parent first,
	// so the old parent's child set never keeps a stale entry.
	if father != nil && child.Father != nil && child.Father != father {
		detach(child, child.Father)
	}
	if mother != nil && child.Mother != nil && child.Mother != mother {
		detach(child, child.Mother)
	}

	if father != nil {
		child.Father = father
		father.Children[child.Cedula] = child
	}
	if mother != nil {
		child.Mother = mother
		mother.Children[child.Cedula] = child
	}

	recomputeSiblings(child)
	return nil
}

// detach removes the child from one parent's child set, clears the
// matching parent pointer, and purges the child's sibling links on both
// sides. Callers rebuild siblings from whatever parents remain.
func detach(child, parent *person.Person) {
	delete(parent.Children, child.Cedula)
	if child.Father == parent {
		child.Father = nil
	}
	if child.Mother == parent {
		child.Mother = nil
	}
	for ced, sib := range child.Siblings {
		delete(child.Siblings, ced)
		delete(sib.Siblings, child.Cedula)
	}
}

// recomputeSiblings rebuilds the child's sibling set as the union of its
// parents' children minus itself, and adds the child to each sibling's set.
func recomputeSiblings(child *person.Person) {
	for _, parent := range []*person.Person{child.Father, child.Mother} {
		if parent == nil {
			continue
		}
		for ced, sib := range parent.Children {
			if ced == child.Cedula {
				continue
			}
			child.Siblings[ced] = sib
			sib.Siblings[child.Cedula] = child
		}
	}
}

// DissolveSpouse breaks the spousal link of the given person. When the
// counterpart has died the survivor becomes Viudo/a; otherwise both return
// to Soltero/a.
func DissolveSpouse(f *family.Family, cedula string) error {
	p := f.Get(cedula)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPerson, cedula)
	}
	s := p.Spouse
	if s == nil {
		return refuse("%s has no spouse", cedula)
	}
	p.Spouse = nil
	if s.Spouse == p {
		s.Spouse = nil
	}

	when := f.Now()
	if !s.Alive() {
		if p.Alive() {
			p.MaritalStatus = person.StatusWidowed
		}
		p.Record(when, "Enviudó de "+s.FullName())
		return nil
	}
	if p.Alive() {
		p.MaritalStatus = person.StatusSingle
	}
	if s.Alive() {
		s.MaritalStatus = person.StatusSingle
		s.Record(when, "Se separó de "+p.FullName())
	}
	p.Record(when, "Se separó de "+s.FullName())
	return nil
}

// RemoveChild detaches the child from the given parent: the parent's child
// set and the child's matching parent pointer are cleared, and siblings
// through that parent are recomputed on both sides.
func RemoveChild(f *family.Family, parentCedula, childCedula string) error {
	parent := f.Get(parentCedula)
	if parent == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPerson, parentCedula)
	}
	child := f.Get(childCedula)
	if child == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPerson, childCedula)
	}
	if _, ok := parent.Children[childCedula]; !ok {
		return refuse("%s is not a child of %s", childCedula, parentCedula)
	}

	// Siblings related only through the removed parent fall away; the
	// rest rebuild from the remaining parent.
	detach(child, parent)
	recomputeSiblings(child)
	return nil
}

// RecordDeath marks a person dead on the given date: sets the death date
// and Fallecido/a, logs the event, and turns a living spouse into Viudo/a.
func RecordDeath(f *family.Family, cedula string, date time.Time) error {
	p := f.Get(cedula)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPerson, cedula)
	}
	if !p.Alive() {
		return refuse("%s is already deceased", cedula)
	}
	if !date.After(p.BirthDate) {
		return fmt.Errorf("%w: %s", person.ErrDeathBeforeBirth, cedula)
	}
	d := date
	p.DeathDate = &d
	p.MaritalStatus = person.StatusDeceased
	p.Record(date, "Falleció el "+date.Format(person.DateLayout))
	if s := p.Spouse; s != nil && s.Alive() {
		s.MaritalStatus = person.StatusWidowed
		s.Record(date, "Enviudó de "+p.FullName())
	}
	return nil
}

func ageGap(a, b *person.Person, now time.Time) int {
	gap := a.AgeAt(now) - b.AgeAt(now)
	if gap < 0 {
		gap = -gap
	}
	return gap
}
