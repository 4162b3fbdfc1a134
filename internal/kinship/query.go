// Package kinship answers read-only relationship and aggregate queries
// over a family graph. Traversals are bounded by a visited set keyed by
// cedula: parenthood is acyclic, but shared ancestors would otherwise be
// revisited.
package kinship

import (
	"fmt"
	"sort"

	"github.com/avargascr/linaje/internal/family"
	"github.com/avargascr/linaje/internal/person"
)

// Relation labels. The fallback is returned when no relation within two
// parent hops exists.
const (
	LabelSamePerson = "Es la misma persona"
	LabelSpouses    = "Son cónyuges/pareja"
	LabelSiblings   = "Son hermanos"
	LabelCousins    = "Son primos"
	LabelNone       = "No se encontró relación familiar directa"
)

// Relation resolves the kinship between two members to a Spanish label.
// Checks run in precedence order and the first match wins: same person,
// spouses, parent/child, siblings, grandparent/grandchild, uncle/aunt,
// first cousins, fallback.
func Relation(f *family.Family, aCedula, bCedula string) (string, error) {
	a := f.Get(aCedula)
	if a == nil {
		return "", fmt.Errorf("%w: %s", family.ErrUnknownPerson, aCedula)
	}
	b := f.Get(bCedula)
	if b == nil {
		return "", fmt.Errorf("%w: %s", family.ErrUnknownPerson, bCedula)
	}

	switch {
	case a == b:
		return LabelSamePerson, nil
	case a.Spouse == b || b.Spouse == a:
		return LabelSpouses, nil
	case isParentOf(a, b):
		return parentLabel(a, b), nil
	case isParentOf(b, a):
		return parentLabel(b, a), nil
	case areSiblings(a, b):
		return LabelSiblings, nil
	case isGrandparentOf(a, b):
		return grandparentLabel(a, b), nil
	case isGrandparentOf(b, a):
		return grandparentLabel(b, a), nil
	case isUncleOf(a, b):
		return uncleLabel(a, b), nil
	case isUncleOf(b, a):
		return uncleLabel(b, a), nil
	case areFirstCousins(a, b):
		return LabelCousins, nil
	}
	return LabelNone, nil
}

func parentLabel(parent, child *person.Person) string {
	if parent.Gender == person.GenderFemale {
		return fmt.Sprintf("%s es la madre de %s", parent.FirstName, child.FirstName)
	}
	return fmt.Sprintf("%s es el padre de %s", parent.FirstName, child.FirstName)
}

func grandparentLabel(gp, gc *person.Person) string {
	role := "abuelo"
	if gp.Gender == person.GenderFemale {
		role = "abuela"
	}
	return fmt.Sprintf("%s es %s de %s", gp.FirstName, role, gc.FirstName)
}

func uncleLabel(uncle, kid *person.Person) string {
	role := "tío"
	if uncle.Gender == person.GenderFemale {
		role = "tía"
	}
	return fmt.Sprintf("%s es %s de %s", uncle.FirstName, role, kid.FirstName)
}

func isParentOf(p, c *person.Person) bool {
	return c.Father == p || c.Mother == p
}

// areSiblings holds when the two share at least one parent.
func areSiblings(a, b *person.Person) bool {
	if a.Father != nil && a.Father == b.Father {
		return true
	}
	if a.Mother != nil && a.Mother == b.Mother {
		return true
	}
	return false
}

func parentsOf(p *person.Person) []*person.Person {
	var out []*person.Person
	if p.Father != nil {
		out = append(out, p.Father)
	}
	if p.Mother != nil {
		out = append(out, p.Mother)
	}
	return out
}

func isGrandparentOf(gp, gc *person.Person) bool {
	for _, parent := range parentsOf(gc) {
		if isParentOf(gp, parent) {
			return true
		}
	}
	return false
}

// isUncleOf holds when u is a sibling of one of kid's parents.
func isUncleOf(u, kid *person.Person) bool {
	for _, parent := range parentsOf(kid) {
		if areSiblings(u, parent) {
			return true
		}
	}
	return false
}

// areFirstCousins holds when the two share at least one grandparent
// without being siblings.
func areFirstCousins(a, b *person.Person) bool {
	seen := make(map[string]bool)
	for _, parent := range parentsOf(a) {
		for _, gp := range parentsOf(parent) {
			seen[gp.Cedula] = true
		}
	}
	for _, parent := range parentsOf(b) {
		for _, gp := range parentsOf(parent) {
			if seen[gp.Cedula] {
				return true
			}
		}
	}
	return false
}

// FirstCousins returns the children of the ego's parents' siblings,
// deduplicated by cedula and excluding the ego, in ascending cedula order.
func FirstCousins(f *family.Family, cedula string) ([]*person.Person, error) {
	ego := f.Get(cedula)
	if ego == nil {
		return nil, fmt.Errorf("%w: %s", family.ErrUnknownPerson, cedula)
	}
	found := make(map[string]*person.Person)
	for _, parent := range parentsOf(ego) {
		for _, uncle := range parent.Siblings {
			for ced, cousin := range uncle.Children {
				if ced != ego.Cedula {
					found[ced] = cousin
				}
			}
		}
	}
	return sorted(found), nil
}

// MaternalAncestors returns the chain ego.mother, ego.mother.mother, ...
// up to the first missing mother. Each person appears at most once even if
// the imported graph loops.
func MaternalAncestors(f *family.Family, cedula string) ([]*person.Person, error) {
	ego := f.Get(cedula)
	if ego == nil {
		return nil, fmt.Errorf("%w: %s", family.ErrUnknownPerson, cedula)
	}
	var chain []*person.Person
	visited := map[string]bool{ego.Cedula: true}
	for m := ego.Mother; m != nil && !visited[m.Cedula]; m = m.Mother {
		visited[m.Cedula] = true
		chain = append(chain, m)
	}
	return chain, nil
}

// LivingDescendants collects every living person reachable from the ego
// through children pointers, depth first, with no duplicates. The ego
// itself is not included.
func LivingDescendants(f *family.Family, cedula string) ([]*person.Person, error) {
	ego := f.Get(cedula)
	if ego == nil {
		return nil, fmt.Errorf("%w: %s", family.ErrUnknownPerson, cedula)
	}
	found := make(map[string]*person.Person)
	visited := map[string]bool{ego.Cedula: true}
	var walk func(p *person.Person)
	walk = func(p *person.Person) {
		for ced, c := range p.Children {
			if visited[ced] {
				continue
			}
			visited[ced] = true
			walk(c)
			if c.Alive() {
				found[ced] = c
			}
		}
	}
	walk(ego)
	return sorted(found), nil
}

// BirthsInLastYears counts members born within the last n years of the
// family clock.
func BirthsInLastYears(f *family.Family, n int) int {
	now := f.Now()
	cutoff := now.AddDate(-n, 0, 0)
	count := 0
	for _, p := range f.Members() {
		if !p.BirthDate.Before(cutoff) && !p.BirthDate.After(now) {
			count++
		}
	}
	return count
}

// Couple is a spousal pair with their shared children count. Key is the
// smaller of the two cedulas.
type Couple struct {
	A, B     *person.Person
	Children int
}

// CouplesWithMinChildren returns each spousal pair with at least k shared
// children, emitted once per pair and ordered by the smaller cedula.
func CouplesWithMinChildren(f *family.Family, k int) []Couple {
	var out []Couple
	for _, p := range f.Members() {
		s := p.Spouse
		if s == nil || s.Spouse != p || p.Cedula >= s.Cedula {
			continue
		}
		shared := 0
		for ced := range p.Children {
			if _, ok := s.Children[ced]; ok {
				shared++
			}
		}
		if shared >= k {
			out = append(out, Couple{A: p, B: s, Children: shared})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].A.Cedula < out[j].A.Cedula })
	return out
}

// DeceasedBeforeAge counts members who died before reaching cutoff
// complete years.
func DeceasedBeforeAge(f *family.Family, cutoff int) int {
	count := 0
	for _, p := range f.Members() {
		if age := p.AgeAtDeath(); age >= 0 && age < cutoff {
			count++
		}
	}
	return count
}

func sorted(m map[string]*person.Person) []*person.Person {
	out := make([]*person.Person, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cedula < out[j].Cedula })
	return out
}
