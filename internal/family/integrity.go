package family

import (
	"fmt"

	"github.com/avargascr/linaje/internal/person"
)

// Invariant identifiers reported by VerifyIntegrity.
const (
	InvCedulaUnique    = "I1" // cedula uniqueness within the family
	InvSpouseSymmetry  = "I2" // a.spouse = b implies b.spouse = a
	InvParentChild     = "I3" // parent pointer implies child-set membership
	InvSiblingSymmetry = "I4" // sibling sets are symmetric
	InvParentGender    = "I5" // father Masculino, mother Femenino
	InvSpouseRules     = "I6" // no self-spouse, no same-gender spouse
	InvMaritalStatus   = "I7" // living spouse Casado/a, widowed Viudo/a
	InvVitalOrder      = "I8" // death strictly after birth
)

// Violation describes one failed invariant for diagnostics.
type Violation struct {
	Invariant string
	Cedula    string
	Detail    string
}

func (v Violation) Error() string {
	return fmt.Sprintf("integrity violation %s (%s): %s", v.Invariant, v.Cedula, v.Detail)
}

// VerifyIntegrity audits every member against the relation invariants and
// returns all violations found. An empty slice means the graph is
// consistent. The map keying makes I1 structurally impossible to break,
// but the check is kept for imports that bypass Add.
func (f *Family) VerifyIntegrity() []Violation {
	var out []Violation
	for cedula, p := range f.members {
		if p.Cedula != cedula {
			out = append(out, Violation{InvCedulaUnique, cedula,
				fmt.Sprintf("stored under %s but carries cedula %s", cedula, p.Cedula)})
		}
		out = append(out, f.checkSpouse(p)...)
		out = append(out, f.checkParents(p)...)
		out = append(out, f.checkSiblings(p)...)
		if p.DeathDate != nil && !p.DeathDate.After(p.BirthDate) {
			out = append(out, Violation{InvVitalOrder, p.Cedula, "death date not after birth date"})
		}
	}
	return out
}

func (f *Family) checkSpouse(p *person.Person) []Violation {
	var out []Violation
	s := p.Spouse
	if s == nil {
		return nil
	}
	if s == p {
		out = append(out, Violation{InvSpouseRules, p.Cedula, "self-spouse"})
	}
	if s.Gender == p.Gender {
		out = append(out, Violation{InvSpouseRules, p.Cedula, "same-gender spouse"})
	}
	if s.Spouse != p {
		out = append(out, Violation{InvSpouseSymmetry, p.Cedula,
			fmt.Sprintf("spouse %s does not point back", s.Cedula)})
	}
	if p.Alive() {
		want := person.StatusMarried
		if !s.Alive() {
			want = person.StatusWidowed
		}
		if p.MaritalStatus != want {
			out = append(out, Violation{InvMaritalStatus, p.Cedula,
				fmt.Sprintf("status %s, want %s", p.MaritalStatus, want)})
		}
	}
	return out
}

func (f *Family) checkParents(p *person.Person) []Violation {
	var out []Violation
	if p.Father != nil {
		if p.Father.Gender != person.GenderMale {
			out = append(out, Violation{InvParentGender, p.Cedula, "father is not Masculino"})
		}
		if _, ok := p.Father.Children[p.Cedula]; !ok {
			out = append(out, Violation{InvParentChild, p.Cedula,
				fmt.Sprintf("father %s does not list child", p.Father.Cedula)})
		}
	}
	if p.Mother != nil {
		if p.Mother.Gender != person.GenderFemale {
			out = append(out, Violation{InvParentGender, p.Cedula, "mother is not Femenino"})
		}
		if _, ok := p.Mother.Children[p.Cedula]; !ok {
			out = append(out, Violation{InvParentChild, p.Cedula,
				fmt.Sprintf("mother %s does not list child", p.Mother.Cedula)})
		}
	}
	for _, c := range p.Children {
		if c.Father != p && c.Mother != p {
			out = append(out, Violation{InvParentChild, p.Cedula,
				fmt.Sprintf("child %s does not point back as parent", c.Cedula)})
		}
	}
	return out
}

func (f *Family) checkSiblings(p *person.Person) []Violation {
	var out []Violation
	for _, s := range p.Siblings {
		if _, ok := s.Siblings[p.Cedula]; !ok {
			out = append(out, Violation{InvSiblingSymmetry, p.Cedula,
				fmt.Sprintf("sibling %s does not point back", s.Cedula)})
		}
	}
	return out
}
