package relation

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/avargascr/linaje/internal/family"
	"github.com/avargascr/linaje/internal/person"
)

// TestMutators_RandomSequences drives the mutators with a long seeded
// stream of calls, valid and invalid alike, and audits the family after
// every single one. A refused call must leave the graph untouched; an
// accepted call must leave every relation symmetric and every status
// consistent.
func TestMutators_RandomSequences(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(424242))
	f := family.New("Mora")
	f.CurrentYear = 2026

	var ceds []string
	for i := 0; i < 14; i++ {
		gender := person.GenderMale
		if i%2 == 1 {
			gender = person.GenderFemale
		}
		ced := fmt.Sprintf("10101%04d", i)
		birth := fmt.Sprintf("%d-0%d-15", 1900+i*6, i%9+1)
		p := addPerson(t, f, ced, gender, birth)
		if i%3 == 0 {
			p.Interests = []string{"ajedrez", "lectura"}
		}
		ceds = append(ceds, ced)
	}

	pick := func() string { return ceds[rng.Intn(len(ceds))] }
	maybe := func() string {
		if rng.Intn(5) == 0 {
			return ""
		}
		return pick()
	}

	for i := 0; i < 500; i++ {
		var op string
		switch rng.Intn(5) {
		case 0:
			a, b := pick(), pick()
			mode := Manual
			if rng.Intn(4) == 0 {
				mode = Simulated
			}
			op = fmt.Sprintf("RegisterSpouse(%s, %s)", a, b)
			_ = RegisterSpouse(f, a, b, mode)
		case 1:
			c, fa, mo := pick(), maybe(), maybe()
			op = fmt.Sprintf("RegisterParents(%s, %s, %s)", c, fa, mo)
			_ = RegisterParents(f, c, fa, mo)
		case 2:
			c := pick()
			op = "DissolveSpouse(" + c + ")"
			_ = DissolveSpouse(f, c)
		case 3:
			pa, c := pick(), pick()
			op = fmt.Sprintf("RemoveChild(%s, %s)", pa, c)
			_ = RemoveChild(f, pa, c)
		case 4:
			c := pick()
			p := f.Get(c)
			date := p.BirthDate.AddDate(1+rng.Intn(80), rng.Intn(12), rng.Intn(28))
			op = "RecordDeath(" + c + ")"
			_ = RecordDeath(f, c, date)
		}
		if v := f.VerifyIntegrity(); len(v) != 0 {
			t.Fatalf("call %d %s left violations: %v", i, op, v)
		}
	}
}

func TestRegisterSpouse_DeceasedPartnerStatus(t *testing.T) {
	t.Parallel()
	f := family.New("Mora")
	a := addPerson(t, f, "101110111", person.GenderMale, "1950-01-01")
	b := addPerson(t, f, "202220222", person.GenderFemale, "1952-05-15")
	if err := RecordDeath(f, b.Cedula, mustDate(t, "2000-06-01")); err != nil {
		t.Fatalf("RecordDeath: %v", err)
	}

	// A historical marriage against a deceased partner.
	if err := RegisterSpouse(f, a.Cedula, b.Cedula, Manual); err != nil {
		t.Fatalf("RegisterSpouse: %v", err)
	}
	if a.Spouse != b || b.Spouse != a {
		t.Error("spouse pointers not symmetric")
	}
	if a.MaritalStatus != person.StatusWidowed {
		t.Errorf("survivor status = %q, want %q", a.MaritalStatus, person.StatusWidowed)
	}
	if b.MaritalStatus != person.StatusDeceased {
		t.Errorf("deceased status = %q, want %q", b.MaritalStatus, person.StatusDeceased)
	}
	if v := f.VerifyIntegrity(); len(v) != 0 {
		t.Errorf("violations: %v", v)
	}
}

func TestRegisterParents_ReassignDetachesOldParent(t *testing.T) {
	t.Parallel()
	f := family.New("Mora")
	oldF := addPerson(t, f, "101110111", person.GenderMale, "1950-01-01")
	newF := addPerson(t, f, "303330333", person.GenderMale, "1948-02-02")
	mo := addPerson(t, f, "202220222", person.GenderFemale, "1952-05-15")
	child := addPerson(t, f, "404440444", person.GenderMale, "1975-06-20")
	sib := addPerson(t, f, "505550555", person.GenderFemale, "1977-08-08")

	if err := RegisterParents(f, child.Cedula, oldF.Cedula, mo.Cedula); err != nil {
		t.Fatalf("RegisterParents: %v", err)
	}
	if err := RegisterParents(f, sib.Cedula, oldF.Cedula, ""); err != nil {
		t.Fatalf("RegisterParents: %v", err)
	}

	if err := RegisterParents(f, child.Cedula, newF.Cedula, ""); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if child.Father != newF || child.Mother != mo {
		t.Error("reassign did not keep the untouched mother slot")
	}
	if _, ok := oldF.Children[child.Cedula]; ok {
		t.Error("old father still lists the reassigned child")
	}
	if _, ok := sib.Siblings[child.Cedula]; ok {
		t.Error("half-sibling link through the old father survived the reassign")
	}
	if v := f.VerifyIntegrity(); len(v) != 0 {
		t.Errorf("violations after reassign: %v", v)
	}
}

func TestRegisterParents_SelfParent(t *testing.T) {
	t.Parallel()
	f := family.New("Mora")
	p := addPerson(t, f, "101110111", person.GenderMale, "1950-01-01")
	var refused *RefusedError
	err := RegisterParents(f, p.Cedula, p.Cedula, "")
	if !errors.As(err, &refused) {
		t.Errorf("error = %v, want RefusedError", err)
	}
	if p.Father != nil {
		t.Error("self-parent pointer was set")
	}
}
