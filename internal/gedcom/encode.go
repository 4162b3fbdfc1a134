package gedcom

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/avargascr/linaje/internal/family"
	"github.com/avargascr/linaje/internal/person"
)

// Source tag written in the header.
const sourceTag = "LINAJE"

// famUnit is one FAM record to emit: a parent pair (either side may be
// absent) with its children, keyed for deterministic ordering.
type famUnit struct {
	id       string // assigned after sorting: F1, F2, ...
	husband  string
	wife     string
	children []string
}

func (u *famUnit) key() string {
	return u.husband + "\x00" + u.wife
}

// Encode writes the family in the text format. Output is deterministic:
// INDI records in ascending cedula order, FAM records ordered by their
// (husband, wife) pair, CHIL lines in ascending child cedula order.
func Encode(w io.Writer, f *family.Family) error {
	units := collectUnits(f)

	byParent := make(map[string][]*famUnit) // cedula to its units as husband or wife
	byChild := make(map[string]*famUnit)
	for _, u := range units {
		if u.husband != "" {
			byParent[u.husband] = append(byParent[u.husband], u)
		}
		if u.wife != "" {
			byParent[u.wife] = append(byParent[u.wife], u)
		}
		for _, c := range u.children {
			byChild[c] = u
		}
	}

	b := &errWriter{w: w}
	b.line("0 HEAD")
	b.line("1 SOUR " + sourceTag)
	b.line("1 CHAR UTF-8")

	for _, p := range f.Members() {
		b.line("0 @" + p.Cedula + "@ INDI")
		b.line("1 NAME " + cleanName(p.FirstName) + " /" + cleanName(p.LastName) + "/")
		switch p.Gender {
		case person.GenderMale:
			b.line("1 SEX M")
		case person.GenderFemale:
			b.line("1 SEX F")
		}
		if !p.BirthDate.IsZero() {
			b.line("1 BIRT")
			b.line("2 DATE " + p.BirthDate.Format(person.DateLayout))
		}
		if p.DeathDate != nil {
			b.line("1 DEAT")
			b.line("2 DATE " + p.DeathDate.Format(person.DateLayout))
		}
		if u := byChild[p.Cedula]; u != nil {
			b.line("1 FAMC @" + u.id + "@")
		}
		for _, u := range byParent[p.Cedula] {
			b.line("1 FAMS @" + u.id + "@")
		}
	}

	for _, u := range units {
		b.line("0 @" + u.id + "@ FAM")
		if u.husband != "" {
			b.line("1 HUSB @" + u.husband + "@")
		}
		if u.wife != "" {
			b.line("1 WIFE @" + u.wife + "@")
		}
		for _, c := range u.children {
			b.line("1 CHIL @" + c + "@")
		}
	}

	b.line("0 TRLR")
	if b.err != nil {
		return fmt.Errorf("gedcom: write: %w", b.err)
	}
	return nil
}

// cleanName strips the surname delimiter and flattens control characters
// so a name can never corrupt the line it is written into.
func cleanName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/':
			return -1
		case r < 0x20:
			return ' '
		}
		return r
	}, s)
}

// collectUnits builds one famUnit per (father, mother) pair that has a
// marriage or a child, sorted by parent pair, with F-ids assigned in that
// order.
func collectUnits(f *family.Family) []*famUnit {
	byKey := make(map[string]*famUnit)
	get := func(husband, wife string) *famUnit {
		k := husband + "\x00" + wife
		u, ok := byKey[k]
		if !ok {
			u = &famUnit{husband: husband, wife: wife}
			byKey[k] = u
		}
		return u
	}

	for _, p := range f.Members() {
		if s := p.Spouse; s != nil && s.Spouse == p && p.Gender == person.GenderMale {
			get(p.Cedula, s.Cedula)
		}
		if p.Father != nil || p.Mother != nil {
			var fc, mc string
			if p.Father != nil {
				fc = p.Father.Cedula
			}
			if p.Mother != nil {
				mc = p.Mother.Cedula
			}
			u := get(fc, mc)
			u.children = append(u.children, p.Cedula)
		}
	}

	units := make([]*famUnit, 0, len(byKey))
	for _, u := range byKey {
		sort.Strings(u.children)
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].key() < units[j].key() })
	for i, u := range units {
		u.id = fmt.Sprintf("F%d", i+1)
	}
	return units
}

type errWriter struct {
	w   io.Writer
	err error
}

func (b *errWriter) line(s string) {
	if b.err != nil {
		return
	}
	_, b.err = io.WriteString(b.w, s+"\n")
}
