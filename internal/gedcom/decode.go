package gedcom

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/avargascr/linaje/internal/family"
	"github.com/avargascr/linaje/internal/person"
	"github.com/avargascr/linaje/internal/relation"
)

// famRecord accumulates one FAM record during pass 1.
type famRecord struct {
	line     int
	husband  string
	wife     string
	children []string
}

// Decode reads the text format and rebuilds a family named name. It is
// best-effort: malformed lines, dangling references, and refused
// relations are reported as CodecErrors in the warning trail while the
// rest of the input is applied. Only a read failure aborts.
//
// Pass 1 creates a Person for every INDI the moment its level-0 line is
// seen, using the XREF as cedula, with relation pointers left empty.
// Pass 2 replays FAM records through the relation mutators, then
// normalizes any spouse asymmetry the input carried.
func Decode(r io.Reader, name string) (*family.Family, []*CodecError, error) {
	f := family.New(name)
	var warns []*CodecError

	var fams []*famRecord
	var curPerson *person.Person
	var curFam *famRecord
	var pendingDate string // "BIRT" or "DEAT" awaiting its DATE line

	sc := bufio.NewScanner(r)
	num := 0
	for sc.Scan() {
		num++
		raw := sc.Text()
		if raw == "" {
			continue
		}
		l, cerr := parseLine(num, raw)
		if cerr != nil {
			warns = append(warns, cerr)
			continue
		}

		if l.level == 0 {
			curPerson, curFam, pendingDate = nil, nil, ""
			if id, ok := l.xref(); ok {
				switch l.value {
				case "INDI":
					if existing := f.Get(id); existing != nil {
						// Duplicate xref: later lines refine the stored
						// record rather than blanking it.
						warns = append(warns, &CodecError{l.num, KindBadXref, "duplicate @" + id + "@"})
						curPerson = existing
						break
					}
					curPerson = newBlankPerson(id)
					if err := f.Add(curPerson); err != nil {
						warns = append(warns, &CodecError{l.num, KindBadXref, err.Error()})
					}
				case "FAM":
					curFam = &famRecord{line: l.num}
					fams = append(fams, curFam)
				}
			}
			continue
		}

		switch {
		case curPerson != nil:
			warns = applyIndiLine(curPerson, l, &pendingDate, warns)
		case curFam != nil:
			warns = applyFamLine(curFam, l, warns)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, warns, fmt.Errorf("gedcom: read: %w", err)
	}

	warns = applyFamRecords(f, fams, warns)
	normalize(f)
	return f, warns, nil
}

func newBlankPerson(cedula string) *person.Person {
	return &person.Person{
		Cedula:        cedula,
		MaritalStatus: person.StatusSingle,
		Children:      make(map[string]*person.Person),
		Siblings:      make(map[string]*person.Person),
	}
}

func applyIndiLine(p *person.Person, l line, pendingDate *string, warns []*CodecError) []*CodecError {
	if l.level == 2 && l.tag == "DATE" {
		d, err := time.Parse(person.DateLayout, l.value)
		if err != nil {
			*pendingDate = ""
			return append(warns, &CodecError{l.num, KindBadDate, l.value})
		}
		switch *pendingDate {
		case "BIRT":
			p.BirthDate = d
		case "DEAT":
			p.DeathDate = &d
		}
		*pendingDate = ""
		return warns
	}
	if l.level != 1 {
		return warns
	}
	*pendingDate = ""
	switch l.tag {
	case "NAME":
		p.FirstName, p.LastName = splitName(l.value)
	case "SEX":
		switch l.value {
		case "M":
			p.Gender = person.GenderMale
		case "F":
			p.Gender = person.GenderFemale
		default:
			warns = append(warns, &CodecError{l.num, KindBadTag, "SEX " + l.value})
		}
	case "BIRT", "DEAT":
		*pendingDate = l.tag
	case "FAMC", "FAMS":
		// Family links are rebuilt from the FAM records themselves.
		if _, ok := stripXref(l.value); !ok {
			warns = append(warns, &CodecError{l.num, KindBadXref, l.value})
		}
	}
	return warns
}

func applyFamLine(fr *famRecord, l line, warns []*CodecError) []*CodecError {
	if l.level != 1 {
		return warns
	}
	id, ok := stripXref(l.value)
	if !ok {
		return append(warns, &CodecError{l.num, KindBadXref, l.value})
	}
	switch l.tag {
	case "HUSB":
		fr.husband = id
	case "WIFE":
		fr.wife = id
	case "CHIL":
		fr.children = append(fr.children, id)
	}
	return warns
}

// applyFamRecords is pass 2: spouse links first, then every child against
// whichever parents the record names and the family actually contains.
func applyFamRecords(f *family.Family, fams []*famRecord, warns []*CodecError) []*CodecError {
	for _, fr := range fams {
		husb := fr.husband
		if husb != "" && f.Get(husb) == nil {
			warns = append(warns, &CodecError{fr.line, KindOrphan, "HUSB @" + husb + "@"})
			husb = ""
		}
		wife := fr.wife
		if wife != "" && f.Get(wife) == nil {
			warns = append(warns, &CodecError{fr.line, KindOrphan, "WIFE @" + wife + "@"})
			wife = ""
		}

		if husb != "" && wife != "" {
			if err := relation.RegisterSpouse(f, husb, wife, relation.Manual); err != nil {
				var refused *relation.RefusedError
				if errors.As(err, &refused) {
					warns = append(warns, &CodecError{fr.line, KindRefused, refused.Reason})
				} else {
					warns = append(warns, &CodecError{fr.line, KindRefused, err.Error()})
				}
			}
		}

		for _, child := range fr.children {
			if f.Get(child) == nil {
				warns = append(warns, &CodecError{fr.line, KindOrphan, "CHIL @" + child + "@"})
				continue
			}
			if err := registerParentsTolerant(f, child, husb, wife); err != nil {
				warns = append(warns, &CodecError{fr.line, KindRefused, err.Error()})
			}
		}
	}
	return warns
}

// registerParentsTolerant registers the child against both parents, and
// when a parent's gender does not fit its slot falls back to the other
// parent alone rather than dropping the whole link.
func registerParentsTolerant(f *family.Family, child, husb, wife string) error {
	err := relation.RegisterParents(f, child, husb, wife)
	if err == nil || !errors.Is(err, relation.ErrGenderMismatch) || husb == "" || wife == "" {
		return err
	}
	if mErr := relation.RegisterParents(f, child, "", wife); mErr == nil {
		return err
	}
	if fErr := relation.RegisterParents(f, child, husb, ""); fErr == nil {
		return err
	}
	return err
}

// normalize repairs pairwise spouse asymmetry and recomputes marital
// status after an import, so that a sloppy input still yields a family
// that passes VerifyIntegrity.
func normalize(f *family.Family) {
	for _, p := range f.Members() {
		s := p.Spouse
		if s == nil {
			continue
		}
		if s.Spouse == nil {
			s.Spouse = p
		}
		for _, q := range []*person.Person{p, s} {
			switch {
			case !q.Alive():
				q.MaritalStatus = person.StatusDeceased
			case q.Spouse.Alive():
				q.MaritalStatus = person.StatusMarried
			default:
				q.MaritalStatus = person.StatusWidowed
			}
		}
	}
}
