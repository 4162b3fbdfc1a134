// Package persist snapshots a whole registry to a structured JSON
// document and restores it. Members are stored as flat records whose
// relation fields hold cedulas only; restoring rebuilds the pointer graph
// in a second pass, the same shape as the gedcom decoder. A snapshot
// archive backed by SQLite keeps prior documents around.
package persist

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/avargascr/linaje/internal/family"
	"github.com/avargascr/linaje/internal/person"
	"github.com/avargascr/linaje/internal/registry"
	"github.com/google/uuid"
)

// Document is the full snapshot: per-family records keyed by stringified
// ID plus the registry state.
type Document struct {
	Families     map[string]FamilyRecord `json:"families"`
	ManagerState ManagerState            `json:"manager_state"`
}

// ManagerState mirrors the registry bookkeeping.
type ManagerState struct {
	SnapshotID      string    `json:"snapshot_id"`
	NextID          int       `json:"next_id"`
	CurrentFamilyID int       `json:"current_family_id"`
	DeletedIDs      []int     `json:"deleted_ids"`
	SavedAt         time.Time `json:"saved_at"`
}

// FamilyRecord is one family flattened for storage.
type FamilyRecord struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	CurrentYear int            `json:"current_year,omitempty"`
	Members     []MemberRecord `json:"members"`
}

// MemberRecord is one person with relations reduced to cedulas.
type MemberRecord struct {
	Cedula          string   `json:"cedula"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	BirthDate       string   `json:"birth_date,omitempty"`
	DeathDate       string   `json:"death_date,omitempty"`
	Gender          string   `json:"gender"`
	Province        string   `json:"province,omitempty"`
	MaritalStatus   string   `json:"marital_status"`
	FatherCedula    string   `json:"father_cedula,omitempty"`
	MotherCedula    string   `json:"mother_cedula,omitempty"`
	SpouseCedula    string   `json:"spouse_cedula,omitempty"`
	Children        []string `json:"children,omitempty"`
	Siblings        []string `json:"siblings,omitempty"`
	Interests       []string `json:"interests,omitempty"`
	EmotionalHealth *float64 `json:"emotional_health,omitempty"`
}

// Snapshot flattens the registry into a Document. A family that fails to
// serialize is skipped and reported; the rest of the document is still
// produced.
func Snapshot(r *registry.Registry) (Document, []error) {
	doc := Document{
		Families: make(map[string]FamilyRecord, r.Len()),
		ManagerState: ManagerState{
			SnapshotID:      uuid.NewString(),
			NextID:          r.NextID(),
			CurrentFamilyID: r.CurrentID(),
			DeletedIDs:      r.DeletedIDs(),
			SavedAt:         time.Now().UTC(),
		},
	}
	var errs []error
	for _, f := range r.List() {
		rec, err := snapshotFamily(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("persist: family %d (%s): %w", f.ID, f.Name, err))
			continue
		}
		doc.Families[strconv.Itoa(f.ID)] = rec
	}
	return doc, errs
}

func snapshotFamily(f *family.Family) (FamilyRecord, error) {
	rec := FamilyRecord{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		CurrentYear: f.CurrentYear,
	}
	for _, p := range f.Members() {
		m := MemberRecord{
			Cedula:          p.Cedula,
			FirstName:       p.FirstName,
			LastName:        p.LastName,
			Gender:          p.Gender,
			Province:        p.Province,
			MaritalStatus:   p.MaritalStatus,
			Interests:       p.Interests,
			EmotionalHealth: p.EmotionalHealth,
		}
		if !p.BirthDate.IsZero() {
			m.BirthDate = p.BirthDate.Format(person.DateLayout)
		}
		if p.DeathDate != nil {
			m.DeathDate = p.DeathDate.Format(person.DateLayout)
		}
		if p.Father != nil {
			m.FatherCedula = p.Father.Cedula
		}
		if p.Mother != nil {
			m.MotherCedula = p.Mother.Cedula
		}
		if p.Spouse != nil {
			m.SpouseCedula = p.Spouse.Cedula
		}
		m.Children = sortedKeys(p.Children)
		m.Siblings = sortedKeys(p.Siblings)
		rec.Members = append(rec.Members, m)
	}
	return rec, nil
}

// Restore rebuilds a registry from a Document. Each family restores
// independently: a malformed record is skipped and reported while the
// rest load. Persons are created without pointers first; cedula
// references resolve in a second pass.
func Restore(doc Document) (*registry.Registry, []error) {
	var errs []error
	families := make([]*family.Family, 0, len(doc.Families))
	for key, rec := range doc.Families {
		f, err := restoreFamily(rec)
		if err != nil {
			errs = append(errs, fmt.Errorf("persist: family %s (%s): %w", key, rec.Name, err))
			continue
		}
		families = append(families, f)
	}
	r := registry.New()
	r.Restore(families, doc.ManagerState.CurrentFamilyID, doc.ManagerState.NextID, doc.ManagerState.DeletedIDs)
	return r, errs
}

func restoreFamily(rec FamilyRecord) (*family.Family, error) {
	f := family.New(rec.Name, family.WithDescription(rec.Description))
	f.ID = rec.ID
	f.CurrentYear = rec.CurrentYear

	// Pass 1: members without pointers.
	for _, m := range rec.Members {
		p, err := restoreMember(m)
		if err != nil {
			return nil, err
		}
		if err := f.Add(p); err != nil {
			return nil, err
		}
	}

	// Pass 2: resolve cedula references.
	for _, m := range rec.Members {
		p := f.Get(m.Cedula)
		if m.FatherCedula != "" {
			p.Father = f.Get(m.FatherCedula)
		}
		if m.MotherCedula != "" {
			p.Mother = f.Get(m.MotherCedula)
		}
		if m.SpouseCedula != "" {
			p.Spouse = f.Get(m.SpouseCedula)
		}
		for _, c := range m.Children {
			if q := f.Get(c); q != nil {
				p.Children[c] = q
			}
		}
		for _, s := range m.Siblings {
			if q := f.Get(s); q != nil {
				p.Siblings[s] = q
			}
		}
	}
	return f, nil
}

func restoreMember(m MemberRecord) (*person.Person, error) {
	if m.Cedula == "" {
		return nil, errors.New("member without cedula")
	}
	p := &person.Person{
		Cedula:          m.Cedula,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Gender:          m.Gender,
		Province:        m.Province,
		MaritalStatus:   m.MaritalStatus,
		Interests:       m.Interests,
		EmotionalHealth: m.EmotionalHealth,
		Children:        make(map[string]*person.Person),
		Siblings:        make(map[string]*person.Person),
	}
	if m.BirthDate != "" {
		d, err := time.Parse(person.DateLayout, m.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("member %s: birth date %q: %w", m.Cedula, m.BirthDate, err)
		}
		p.BirthDate = d
	}
	if m.DeathDate != "" {
		d, err := time.Parse(person.DateLayout, m.DeathDate)
		if err != nil {
			return nil, fmt.Errorf("member %s: death date %q: %w", m.Cedula, m.DeathDate, err)
		}
		p.DeathDate = &d
	}
	return p, nil
}

func sortedKeys(m map[string]*person.Person) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
