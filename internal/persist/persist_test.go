package persist

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/avargascr/linaje/internal/family"
	"github.com/avargascr/linaje/internal/person"
	"github.com/avargascr/linaje/internal/registry"
	"github.com/avargascr/linaje/internal/relation"
)

func buildRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	id := r.Create("Mora", family.WithDescription("familia de prueba"))
	f, err := r.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	f.CurrentYear = 2010

	specs := []struct {
		cedula, first, gender, birth string
	}{
		{"101010101", "Arturo", person.GenderMale, "1950-01-01"},
		{"202020202", "Berta", person.GenderFemale, "1952-05-15"},
		{"303030303", "César", person.GenderMale, "1975-06-20"},
	}
	for _, s := range specs {
		b, _ := time.Parse(person.DateLayout, s.birth)
		p := &person.Person{
			Cedula: s.cedula, FirstName: s.first, LastName: "Mora",
			BirthDate: b, Gender: s.gender, MaritalStatus: person.StatusSingle,
			Children: make(map[string]*person.Person),
			Siblings: make(map[string]*person.Person),
		}
		if err := f.Add(p); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := relation.RegisterSpouse(f, "101010101", "202020202", relation.Manual); err != nil {
		t.Fatalf("RegisterSpouse: %v", err)
	}
	if err := relation.RegisterParents(f, "303030303", "101010101", "202020202"); err != nil {
		t.Fatalf("RegisterParents: %v", err)
	}

	r.Create("Salas")
	return r
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	t.Parallel()
	r := buildRegistry(t)

	doc, errs := Snapshot(r)
	if len(errs) != 0 {
		t.Fatalf("Snapshot errors: %v", errs)
	}
	if doc.ManagerState.SnapshotID == "" {
		t.Error("snapshot has no ID")
	}
	if doc.ManagerState.NextID != 3 || doc.ManagerState.CurrentFamilyID != 1 {
		t.Errorf("manager state = %+v", doc.ManagerState)
	}

	restored, errs := Restore(doc)
	if len(errs) != 0 {
		t.Fatalf("Restore errors: %v", errs)
	}
	if restored.Len() != 2 || restored.CurrentID() != 1 {
		t.Fatalf("restored registry: %d families, current %d", restored.Len(), restored.CurrentID())
	}

	f, err := restored.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if f.CurrentYear != 2010 || f.Description != "familia de prueba" {
		t.Errorf("family metadata lost: %+v", f)
	}

	// Pointer graph resolved in the second pass.
	child := f.Get("303030303")
	if child.Father == nil || child.Father != f.Get("101010101") {
		t.Error("father pointer not resolved to the stored object")
	}
	a := f.Get("101010101")
	if a.Spouse == nil || a.Spouse != f.Get("202020202") {
		t.Error("spouse pointer not resolved")
	}
	if _, ok := a.Children["303030303"]; !ok {
		t.Error("children set not resolved")
	}
	if got := f.VerifyIntegrity(); len(got) != 0 {
		t.Errorf("restored family has violations: %v", got)
	}
}

func TestRestore_SkipsBadFamily(t *testing.T) {
	t.Parallel()
	doc := Document{
		Families: map[string]FamilyRecord{
			"1": {ID: 1, Name: "buena", Members: []MemberRecord{
				{Cedula: "101010101", FirstName: "Ana", Gender: person.GenderFemale, MaritalStatus: person.StatusSingle},
			}},
			"2": {ID: 2, Name: "rota", Members: []MemberRecord{
				{Cedula: "202020202", BirthDate: "no-es-fecha"},
			}},
		},
		ManagerState: ManagerState{NextID: 3, CurrentFamilyID: 1},
	}
	r, errs := Restore(doc)
	if len(errs) != 1 {
		t.Fatalf("Restore errors = %v, want exactly one", errs)
	}
	if r.Len() != 1 {
		t.Errorf("registry has %d families, want 1 (the good one)", r.Len())
	}
	if f, err := r.Get(1); err != nil || f.Name != "buena" {
		t.Errorf("surviving family = %v, %v", f, err)
	}
}

func TestSaveLoad_File(t *testing.T) {
	t.Parallel()
	r := buildRegistry(t)
	doc, _ := Snapshot(r)

	path := filepath.Join(t.TempDir(), "linaje.json")
	if err := Save(path, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ManagerState.SnapshotID != doc.ManagerState.SnapshotID {
		t.Error("snapshot ID changed across save/load")
	}
	if len(loaded.Families) != len(doc.Families) {
		t.Errorf("families = %d, want %d", len(loaded.Families), len(doc.Families))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load of missing file did not fail")
	}
}

func TestArchive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "archive.db")

	arch, err := OpenArchive(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	defer arch.Close()

	r := buildRegistry(t)
	doc, _ := Snapshot(r)
	if err := arch.Append(ctx, doc); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := arch.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("archive has %d entries, want 1", len(entries))
	}
	if entries[0].ID != doc.ManagerState.SnapshotID || entries[0].Families != 2 {
		t.Errorf("entry = %+v", entries[0])
	}

	got, err := arch.Get(ctx, doc.ManagerState.SnapshotID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ManagerState.SnapshotID != doc.ManagerState.SnapshotID {
		t.Error("archived document does not round-trip")
	}

	if _, err := arch.Get(ctx, "no-such-id"); err == nil {
		t.Error("Get of unknown snapshot did not fail")
	}
}
