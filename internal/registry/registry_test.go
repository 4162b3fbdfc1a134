package registry

import (
	"errors"
	"testing"

	"github.com/avargascr/linaje/internal/family"
)

func TestCreate_AssignsDenseIDs(t *testing.T) {
	t.Parallel()
	r := New()
	for i := 1; i <= 4; i++ {
		if id := r.Create("fam"); id != i {
			t.Errorf("Create #%d returned id %d", i, id)
		}
	}
	if r.CurrentID() != 1 {
		t.Errorf("CurrentID() = %d, want first created family", r.CurrentID())
	}
	if r.NextID() != 5 {
		t.Errorf("NextID() = %d, want 5", r.NextID())
	}
}

func TestDelete_CompactsIDs(t *testing.T) {
	t.Parallel()
	r := New()
	names := []string{"uno", "dos", "tres", "cuatro"}
	for _, n := range names {
		r.Create(n)
	}

	if err := r.Delete(2); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	fams := r.List()
	if len(fams) != 3 {
		t.Fatalf("List() has %d families, want 3", len(fams))
	}
	wantNames := []string{"uno", "tres", "cuatro"}
	for i, f := range fams {
		if f.ID != i+1 {
			t.Errorf("family %q has ID %d, want %d", f.Name, f.ID, i+1)
		}
		if f.Name != wantNames[i] {
			t.Errorf("ID %d is %q, want %q", i+1, f.Name, wantNames[i])
		}
	}
	if r.NextID() != 4 {
		t.Errorf("NextID() = %d, want 4", r.NextID())
	}
	if got := r.DeletedIDs(); len(got) != 1 || got[0] != 2 {
		t.Errorf("DeletedIDs() = %v, want [2]", got)
	}
}

func TestDelete_CurrentAdjustment(t *testing.T) {
	t.Parallel()

	t.Run("current above deleted decrements", func(t *testing.T) {
		t.Parallel()
		r := New()
		r.Create("a")
		r.Create("b")
		r.Create("c")
		if err := r.SetCurrent(3); err != nil {
			t.Fatalf("SetCurrent: %v", err)
		}
		if err := r.Delete(1); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if r.CurrentID() != 2 {
			t.Errorf("CurrentID() = %d, want 2", r.CurrentID())
		}
	})

	t.Run("current deleted falls back to lowest", func(t *testing.T) {
		t.Parallel()
		r := New()
		r.Create("a")
		r.Create("b")
		if err := r.Delete(1); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if r.CurrentID() != 1 {
			t.Errorf("CurrentID() = %d, want 1 (remapped b)", r.CurrentID())
		}
	})

	t.Run("last family deleted clears current", func(t *testing.T) {
		t.Parallel()
		r := New()
		r.Create("a")
		if err := r.Delete(1); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if r.CurrentID() != 0 {
			t.Errorf("CurrentID() = %d, want 0", r.CurrentID())
		}
		if r.NextID() != 1 {
			t.Errorf("NextID() = %d, want 1", r.NextID())
		}
		if _, err := r.Current(); !errors.Is(err, ErrUnknownFamily) {
			t.Errorf("Current() error = %v, want ErrUnknownFamily", err)
		}
	})
}

func TestDelete_Unknown(t *testing.T) {
	t.Parallel()
	r := New()
	if err := r.Delete(7); !errors.Is(err, ErrUnknownFamily) {
		t.Errorf("Delete(7) = %v, want ErrUnknownFamily", err)
	}
}

func TestRename(t *testing.T) {
	t.Parallel()
	r := New()
	id := r.Create("old")
	if err := r.Rename(id, "new"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	f, err := r.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if f.Name != "new" {
		t.Errorf("Name = %q, want new", f.Name)
	}
}

func TestAdopt(t *testing.T) {
	t.Parallel()
	r := New()
	r.Create("a")
	f := family.New("imported")
	id := r.Adopt(f)
	if id != 2 || f.ID != 2 {
		t.Errorf("Adopt assigned id %d (family %d), want 2", id, f.ID)
	}
	got, err := r.Get(2)
	if err != nil || got != f {
		t.Errorf("Get(2) = %v, %v", got, err)
	}
}

func TestRestore_GappedIDs(t *testing.T) {
	t.Parallel()
	a := family.New("a")
	a.ID = 1
	c := family.New("c")
	c.ID = 3 // gap from a snapshot taken before compaction existed
	r := New()
	r.Restore([]*family.Family{a, c}, 3, 9, []int{2})
	if r.NextID() != 9 {
		t.Errorf("NextID() = %d, want 9", r.NextID())
	}
	if got := r.DeletedIDs(); len(got) != 1 || got[0] != 2 {
		t.Errorf("DeletedIDs() = %v", got)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()
	r := New()
	r.Create("a")
	r.Create("b")
	st := r.Stats()
	if st.Families != 2 || st.Members != 0 {
		t.Errorf("Stats() = %+v", st)
	}
}
