package watch

import "testing"

func TestIsGedcomFile(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		want bool
	}{
		{"familia.ged", true},
		{"/data/dir/familia.GED", true},
		{"familia.ged.bak", false},
		{"familia.json", false},
		{"ged", false},
	}
	for _, tc := range cases {
		if got := isGedcomFile(tc.name); got != tc.want {
			t.Errorf("isGedcomFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNewAndStop(t *testing.T) {
	t.Parallel()
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	if _, ok := <-w.Changes; ok {
		t.Error("Changes channel still open after Stop")
	}
}
