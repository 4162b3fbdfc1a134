package person

import (
	"errors"
	"testing"
	"time"
)

func validFields() Fields {
	return Fields{
		Cedula:    "101230456",
		FirstName: "Ana",
		LastName:  "Mora",
		BirthDate: "1980-04-12",
		Gender:    GenderFemale,
		Province:  "Heredia",
	}
}

func TestNew_Valid(t *testing.T) {
	t.Parallel()
	p, err := New(validFields())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Cedula != "101230456" {
		t.Errorf("Cedula = %q", p.Cedula)
	}
	if !p.Alive() {
		t.Error("Alive() = false for person without death date")
	}
	if p.MaritalStatus != StatusSingle {
		t.Errorf("MaritalStatus = %q, want %q", p.MaritalStatus, StatusSingle)
	}
	if p.Father != nil || p.Mother != nil || p.Spouse != nil {
		t.Error("relation pointers not empty")
	}
	if len(p.History) != 1 || p.History[0].Label != "Nació el 1980-04-12" {
		t.Errorf("history = %+v, want single birth entry", p.History)
	}
}

func TestNew_InvalidFields(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Fields)
	}{
		{"cedula too short", func(f *Fields) { f.Cedula = "12345678" }},
		{"cedula too long", func(f *Fields) { f.Cedula = "1234567890123" }},
		{"cedula non-digit", func(f *Fields) { f.Cedula = "12345678a" }},
		{"empty first name", func(f *Fields) { f.FirstName = "" }},
		{"empty last name", func(f *Fields) { f.LastName = "" }},
		{"bad gender", func(f *Fields) { f.Gender = "M" }},
		{"bad province", func(f *Fields) { f.Province = "Managua" }},
		{"bad date format", func(f *Fields) { f.BirthDate = "12/04/1980" }},
		{"date before window", func(f *Fields) { f.BirthDate = "1819-12-31" }},
		{"date after window", func(f *Fields) { f.BirthDate = "2025-01-02" }},
		{"bad marital status", func(f *Fields) { f.MaritalStatus = "Comprometido" }},
		{"bad death date", func(f *Fields) { f.DeathDate = "not-a-date" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := validFields()
			tt.mutate(&f)
			if _, err := New(f); !errors.Is(err, ErrInvalidField) {
				t.Errorf("New() error = %v, want ErrInvalidField", err)
			}
		})
	}
}

func TestNew_DeathDate(t *testing.T) {
	t.Parallel()
	f := validFields()
	f.DeathDate = "2010-06-01"
	p, err := New(f)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Alive() {
		t.Error("Alive() = true with death date")
	}
	if p.MaritalStatus != StatusDeceased {
		t.Errorf("MaritalStatus = %q, want %q", p.MaritalStatus, StatusDeceased)
	}
	if len(p.History) != 2 {
		t.Fatalf("history has %d entries, want 2", len(p.History))
	}
	if p.History[1].Label != "Falleció el 2010-06-01" {
		t.Errorf("death entry = %q", p.History[1].Label)
	}
}

func TestNew_DeathBeforeBirth(t *testing.T) {
	t.Parallel()
	f := validFields()
	f.DeathDate = "1980-04-12" // same day as birth: not strictly after
	if _, err := New(f); !errors.Is(err, ErrDeathBeforeBirth) {
		t.Errorf("New() error = %v, want ErrDeathBeforeBirth", err)
	}
}

func TestAgeAt_MonthDayThreshold(t *testing.T) {
	t.Parallel()
	p, err := New(Fields{
		Cedula: "209870654", FirstName: "Luis", LastName: "Solís",
		BirthDate: "2000-12-25", Gender: GenderMale, Province: "Cartago",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tests := []struct {
		ref  string
		want int
	}{
		{"2020-12-24", 19}, // day before birthday
		{"2020-12-25", 20}, // on the birthday
		{"2020-11-30", 19}, // month before
		{"2021-01-01", 20},
	}
	for _, tt := range tests {
		ref, _ := time.Parse(DateLayout, tt.ref)
		if got := p.AgeAt(ref); got != tt.want {
			t.Errorf("AgeAt(%s) = %d, want %d", tt.ref, got, tt.want)
		}
	}
}

func TestAgeAtDeath(t *testing.T) {
	t.Parallel()
	f := validFields()
	f.BirthDate = "1960-01-01"
	f.DeathDate = "2005-12-31"
	p, err := New(f)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := p.AgeAtDeath(); got != 45 {
		t.Errorf("AgeAtDeath() = %d, want 45", got)
	}

	living, err := New(validFields())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := living.AgeAtDeath(); got != -1 {
		t.Errorf("AgeAtDeath() = %d for living person, want -1", got)
	}
}

func TestSharedInterests(t *testing.T) {
	t.Parallel()
	a, _ := New(validFields())
	f := validFields()
	f.Cedula = "304560789"
	f.Gender = GenderMale
	b, _ := New(f)

	if got := a.SharedInterests(b); got != 0 {
		t.Errorf("SharedInterests with no interests = %d, want 0", got)
	}
	a.Interests = []string{"música", "cine", "fútbol"}
	b.Interests = []string{"cine", "fútbol", "cocina"}
	if got := a.SharedInterests(b); got != 2 {
		t.Errorf("SharedInterests = %d, want 2", got)
	}
}
