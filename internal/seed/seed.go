// Package seed loads TOML family-definition manifests and replays them
// through the person factory and the relation mutators. A manifest is the
// bulk-fixture input path the text codec does not cover: it carries
// validated fields, interests, and explicit unions.
package seed

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/avargascr/linaje/internal/family"
	"github.com/avargascr/linaje/internal/person"
	"github.com/avargascr/linaje/internal/relation"
)

// ErrNoManifest is returned when the manifest file does not exist.
var ErrNoManifest = errors.New("no seed manifest found")

// Manifest is one family definition.
type Manifest struct {
	Name        string       `toml:"name"`
	Description string       `toml:"description"`
	CurrentYear int          `toml:"current_year"`
	Persons     []PersonSpec `toml:"person"`
	Unions      []UnionSpec  `toml:"union"`
}

// PersonSpec mirrors the person factory fields plus sidecar data.
type PersonSpec struct {
	Cedula          string   `toml:"cedula"`
	FirstName       string   `toml:"first_name"`
	LastName        string   `toml:"last_name"`
	BirthDate       string   `toml:"birth_date"`
	DeathDate       string   `toml:"death_date"`
	Gender          string   `toml:"gender"`
	Province        string   `toml:"province"`
	MaritalStatus   string   `toml:"marital_status"`
	Interests       []string `toml:"interests"`
	EmotionalHealth *float64 `toml:"emotional_health"`
}

// UnionSpec declares a couple and/or a parent pair with children.
type UnionSpec struct {
	Husband  string   `toml:"husband"`
	Wife     string   `toml:"wife"`
	Married  bool     `toml:"married"`
	Children []string `toml:"children"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoManifest
		}
		return nil, fmt.Errorf("seed: reading %s: %w", path, err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("seed: parsing %s: %w", path, err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("seed: %s: manifest has no family name", path)
	}
	return &m, nil
}

// Build constructs a family from the manifest. Persons go through the
// validated factory; unions replay through the relation mutators in
// manual mode. The first failure aborts: a seed file is authored by hand
// and should be fixed, not silently skipped.
func Build(m *Manifest) (*family.Family, error) {
	f := family.New(m.Name, family.WithDescription(m.Description))
	f.CurrentYear = m.CurrentYear

	for _, spec := range m.Persons {
		p, err := person.New(person.Fields{
			Cedula:        spec.Cedula,
			FirstName:     spec.FirstName,
			LastName:      spec.LastName,
			BirthDate:     spec.BirthDate,
			DeathDate:     spec.DeathDate,
			Gender:        spec.Gender,
			Province:      spec.Province,
			MaritalStatus: spec.MaritalStatus,
		})
		if err != nil {
			return nil, fmt.Errorf("seed: person %s: %w", spec.Cedula, err)
		}
		p.Interests = spec.Interests
		p.EmotionalHealth = spec.EmotionalHealth
		if err := f.Add(p); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	for _, u := range m.Unions {
		if u.Married {
			if err := relation.RegisterSpouse(f, u.Husband, u.Wife, relation.Manual); err != nil {
				return nil, fmt.Errorf("seed: union %s + %s: %w", u.Husband, u.Wife, err)
			}
		}
		for _, child := range u.Children {
			if err := relation.RegisterParents(f, child, u.Husband, u.Wife); err != nil {
				return nil, fmt.Errorf("seed: child %s: %w", child, err)
			}
		}
	}
	return f, nil
}
