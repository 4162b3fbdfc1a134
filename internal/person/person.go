// Package person defines the Person record of the kinship graph and the
// validated factory that is the only legal way to construct one. Relation
// pointers (father, mother, spouse, children, siblings) live on the Person
// but are mutated exclusively by the relation package.
package person

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidField is returned when a field value falls outside its
// documented domain.
var ErrInvalidField = errors.New("invalid field")

// ErrDeathBeforeBirth is returned when a death date is not strictly after
// the birth date.
var ErrDeathBeforeBirth = errors.New("death date not after birth date")

// Gender values accepted by the engine.
const (
	GenderMale   = "Masculino"
	GenderFemale = "Femenino"
)

// Marital status values accepted by the engine.
const (
	StatusSingle   = "Soltero/a"
	StatusMarried  = "Casado/a"
	StatusWidowed  = "Viudo/a"
	StatusDivorced = "Divorciado/a"
	StatusDeceased = "Fallecido/a"
)

// Provinces is the closed list of valid province values.
var Provinces = []string{
	"San José", "Alajuela", "Cartago", "Heredia",
	"Guanacaste", "Puntarenas", "Limón",
}

// DateLayout is the calendar date format used across the engine.
const DateLayout = "2006-01-02"

// Vital dates must fall inside this window.
var (
	minVitalDate = time.Date(1820, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxVitalDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Event is one append-only history entry on a Person.
type Event struct {
	Date  time.Time
	Label string
}

// Person is one individual in a family graph. Relation pointers reference
// other Persons of the same family; they never cross families and they are
// cleared before a Person is removed.
type Person struct {
	Cedula        string
	FirstName     string
	LastName      string
	BirthDate     time.Time
	DeathDate     *time.Time
	Gender        string
	Province      string
	MaritalStatus string

	Father   *Person
	Mother   *Person
	Spouse   *Person
	Children map[string]*Person
	Siblings map[string]*Person

	History []Event

	// Sidecar data used only by the simulation layer. The engine tolerates
	// both being absent.
	Interests       []string
	EmotionalHealth *float64
}

// Fields is the raw input to the factory, validated before a Person is
// built. Dates are ISO yyyy-mm-dd strings; DeathDate and MaritalStatus are
// optional.
type Fields struct {
	Cedula        string `validate:"required,cedula"`
	FirstName     string `validate:"required"`
	LastName      string `validate:"required"`
	BirthDate     string `validate:"required,vitaldate"`
	Gender        string `validate:"required,oneof=Masculino Femenino"`
	Province      string `validate:"required,province"`
	DeathDate     string `validate:"omitempty,vitaldate"`
	MaritalStatus string `validate:"omitempty,oneof=Soltero/a Casado/a Divorciado/a Viudo/a Fallecido/a"`
}

var cedulaPattern = regexp.MustCompile(`^[0-9]{9,12}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cedula", func(fl validator.FieldLevel) bool {
		return cedulaPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("vitaldate", func(fl validator.FieldLevel) bool {
		d, err := time.Parse(DateLayout, fl.Field().String())
		if err != nil {
			return false
		}
		return !d.Before(minVitalDate) && !d.After(maxVitalDate)
	})
	_ = v.RegisterValidation("province", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, p := range Provinces {
			if s == p {
				return true
			}
		}
		return false
	})
	return v
}

// New validates f and builds a Person with empty relation pointers and a
// history seeded with the birth event (and a death event when a death date
// is given). The marital status defaults to Soltero/a for the living and
// Fallecido/a for the dead.
func New(f Fields) (*Person, error) {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidField, verrs[0].Field())
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}

	birth, _ := time.Parse(DateLayout, f.BirthDate)
	p := &Person{
		Cedula:        f.Cedula,
		FirstName:     f.FirstName,
		LastName:      f.LastName,
		BirthDate:     birth,
		Gender:        f.Gender,
		Province:      f.Province,
		MaritalStatus: f.MaritalStatus,
		Children:      make(map[string]*Person),
		Siblings:      make(map[string]*Person),
	}
	p.Record(birth, "Nació el "+f.BirthDate)

	if f.DeathDate != "" {
		death, _ := time.Parse(DateLayout, f.DeathDate)
		if !death.After(birth) {
			return nil, fmt.Errorf("%w: %s <= %s", ErrDeathBeforeBirth, f.DeathDate, f.BirthDate)
		}
		p.DeathDate = &death
		p.Record(death, "Falleció el "+f.DeathDate)
		if p.MaritalStatus == "" {
			p.MaritalStatus = StatusDeceased
		}
	}
	if p.MaritalStatus == "" {
		p.MaritalStatus = StatusSingle
	}
	return p, nil
}

// Alive reports whether the person has no recorded death.
func (p *Person) Alive() bool {
	return p.DeathDate == nil
}

// FullName returns "FirstName LastName".
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Record appends a history entry. History is append-only; entries are
// never rewritten or removed.
func (p *Person) Record(date time.Time, label string) {
	p.History = append(p.History, Event{Date: date, Label: label})
}

// AgeAt returns the person's age in complete years at the reference date.
// A year counts only once the reference (month, day) has reached the birth
// (month, day).
func (p *Person) AgeAt(ref time.Time) int {
	return yearsBetween(p.BirthDate, ref)
}

// AgeAtDeath returns the age in complete years at death, or -1 for the
// living.
func (p *Person) AgeAtDeath() int {
	if p.DeathDate == nil {
		return -1
	}
	return yearsBetween(p.BirthDate, *p.DeathDate)
}

// yearsBetween counts complete years from a to b using the month/day
// threshold rule shared by every age computation in the engine.
func yearsBetween(a, b time.Time) int {
	years := b.Year() - a.Year()
	if b.Month() < a.Month() || (b.Month() == a.Month() && b.Day() < a.Day()) {
		years--
	}
	return years
}

// SharedInterests counts interests present on both persons.
func (p *Person) SharedInterests(q *Person) int {
	if len(p.Interests) == 0 || len(q.Interests) == 0 {
		return 0
	}
	seen := make(map[string]bool, len(p.Interests))
	for _, it := range p.Interests {
		seen[it] = true
	}
	n := 0
	for _, it := range q.Interests {
		if seen[it] {
			n++
		}
	}
	return n
}
