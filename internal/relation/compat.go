package relation

import (
	"time"

	"github.com/avargascr/linaje/internal/person"
)

// Compatibility scores a candidate pairing on a 0..100 scale. Three
// weighted factors: interest overlap (50), age proximity (30), and
// emotional health (20). A person without recorded emotional health
// contributes a neutral value, so the sidecar data is never required.
func Compatibility(a, b *person.Person, now time.Time) float64 {
	return 50*interestOverlap(a, b) + 30*ageCloseness(a, b, now) + 20*healthFactor(a, b)
}

// interestOverlap returns shared / smaller-set size, or 0 when either has
// no interests recorded.
func interestOverlap(a, b *person.Person) float64 {
	smaller := len(a.Interests)
	if len(b.Interests) < smaller {
		smaller = len(b.Interests)
	}
	if smaller == 0 {
		return 0
	}
	return float64(a.SharedInterests(b)) / float64(smaller)
}

// ageCloseness is 1 at equal ages and falls linearly to 0 at the maximum
// tolerated gap.
func ageCloseness(a, b *person.Person, now time.Time) float64 {
	gap := ageGap(a, b, now)
	if gap >= maxAgeGap {
		return 0
	}
	return 1 - float64(gap)/float64(maxAgeGap)
}

// healthFactor averages the recorded emotional health of both partners on
// a 0..1 scale, treating an absent value as 0.75.
func healthFactor(a, b *person.Person) float64 {
	return (healthOf(a) + healthOf(b)) / 2
}

func healthOf(p *person.Person) float64 {
	if p.EmotionalHealth == nil {
		return 0.75
	}
	h := *p.EmotionalHealth / 100
	if h < 0 {
		return 0
	}
	if h > 1 {
		return 1
	}
	return h
}
