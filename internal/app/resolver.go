package app

import (
	"math/rand"
	"sync"
	"time"

	"sorting-hat-service/internal/domain"
)

// Picker supplies uniform choices in [0, n).
type Picker interface {
	Intn(n int) int
}

// lockedRand makes a *rand.Rand safe to share between connections.
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Intn(n)
}

// NewTimeSeededPicker returns a goroutine-safe picker seeded from the clock.
func NewTimeSeededPicker() Picker {
	return &lockedRand{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Resolver turns a tally into exactly one house.
type Resolver struct {
	pick Picker
}

func NewResolver(pick Picker) *Resolver {
	if pick == nil {
		pick = NewTimeSeededPicker()
	}
	return &Resolver{pick: pick}
}

// Resolve scans houses in canonical order keeping the running maximum. Houses
// tied at a positive maximum are drawn uniformly; an all-zero tally always
// yields the first canonical house without consulting the picker.
func (r *Resolver) Resolve(tally domain.Tally) domain.House {
	maxScore := -1
	var tied []domain.House
	for _, h := range domain.Houses() {
		score := tally.Score(h)
		if score > maxScore {
			maxScore = score
			tied = append(tied[:0], h)
		} else if score == maxScore && score > 0 {
			tied = append(tied, h)
		}
	}
	if len(tied) == 1 {
		return tied[0]
	}
	return tied[r.pick.Intn(len(tied))]
}

// ResolveUniformRandom picks any house with equal probability.
func (r *Resolver) ResolveUniformRandom() domain.House {
	all := domain.Houses()
	return all[r.pick.Intn(len(all))]
}
