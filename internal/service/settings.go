package service

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/google/uuid"
)

// Settings carries the tunables shared by the services. Zero values fall
// back to the defaults.
type Settings struct {
	EstimatedHours float64
	TimelineWeeks  int
	Clock          func() time.Time
	Rand           *rand.Rand
	NewID          func() string
}

func (s Settings) withDefaults() Settings {
	if s.EstimatedHours <= 0 {
		s.EstimatedHours = contract.DefaultEstimatedHours
	}
	if s.TimelineWeeks <= 0 {
		s.TimelineWeeks = domain.DefaultTimelineWeeks
	}
	if s.Clock == nil {
		s.Clock = func() time.Time { return time.Now().UTC() }
	}
	if s.NewID == nil {
		s.NewID = uuid.NewString
	}
	return s
}

func (s Settings) now() time.Time {
	return s.Clock().UTC().Truncate(time.Second)
}

// picker draws event indices. *rand.Rand is not safe for concurrent use.
type picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newPicker(rng *rand.Rand) *picker {
	return &picker{rng: rng}
}

func (p *picker) intN(n int) int {
	if p.rng == nil {
		return rand.IntN(n)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}

// NewSeededRand returns a PCG source for seed, or nil for seed 0.
func NewSeededRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
