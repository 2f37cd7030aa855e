package services

import (
	"math/rand"
	"time"

	"github.com/Esayas077/Backend/internal/models"
)

// SelectionPolicy picks the assignee from a non-empty set of available
// drivers. Alternative policies (least-loaded, round-robin) can be swapped in
// without touching the delivery service.
type SelectionPolicy interface {
	Select(drivers []*models.Driver) *models.Driver
}

// RandomPolicy picks uniformly at random from the available set.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy creates the default selection policy.
func NewRandomPolicy() *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (p *RandomPolicy) Select(drivers []*models.Driver) *models.Driver {
	return drivers[p.rng.Intn(len(drivers))]
}
