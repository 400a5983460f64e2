// Package prediction scores diagnostic images. The bundled scorer is a random
// placeholder; a real model plugs in through the Scorer interface.
package prediction

import (
	"context"
	"math/rand/v2"
	"sync"

	"medical-records-server/internal/models"
)

const (
	StatusCancer    = "Cancer (label 1)"
	StatusNotCancer = "Not cancer (label 0)"
)

// Result is the outcome of scoring one image.
type Result struct {
	Status string  `json:"status"`
	Score  float64 `json:"score"`
}

// Scorer classifies an image.
type Scorer interface {
	Score(ctx context.Context, image *models.Image) (Result, error)
}

// RandomScorer draws a score in [0,1) and labels it against Threshold.
type RandomScorer struct {
	Threshold float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomScorer returns a scorer seeded from the runtime's entropy source.
func NewRandomScorer() *RandomScorer {
	return NewSeededScorer(rand.Uint64(), rand.Uint64())
}

// NewSeededScorer returns a deterministic scorer.
func NewSeededScorer(seed1, seed2 uint64) *RandomScorer {
	return &RandomScorer{
		Threshold: 0.5,
		rng:       rand.New(rand.NewPCG(seed1, seed2)),
	}
}

func (s *RandomScorer) Score(ctx context.Context, _ *models.Image) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	score := s.rng.Float64()
	s.mu.Unlock()

	status := StatusNotCancer
	if score >= s.Threshold {
		status = StatusCancer
	}
	return Result{Status: status, Score: score}, nil
}
