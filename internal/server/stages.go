package server

import (
	"sync"

	"github.com/ecotrip/flightgame/internal/game"
	"github.com/ecotrip/flightgame/internal/route"
)

// stageSource serializes access to the stage builder, whose random
// source is not safe for concurrent use.
type stageSource struct {
	mu      sync.Mutex
	builder *route.StageBuilder
}

func newStageSource(b *route.StageBuilder) *stageSource {
	return &stageSource{builder: b}
}

func (s *stageSource) Build(number int, origin string, countries int) (game.Stage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder.Build(number, origin, countries)
}
