// Package sweeper bounds how long an expired-but-unread recommendation can
// stay pending. Read-path expiry in the recommendations package remains
// authoritative; this ticker just limits staleness of rows nobody reads.
package sweeper

import (
	"context"
	"log"
	"time"

	"github.com/kindred-dev/kindred/internal/recommendations"
)

type Sweeper struct {
	engine   *recommendations.Engine
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewSweeper(engine *recommendations.Engine, interval time.Duration) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		engine:   engine,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs an immediate sweep and then sweeps on every tick until Stop.
func (s *Sweeper) Start() {
	log.Printf("Starting recommendation sweeper (interval %v)", s.interval)

	go func() {
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// Stop cancels the background loop.
func (s *Sweeper) Stop() {
	log.Println("Stopping recommendation sweeper")
	s.cancel()
}

func (s *Sweeper) sweep() {
	if err := s.engine.SweepExpired(); err != nil {
		log.Printf("Recommendation sweep failed: %v", err)
	}
}
