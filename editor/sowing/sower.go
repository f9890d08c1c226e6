package sowing

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df-mc/sower/editor/internal/guard"
	"github.com/df-mc/sower/editor/trinket"
)

// Sower continuously sows trinkets on a map in the background. A single worker evaluates every rule once per tick,
// either growing from a trinket the rule sowed earlier or placing a new one at random, and commits what it sows to the
// scene. The control methods are safe for simultaneous use.
type Sower struct {
	conf  Config
	rules []*rule

	mu      sync.Mutex
	want    State
	state   State
	changed chan struct{}

	running sync.WaitGroup
	ticks   atomic.Uint64
}

// rule is a Sowing together with the random source used for it. Both are only touched by the worker.
type rule struct {
	*Sowing
	r *rand.Rand
}

// Metrics returns the Metrics the Sower records outcomes in.
func (s *Sower) Metrics() *Metrics {
	return s.conf.Metrics
}

// Ticks returns the amount of ticks completed.
func (s *Sower) Ticks() uint64 {
	return s.ticks.Load()
}

// Rules returns the names of the rules of the Sower in tick order.
func (s *Sower) Rules() []string {
	names := make([]string, len(s.rules))
	for i, rl := range s.rules {
		names[i] = rl.Name()
	}
	return names
}

func (s *Sower) run() {
	defer s.running.Done()
	for s.checkpoint() {
		s.tick()
		if s.conf.TickDelay > 0 {
			s.wait(s.conf.TickDelay)
		}
	}
	s.conf.Log.Debug("Sower stopped.", "ticks", s.Ticks())
}

// tick evaluates every rule once. A rule failing never prevents the rules after it from being evaluated.
func (s *Sower) tick() {
	for _, rl := range s.rules {
		o, err := guard.Value(func() Outcome {
			return s.attempt(rl)
		})
		if err != nil {
			o = Outcome{Result: Fault, Err: err}
		}
		if o.Produced() {
			if err := s.commit(o.Trinket); err != nil {
				rl.discard(o.Trinket)
				o = Outcome{Result: Fault, Err: fmt.Errorf("commit %v: %w", o.Trinket.Type, err)}
			}
		}
		if o.Result == Fault {
			s.conf.Log.Debug("Sowing attempt failed.", "rule", rl.Name(), "err", o.Err)
		}
		s.conf.Metrics.Observe(rl.Name(), o)
		s.conf.Metrics.SetPoolSize(rl.Name(), rl.PoolSize())
	}
	s.ticks.Add(1)
}

// attempt grows from the pool of the rule if it has one and the coin favours growth, and places a new trinket
// otherwise.
func (s *Sower) attempt(rl *rule) Outcome {
	if rl.PoolSize() > 0 && rl.r.Float64() < s.conf.GrowthChance {
		return rl.Grow(s.conf.Terrain, s.conf.Builder, rl.r)
	}
	return rl.Place(s.conf.Terrain, s.conf.Builder, rl.r)
}

// commit attaches t to the scene while holding the scene lock.
func (s *Sower) commit(t *trinket.Trinket) (err error) {
	if perr := guard.Run(func() {
		s.conf.Lock.Lock()
		defer s.conf.Lock.Unlock()
		err = s.conf.Scene.Attach(t)
	}); perr != nil {
		return perr
	}
	return err
}

// wait blocks for d or until the control state changes, whichever is first.
func (s *Sower) wait(d time.Duration) {
	s.mu.Lock()
	changed := s.changed
	s.mu.Unlock()

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-changed:
	}
}
