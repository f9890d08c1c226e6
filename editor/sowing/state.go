package sowing

import (
	"context"
	"errors"
)

var (
	// ErrTerminated is returned by Pause when the Sower was shut down.
	ErrTerminated = errors.New("sower terminated")
	// ErrPauseCancelled is returned by Pause when Resume was called before the worker reached the pause.
	ErrPauseCancelled = errors.New("pause cancelled by resume")
)

// State is the state of a Sower's worker.
type State uint8

const (
	// Paused means the worker is parked and sows nothing until resumed.
	Paused State = iota
	// Running means the worker is ticking.
	Running
	// Terminated means the worker has stopped for good.
	Terminated
)

// String ...
func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// Resume makes a paused Sower run again, or cancels a pause that was requested but not reached yet. Resume has no
// effect on a terminated Sower.
func (s *Sower) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.want != Running && s.want != Terminated {
		s.want = Running
		s.broadcastLocked()
	}
}

// RequestPause asks the Sower to pause. The tick in progress is completed first, so the pause takes effect at the next
// tick boundary. IsPaused reports true once it has.
func (s *Sower) RequestPause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.want == Running {
		s.want = Paused
		s.broadcastLocked()
	}
}

// Pause requests a pause and blocks until the worker is parked, so that no trinket is committed until Resume is called.
// It returns ctx.Err() if ctx is done first, ErrPauseCancelled if Resume is called first and ErrTerminated if the Sower
// is shut down. A pause that timed out stays requested: the worker still parks at the end of its tick.
func (s *Sower) Pause(ctx context.Context) error {
	s.RequestPause()
	for {
		s.mu.Lock()
		want, state, changed := s.want, s.state, s.changed
		s.mu.Unlock()

		switch {
		case want == Terminated || state == Terminated:
			return ErrTerminated
		case want == Running:
			return ErrPauseCancelled
		case state == Paused:
			return nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// IsPaused reports if the worker is parked at its pause point.
func (s *Sower) IsPaused() bool {
	return s.State() == Paused
}

// State returns the current state of the worker.
func (s *Sower) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Shutdown terminates the Sower. A parked worker is woken, a running worker finishes its current tick. Shutdown blocks
// until the worker has stopped and may be called more than once. It must not be called from the Scene.
func (s *Sower) Shutdown() {
	s.mu.Lock()
	if s.want != Terminated {
		s.want = Terminated
		s.broadcastLocked()
	}
	s.mu.Unlock()
	s.running.Wait()
}

// checkpoint is called by the worker before every tick. It parks the worker for as long as a pause is requested and
// returns false once the Sower is terminated.
func (s *Sower) checkpoint() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		switch s.want {
		case Terminated:
			s.setStateLocked(Terminated)
			return false
		case Running:
			s.setStateLocked(Running)
			return true
		}
		s.setStateLocked(Paused)
		changed := s.changed
		s.mu.Unlock()
		<-changed
		s.mu.Lock()
	}
}

func (s *Sower) setStateLocked(state State) {
	if s.state == state {
		return
	}
	s.conf.Log.Debug("Sower state changed.", "from", s.state, "to", state)
	s.state = state
	s.broadcastLocked()
}

// broadcastLocked wakes everything waiting for a change of the control state.
func (s *Sower) broadcastLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}
