package simulator

import (
	"context"

	"github.com/specialistvlad/flowrecon/internal/graph"
	"github.com/specialistvlad/flowrecon/internal/metrics"
)

// Start clears the counters and begins a new simulation. In fast mode it
// runs the whole simulation before returning; otherwise the first tick is
// scheduled on the clock and Start returns at once.
func (s *Simulator) Start(ctx context.Context) error {
	if s.Config().FastMode {
		_, err := s.RunBatch(ctx)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning || s.state == StatePaused {
		return ErrAlreadyStarted
	}
	s.resetLocked()
	s.openDoneLocked()
	s.state = StateRunning
	s.beginRunLocked()
	s.scheduleLocked()
	s.logger.Debug("Stepwise simulation started.", "runs", s.cfg.Runs, "interval", s.cfg.Interval())
	return nil
}

// Pause cancels the pending tick and keeps the current position. It does
// nothing unless the simulation is running.
func (s *Simulator) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return
	}
	s.cancelLocked()
	s.state = StatePaused
	s.logger.Debug("Simulation paused.", "run", s.run, "node", s.nodeID)
}

// Resume schedules the next tick at the current speed. It does nothing
// unless the simulation is paused.
func (s *Simulator) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused {
		return
	}
	s.state = StateRunning
	s.scheduleLocked()
	s.logger.Debug("Simulation resumed.", "run", s.run, "node", s.nodeID)
}

// Stop ends the simulation early. Counters are kept so they can be handed to
// the solver.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning && s.state != StatePaused {
		return
	}
	s.cancelLocked()
	s.state = StateStopped
	s.nodeID, s.edgeID = "", ""
	s.closeDoneLocked()
	s.logger.Info("Simulation stopped.", "completed_runs", s.run)
}

// Reset cancels any pending tick and clears counters, run index and
// position.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.state = StateIdle
	s.closeDoneLocked()
}

func (s *Simulator) resetLocked() {
	s.cancelLocked()
	s.counters = make(map[string]int64)
	s.run = 0
	s.nodeID, s.edgeID = "", ""
	s.steps = 0
	s.turnaround = false
}

func (s *Simulator) cancelLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Simulator) scheduleLocked() {
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.cfg.Interval(), func() { s.tick(gen) })
}

func (s *Simulator) beginRunLocked() {
	s.nodeID = s.g.EntryID()
	s.edgeID = ""
	if s.g.HasEdge(graph.EntrySentinelID) {
		s.edgeID = graph.EntrySentinelID
	}
	s.steps = 0
	s.turnaround = false
	s.walk.countEntry(s.counters)
}

func (s *Simulator) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.state != StateRunning {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.metrics.Tick()

	finished := s.stepLocked()
	if finished {
		s.state = StateStopped
		s.nodeID, s.edgeID = "", ""
		s.closeDoneLocked()
		s.logger.Info("Stepwise simulation finished.", "runs", s.run)
	} else {
		s.scheduleLocked()
	}
	snap := s.snapshotLocked()
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(snap)
	}
}

// stepLocked applies one tick and reports whether the last run closed.
func (s *Simulator) stepLocked() bool {
	if s.turnaround {
		s.run++
		s.metrics.RunCompleted(metrics.ModeStepwise)
		if s.run >= s.cfg.Runs {
			return true
		}
		s.beginRunLocked()
		return false
	}

	switch {
	case s.nodeID == s.g.ExitID():
		if exit, ok := s.g.Edge(graph.ExitSentinelID); ok {
			s.edgeID = exit.ID
			s.nodeID = exit.Target
		}
		s.turnaround = true
	case s.steps >= s.cfg.MaxStepsPerRun:
		s.recordEnd(metrics.ModeStepwise, endStepLimit)
		s.edgeID = ""
		s.turnaround = true
	default:
		e, ok := s.walk.pick(s.nodeID)
		if !ok {
			s.recordEnd(metrics.ModeStepwise, endDeadEnd)
			s.edgeID = ""
			s.turnaround = true
			return false
		}
		if s.walk.isInstrumented(e.ID) {
			s.counters[e.ID]++
		}
		s.metrics.EdgeTraversed(metrics.ModeStepwise)
		s.edgeID = e.ID
		s.nodeID = e.Target
		s.steps++
		s.logger.Debug("Edge traversed.", "run", s.run, "edge", e.ID, "node", e.Target)
	}
	return false
}
