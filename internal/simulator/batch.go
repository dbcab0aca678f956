package simulator

import (
	"context"
	"fmt"

	"github.com/specialistvlad/flowrecon/internal/metrics"
)

// RunBatch clears the counters and performs every configured run before
// returning. Cancelling ctx stops between runs; the partial snapshot is
// returned together with the context error.
func (s *Simulator) RunBatch(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning || s.state == StatePaused {
		return s.snapshotLocked(), ErrAlreadyStarted
	}
	s.resetLocked()
	s.state = StateRunning
	s.openDoneLocked()

	cfg := s.cfg
	s.logger.Debug("Batch simulation starting.", "runs", cfg.Runs, "max_steps", cfg.MaxStepsPerRun)

	for s.run < cfg.Runs {
		if err := ctx.Err(); err != nil {
			s.state = StateStopped
			s.closeDoneLocked()
			s.logger.Info("Batch simulation cancelled.", "completed_runs", s.run)
			return s.snapshotLocked(), fmt.Errorf("batch simulation: %w", err)
		}

		reason := s.walkRunLocked(cfg.MaxStepsPerRun)
		s.recordEnd(metrics.ModeBatch, reason)
		s.run++
		s.metrics.RunCompleted(metrics.ModeBatch)
	}

	s.state = StateStopped
	s.closeDoneLocked()
	s.logger.Info("Batch simulation finished.", "runs", s.run)
	return s.snapshotLocked(), nil
}

// walkRunLocked performs one complete run.
func (s *Simulator) walkRunLocked(maxSteps int) endReason {
	s.walk.countEntry(s.counters)
	node := s.g.EntryID()
	exit := s.g.ExitID()
	for steps := 0; ; steps++ {
		if node == exit {
			return endExit
		}
		if steps >= maxSteps {
			return endStepLimit
		}
		e, ok := s.walk.pick(node)
		if !ok {
			return endDeadEnd
		}
		if s.walk.isInstrumented(e.ID) {
			s.counters[e.ID]++
		}
		s.metrics.EdgeTraversed(metrics.ModeBatch)
		node = e.Target
	}
}

func (s *Simulator) recordEnd(mode string, reason endReason) {
	switch reason {
	case endDeadEnd:
		s.metrics.DeadEnd(mode)
		s.logger.Debug("Run ended at a dead end.", "run", s.run, "mode", mode)
	case endStepLimit:
		s.metrics.StepLimitHit(mode)
		s.logger.Debug("Run hit the step limit.", "run", s.run, "mode", mode)
	}
}
