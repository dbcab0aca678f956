package session

// Stage is a step of the guided walkthrough.
type Stage int

const (
	StageStart Stage = iota
	StageWeights
	StageSpanning
	StageInstrumentation
	StageMeasure
	StageReconstruct
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageWeights:
		return "weights"
	case StageSpanning:
		return "spanning"
	case StageInstrumentation:
		return "instrumentation"
	case StageMeasure:
		return "measure"
	case StageReconstruct:
		return "reconstruct"
	}
	return "unknown"
}

// Overlay tells a renderer what to highlight at the current stage.
type Overlay struct {
	ShowWeights         bool
	SpanningEdgeIDs     []string
	InstrumentedEdgeIDs []string
	ShowEdgeIDs         bool
}

func (w *Workbench) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Begin moves from the start screen to the weights stage.
func (w *Workbench) Begin() Stage {
	return w.setStage(StageWeights)
}

func (w *Workbench) NextStage() Stage {
	w.mu.Lock()
	next := w.stage + 1
	w.mu.Unlock()
	return w.setStage(next)
}

func (w *Workbench) PrevStage() Stage {
	w.mu.Lock()
	prev := w.stage - 1
	w.mu.Unlock()
	return w.setStage(prev)
}

func (w *Workbench) ResetStage() Stage {
	return w.setStage(StageStart)
}

func (w *Workbench) setStage(s Stage) Stage {
	if s < StageStart {
		s = StageStart
	}
	if s > StageReconstruct {
		s = StageReconstruct
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stage = s
	return s
}

// Overlay describes the highlights for the current stage: weights only at
// the weights stage, the tree from the spanning stage on, counters from the
// instrumentation stage on and edge ids at the last stage.
func (w *Workbench) Overlay() Overlay {
	w.mu.Lock()
	defer w.mu.Unlock()
	o := Overlay{
		ShowWeights: w.stage == StageWeights,
		ShowEdgeIDs: w.stage >= StageReconstruct,
	}
	if w.stage >= StageSpanning {
		o.SpanningEdgeIDs = append([]string(nil), w.spanningLocked()...)
	}
	if w.stage >= StageInstrumentation {
		o.InstrumentedEdgeIDs = append([]string(nil), w.instrumentationLocked()...)
	}
	return o
}
