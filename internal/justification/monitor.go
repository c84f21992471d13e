package justification

// ProgressMonitor observes a running search.
type ProgressMonitor interface {
	ExplanationFound(x Explanation)
}

// MonitorFunc adapts a function to ProgressMonitor.
type MonitorFunc func(x Explanation)

// ExplanationFound implements ProgressMonitor.
func (f MonitorFunc) ExplanationFound(x Explanation) { f(x) }

type nopMonitor struct{}

func (nopMonitor) ExplanationFound(Explanation) {}

// NopMonitor ignores every event.
var NopMonitor ProgressMonitor = nopMonitor{}

// Phase is a step of one computation.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseSnapshotting     Phase = "snapshotting"
	PhaseStrategySelected Phase = "strategy_selected"
	PhaseSearching        Phase = "searching"
	PhaseCompleted        Phase = "completed"
	PhaseCancelled        Phase = "cancelled"
	PhaseFailed           Phase = "failed"
)

// Terminal reports whether no further phase follows p.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseCancelled || p == PhaseFailed
}

// PhaseMonitor is implemented by monitors that also want phase transitions.
type PhaseMonitor interface {
	ProgressMonitor
	PhaseChanged(p Phase)
}

func reportPhase(m ProgressMonitor, p Phase) {
	if pm, ok := m.(PhaseMonitor); ok {
		pm.PhaseChanged(p)
	}
}
