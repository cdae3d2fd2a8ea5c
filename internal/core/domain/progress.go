package domain

// ProgressEvent is one frame of a run's progress stream. Exactly one of the
// fields is set; Result and Error frames are terminal.
type ProgressEvent struct {
	Message string     `json:"message,omitempty"`
	Result  *RunResult `json:"result,omitempty"`
	Error   string     `json:"error,omitempty"`
}

func (e ProgressEvent) Terminal() bool {
	return e.Result != nil || e.Error != ""
}

type RunState string

const (
	RunIdle      RunState = "idle"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunFailed    RunState = "failed"
)
