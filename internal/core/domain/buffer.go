package domain

// BufferState is the state of a project's reconciliation buffer.
type BufferState int

// Buffer states.
const (
	// BufferIdle has nothing pending and no timer running.
	BufferIdle BufferState = iota

	// BufferPending holds records and waits for the debounce timer.
	BufferPending

	// BufferFlushing is merging records into storage.
	BufferFlushing
)

// String returns the state's name.
func (s BufferState) String() string {
	switch s {
	case BufferIdle:
		return "idle"
	case BufferPending:
		return "pending"
	case BufferFlushing:
		return "flushing"
	default:
		return unknownDescription
	}
}

// BufferStatus is a point-in-time view of a project's capture pipeline.
type BufferStatus struct {
	ProjectID string      `json:"projectId"`
	State     BufferState `json:"-"`
	StateName string      `json:"state"`
	Pending   int         `json:"pending"`
	Flushing  bool        `json:"flushing"`
	Stored    int         `json:"stored"`
	Flushes   int         `json:"flushes"`
	Failures  int         `json:"failures"`
}
