package orchestration

// Status is the orchestrator's view of session activity. There is exactly
// one status per orchestrator and it only changes on the runtime consumer
// or during start/stop.
type Status string

const (
	// StatusIdle means no active session.
	StatusIdle Status = "idle"
	// StatusThinking means the session is being established: device
	// acquisition and handshake are in flight.
	StatusThinking Status = "thinking"
	// StatusListening means the session is open, capture is streaming, and
	// no assistant audio is playing.
	StatusListening Status = "listening"
	// StatusSpeaking means at least one assistant audio payload is scheduled
	// or playing.
	StatusSpeaking Status = "speaking"
	// StatusError means an unrecoverable session fault or device denial.
	StatusError Status = "error"
)

func (s Status) String() string {
	return string(s)
}
