package events

const (
	// KindTurnCompleted identifies completion of the current exchange.
	KindTurnCompleted Kind = "turn_state.completed"
	// KindInterrupted identifies a user barge-in over assistant playback.
	KindInterrupted Kind = "turn_state.interrupted"
)

// TurnCompleted marks the service-signaled end of the current turn.
// Accumulated transcripts flush into the conversation log on this event.
type TurnCompleted struct{ Base }

// NewTurnCompleted creates a turn completed event.
func NewTurnCompleted() TurnCompleted {
	return TurnCompleted{Base: NewBase(KindTurnCompleted)}
}

// Interrupted marks a server-issued interruption: the user began speaking
// while assistant audio was still playing.
type Interrupted struct{ Base }

// NewInterrupted creates an interruption event.
func NewInterrupted() Interrupted {
	return Interrupted{Base: NewBase(KindInterrupted)}
}
