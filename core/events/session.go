package events

const (
	// KindSessionOpened identifies completion of the live session handshake.
	KindSessionOpened Kind = "session.opened"
	// KindSessionFault identifies an unrecoverable live session error.
	KindSessionFault Kind = "session.fault"
	// KindSessionClosed identifies the end of the live session connection.
	KindSessionClosed Kind = "session.closed"
)

// SessionOpened marks the live session as ready for realtime input.
type SessionOpened struct{ Base }

// NewSessionOpened creates a session opened event.
func NewSessionOpened() SessionOpened {
	return SessionOpened{Base: NewBase(KindSessionOpened)}
}

// SessionFault carries an unrecoverable error reported by the live session.
type SessionFault struct {
	Base
	Err error
}

// NewSessionFault creates a session fault event.
func NewSessionFault(err error) SessionFault {
	return SessionFault{Base: NewBase(KindSessionFault), Err: err}
}

// SessionClosed marks the live session connection as ended. Err is nil for
// an orderly close.
type SessionClosed struct {
	Base
	Err error
}

// NewSessionClosed creates a session closed event.
func NewSessionClosed(err error) SessionClosed {
	return SessionClosed{Base: NewBase(KindSessionClosed), Err: err}
}
