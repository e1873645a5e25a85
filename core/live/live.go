// Package live defines the capability boundary around the hosted
// bidirectional dialog session. The orchestration core only ever talks to
// these interfaces; the concrete websocket protocol lives in subpackages so
// the service can be swapped or faked in tests.
package live

import (
	"context"
	"encoding/json"
)

// Session is an open realtime dialog session.
//
// Send methods may be called from any goroutine. Close is idempotent and
// must tolerate being called while the read loop is still delivering
// callbacks.
type Session interface {
	// SendRealtimeAudio submits one capture frame. Submission is
	// fire-and-forget: a failed frame is reported but never retried, and it
	// does not block subsequent frames.
	SendRealtimeAudio(mimeType string, data []byte) error
	// SendToolResponse returns function results for a previously requested
	// tool call.
	SendToolResponse(responses ...FunctionResponse) error
	Close() error
}

// Client opens sessions against a concrete live dialog service.
type Client interface {
	Connect(ctx context.Context, config SessionConfig, callbacks Callbacks) (Session, error)
}

// SessionConfig describes the session requested from the service. The
// response modality is always audio with input and output transcription
// enabled; that is the only mode the orchestration core understands.
type SessionConfig struct {
	Model             string
	SystemInstruction string
	Voice             string
	Tools             []Tool
}

// Tool declares a function the service may ask the client to execute.
// Parameters is any struct; concrete clients derive its JSON schema.
type Tool struct {
	Name        string
	Description string
	Parameters  any
}

// FunctionCall is a service request to execute a declared tool.
type FunctionCall struct {
	ID   string
	Name string
	Args json.RawMessage
}

// FunctionResponse carries a tool result back to the service.
type FunctionResponse struct {
	ID       string
	Name     string
	Response any
}

// Callbacks receive session lifecycle and wire events. All callbacks are
// invoked from the session's read loop, one at a time.
type Callbacks struct {
	// OnOpen fires once the session handshake completes.
	OnOpen func()
	// OnMessage fires for every server event carrying dialog content.
	OnMessage func(message ServerMessage)
	// OnError fires on an unrecoverable session fault.
	OnError func(err error)
	// OnClose fires when the connection ends. err is nil for an orderly close.
	OnClose func(err error)
}

func (c Callbacks) open() {
	if c.OnOpen != nil {
		c.OnOpen()
	}
}

func (c Callbacks) message(message ServerMessage) {
	if c.OnMessage != nil {
		c.OnMessage(message)
	}
}

func (c Callbacks) fault(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}

func (c Callbacks) closed(err error) {
	if c.OnClose != nil {
		c.OnClose(err)
	}
}

// Dispatch invokes the matching callback while tolerating unset ones.
// Concrete clients use it so nil callbacks never need checking at call sites.
func (c Callbacks) Dispatch(event SessionEvent) {
	switch event.Type {
	case SessionEventOpen:
		c.open()
	case SessionEventMessage:
		c.message(event.Message)
	case SessionEventError:
		c.fault(event.Err)
	case SessionEventClose:
		c.closed(event.Err)
	}
}

// SessionEventType discriminates session lifecycle events.
type SessionEventType string

const (
	SessionEventOpen    SessionEventType = "open"
	SessionEventMessage SessionEventType = "message"
	SessionEventError   SessionEventType = "error"
	SessionEventClose   SessionEventType = "close"
)

// SessionEvent is a uniform envelope for callback dispatch.
type SessionEvent struct {
	Type    SessionEventType
	Message ServerMessage
	Err     error
}
