package events

const (
	// KindToolCallRequested identifies a service request to execute a declared function.
	KindToolCallRequested Kind = "tool_call.requested"
)

// ToolCallRequested asks the client to execute a declared function and send
// its result back through the session.
type ToolCallRequested struct {
	Base
	ID        string
	Name      string
	Arguments string
}

// NewToolCallRequested creates a tool call requested event.
func NewToolCallRequested(id, name, arguments string) ToolCallRequested {
	return ToolCallRequested{Base: NewBase(KindToolCallRequested), ID: id, Name: name, Arguments: arguments}
}
