package live

// ServerMessage is one dialog event from the service. Any combination of
// fields may be set on a single message; consumers check each in turn.
type ServerMessage struct {
	// InputTranscription is an incremental transcription of user audio.
	InputTranscription *Transcription
	// OutputTranscription is an incremental transcription of assistant audio.
	OutputTranscription *Transcription
	// ModelTurn carries synthesized assistant content for the current turn.
	ModelTurn *ModelTurn
	// TurnComplete signals that the current exchange is finished.
	TurnComplete bool
	// Interrupted signals that the user spoke over assistant playback and
	// any buffered assistant audio must be discarded.
	Interrupted bool
	// ToolCall asks the client to execute declared functions.
	ToolCall *ToolCall
}

// ToolCall is a batch of function calls requested by the service.
type ToolCall struct {
	FunctionCalls []FunctionCall
}

// Transcription is an incremental transcription fragment.
type Transcription struct {
	Text string
}

// ModelTurn is the assistant content part list for the active turn.
type ModelTurn struct {
	Parts []Part
}

// Part is one piece of model turn content. Audio arrives as inline data.
type Part struct {
	InlineData *Blob
}

// Blob is binary content with its MIME type, transport-encoded as base64
// text on the wire.
type Blob struct {
	MIMEType string
	Data     string
}
