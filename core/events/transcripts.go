package events

const (
	// KindUserTranscriptFragment identifies incremental user transcription.
	KindUserTranscriptFragment Kind = "user_input.transcript_fragment"
	// KindAssistantTranscriptFragment identifies incremental assistant transcription.
	KindAssistantTranscriptFragment Kind = "assistant_response.transcript_fragment"
)

// UserTranscriptFragment carries an incremental transcription of captured
// microphone audio. Fragments arrive in order and are never revised.
type UserTranscriptFragment struct {
	Base
	Text string
}

// NewUserTranscriptFragment creates a user transcript fragment event.
func NewUserTranscriptFragment(text string) UserTranscriptFragment {
	return UserTranscriptFragment{Base: NewBase(KindUserTranscriptFragment), Text: text}
}

// AssistantTranscriptFragment carries an incremental transcription of
// synthesized assistant speech.
type AssistantTranscriptFragment struct {
	Base
	Text string
}

// NewAssistantTranscriptFragment creates an assistant transcript fragment event.
func NewAssistantTranscriptFragment(text string) AssistantTranscriptFragment {
	return AssistantTranscriptFragment{Base: NewBase(KindAssistantTranscriptFragment), Text: text}
}
