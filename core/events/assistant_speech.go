package events

const (
	// KindAssistantAudioPayload identifies synthesized speech audio to play.
	KindAssistantAudioPayload Kind = "assistant_speech.audio_payload"
	// KindAssistantPlaybackEnded identifies completion of one playback handle.
	KindAssistantPlaybackEnded Kind = "assistant_playback.ended"
)

// AssistantAudioPayload carries one raw PCM chunk of synthesized assistant
// speech, already decoded from its transport encoding.
type AssistantAudioPayload struct {
	Base
	Audio []byte
}

// NewAssistantAudioPayload creates an assistant audio payload event.
func NewAssistantAudioPayload(audio []byte) AssistantAudioPayload {
	return AssistantAudioPayload{Base: NewBase(KindAssistantAudioPayload), Audio: audio}
}

// AssistantPlaybackEnded marks natural end of playback for one scheduled
// handle.
type AssistantPlaybackEnded struct {
	Base
	HandleID string
}

// NewAssistantPlaybackEnded creates a playback ended event.
func NewAssistantPlaybackEnded(handleID string) AssistantPlaybackEnded {
	return AssistantPlaybackEnded{Base: NewBase(KindAssistantPlaybackEnded), HandleID: handleID}
}
