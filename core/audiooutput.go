package orchestration

import (
	"time"
)

// AudioOutput is a playback device that renders queued s16 audio and fires
// position marks once playback passes them.
type AudioOutput interface {
	SendAudio(audio []byte) error
	Mark(id string, callback func(id string)) error
	ClearBuffer()
	Elapsed() time.Duration
}

// audioOutput is the facade that normalizes output delivery. Nil-safe so
// the orchestrator can run without a configured device (e.g. in tests).
type audioOutput struct {
	base AudioOutput
}

func newAudioOutput(client AudioOutput) *audioOutput {
	return &audioOutput{base: client}
}

func (a *audioOutput) isConfigured() bool { return a != nil && a.base != nil }

func (a *audioOutput) SendAudio(audio []byte) error {
	if !a.isConfigured() {
		return nil
	}
	return a.base.SendAudio(audio)
}

// Mark registers an end-of-payload callback. Without a configured device the
// callback fires immediately so playback accounting still completes.
func (a *audioOutput) Mark(id string, callback func(id string)) {
	if callback == nil {
		callback = func(string) {}
	}
	if !a.isConfigured() {
		callback(id)
		return
	}
	if err := a.base.Mark(id, callback); err != nil {
		callback(id)
	}
}

func (a *audioOutput) Clear() {
	if !a.isConfigured() {
		return
	}
	a.base.ClearBuffer()
}

func (a *audioOutput) Elapsed() time.Duration {
	if !a.isConfigured() {
		return 0
	}
	return a.base.Elapsed()
}
