package orchestration

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/koscakluka/vela-core/core/audio"
)

// speechPlayer schedules decoded assistant audio for gapless back-to-back
// playback and tracks every in-flight payload so an interruption can stop
// them all at once.
type speechPlayer struct {
	mu sync.Mutex

	output *audioOutput
	// clock reads the output device's rendered-time position.
	clock func() time.Duration

	// cursor is the next payload's earliest start time. Monotonically
	// non-decreasing except for the explicit reset on interruption.
	cursor time.Duration
	// active holds every scheduled payload that has not finished or been
	// stopped, keyed by handle ID.
	active map[string]time.Duration

	// onPayloadEnded reports natural end of one scheduled payload.
	onPayloadEnded func(handleID string)
}

func newSpeechPlayer(output *audioOutput, clock func() time.Duration, onPayloadEnded func(handleID string)) *speechPlayer {
	if clock == nil {
		clock = func() time.Duration { return 0 }
	}
	if onPayloadEnded == nil {
		onPayloadEnded = func(string) {}
	}

	return &speechPlayer{
		output:         output,
		clock:          clock,
		active:         map[string]time.Duration{},
		onPayloadEnded: onPayloadEnded,
	}
}

// Schedule decodes one raw PCM payload and queues it so that it starts at
// max(cursor, output clock): never in the past relative to the device, and
// never overlapping the previously scheduled payload.
func (p *speechPlayer) Schedule(pcm []byte) (handleID string, err error) {
	buffer, err := audio.DecodeAudioData(pcm, audio.OutputSampleRate, 1)
	if err != nil {
		return "", fmt.Errorf("failed to decode assistant audio payload: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	startAt := max(p.cursor, p.clock())
	p.cursor = startAt + buffer.Duration()

	handleID = uuid.NewString()
	p.active[handleID] = startAt

	if err := p.output.SendAudio(audio.PCM16FromFloat32(buffer.Samples)); err != nil {
		delete(p.active, handleID)
		return "", fmt.Errorf("failed to queue assistant audio payload: %w", err)
	}
	p.output.Mark(handleID, p.onPayloadEnded)

	return handleID, nil
}

// PayloadEnded deregisters a handle on natural end of playback. Returns true
// when that was the last active payload, meaning the assistant has finished
// speaking.
func (p *speechPlayer) PayloadEnded(handleID string) (drained bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.active[handleID]; !ok {
		// Already stopped by an interruption.
		return false
	}

	delete(p.active, handleID)
	return len(p.active) == 0
}

// Interrupt forcibly stops every active payload, discards still-buffered
// audio, and resets the cursor to zero.
func (p *speechPlayer) Interrupt() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.output.Clear()
	p.active = map[string]time.Duration{}
	p.cursor = 0
}

func (p *speechPlayer) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}

func (p *speechPlayer) Cursor() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// StartTime reports the scheduled start of an active payload.
func (p *speechPlayer) StartTime(handleID string) (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	startAt, ok := p.active[handleID]
	return startAt, ok
}
