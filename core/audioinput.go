package orchestration

import (
	"sync"
	"sync/atomic"

	"github.com/koscakluka/vela-core/core/audio"
)

// AudioInput is a capture device producing normalized float samples at the
// input sample rate, mono.
type AudioInput interface {
	StartCapture(onSamples func(samples []float32)) error
	StopCapture() error
}

// audioInput is the facade that normalizes capture behavior: it collects
// device callbacks into fixed-size blocks, converts them to 16-bit PCM, and
// hands each complete frame to the configured callback.
type audioInput struct {
	// base stores the configured input client used for streaming audio.
	base AudioInput

	// connected reports whether a concrete input client is currently configured.
	connected atomic.Bool
	// isCapturing reports whether the input client is currently capturing audio.
	isCapturing atomic.Bool

	// pending accumulates samples until a full capture frame is available.
	pending   []float32
	pendingMu sync.Mutex

	// onFrame is called once per complete 16-bit PCM frame.
	onFrame func(frame []byte)
}

func newAudioInput(client AudioInput, onFrame func(frame []byte)) *audioInput {
	if onFrame == nil {
		onFrame = func([]byte) {}
	}

	input := audioInput{onFrame: onFrame}
	input.Set(client)
	return &input
}

func (a *audioInput) Set(client AudioInput) {
	if a == nil {
		return
	}

	a.base = client
	a.connected.Store(client != nil)
	a.isCapturing.Store(false)
}

func (a *audioInput) IsConfigured() bool { return a != nil && a.connected.Load() }
func (a *audioInput) IsCapturing() bool  { return a != nil && a.isCapturing.Load() }

func (a *audioInput) StartCapture() error {
	if !a.IsConfigured() || a.isCapturing.Load() {
		return nil
	}

	if err := a.base.StartCapture(a.collect); err != nil {
		return err
	}
	a.isCapturing.Store(true)
	return nil
}

func (a *audioInput) StopCapture() error {
	if !a.IsConfigured() || !a.isCapturing.Load() {
		return nil
	}

	a.isCapturing.Store(false)

	a.pendingMu.Lock()
	a.pending = nil
	a.pendingMu.Unlock()

	return a.base.StopCapture()
}

// collect accumulates device samples and emits every complete block as a
// 16-bit PCM frame. A partial tail block stays pending until the next device
// callback fills it.
func (a *audioInput) collect(samples []float32) {
	var frames [][]byte

	a.pendingMu.Lock()
	a.pending = append(a.pending, samples...)
	for len(a.pending) >= audio.CaptureFrameSamples {
		frames = append(frames, audio.PCM16FromFloat32(a.pending[:audio.CaptureFrameSamples]))
		a.pending = a.pending[audio.CaptureFrameSamples:]
	}
	a.pendingMu.Unlock()

	for _, frame := range frames {
		a.onFrame(frame)
	}
}

func (a *audioInput) EncodingInfo() audio.EncodingInfo {
	return audio.GetInputEncodingInfo()
}
