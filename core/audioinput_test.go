package orchestration

import (
	"sync"
	"testing"

	"github.com/koscakluka/vela-core/core/audio"
)

type fakeCaptureClient struct {
	mu sync.Mutex

	onSamples func(samples []float32)

	startCalls int
	stopCalls  int
	startErr   error
}

func (c *fakeCaptureClient) StartCapture(onSamples func(samples []float32)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startErr != nil {
		return c.startErr
	}
	c.startCalls++
	c.onSamples = onSamples
	return nil
}

func (c *fakeCaptureClient) StopCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopCalls++
	c.onSamples = nil
	return nil
}

func (c *fakeCaptureClient) push(samples []float32) {
	c.mu.Lock()
	onSamples := c.onSamples
	c.mu.Unlock()
	if onSamples != nil {
		onSamples(samples)
	}
}

func TestCaptureFramesAreEmittedPerBlock(t *testing.T) {
	client := &fakeCaptureClient{}

	var frames [][]byte
	input := newAudioInput(client, func(frame []byte) {
		frames = append(frames, frame)
	})
	if err := input.StartCapture(); err != nil {
		t.Fatalf("expected capture to start, got %v", err)
	}

	// One device callback bigger than a block: exactly one frame comes out
	// and the tail stays pending.
	client.push(make([]float32, audio.CaptureFrameSamples+904))
	if len(frames) != 1 {
		t.Fatalf("expected one frame after first block, got %d", len(frames))
	}
	if got := len(frames[0]); got != audio.CaptureFrameSamples*2 {
		t.Fatalf("expected %d-byte s16 frame, got %d", audio.CaptureFrameSamples*2, got)
	}

	// The pending tail plus this push crosses the next block boundary.
	client.push(make([]float32, audio.CaptureFrameSamples-904))
	if len(frames) != 2 {
		t.Fatalf("expected second frame once the block filled, got %d", len(frames))
	}
}

func TestCaptureConvertsSamplesToPCM16(t *testing.T) {
	client := &fakeCaptureClient{}

	frameSignal := make(chan []byte, 1)
	input := newAudioInput(client, func(frame []byte) { frameSignal <- frame })
	if err := input.StartCapture(); err != nil {
		t.Fatalf("expected capture to start, got %v", err)
	}

	samples := make([]float32, audio.CaptureFrameSamples)
	samples[0] = 1.0
	samples[1] = -1.0
	client.push(samples)

	frame := <-frameSignal
	if got := int16(uint16(frame[0]) | uint16(frame[1])<<8); got != 32767 {
		t.Fatalf("expected full-scale sample encoded as 32767, got %d", got)
	}
	if got := int16(uint16(frame[2]) | uint16(frame[3])<<8); got != -32768 {
		t.Fatalf("expected negative full-scale sample encoded as -32768, got %d", got)
	}
}

func TestStopCaptureDropsPendingSamples(t *testing.T) {
	client := &fakeCaptureClient{}

	var frames int
	input := newAudioInput(client, func([]byte) { frames++ })
	if err := input.StartCapture(); err != nil {
		t.Fatalf("expected capture to start, got %v", err)
	}

	client.push(make([]float32, audio.CaptureFrameSamples/2))
	if err := input.StopCapture(); err != nil {
		t.Fatalf("expected capture to stop, got %v", err)
	}
	if err := input.StartCapture(); err != nil {
		t.Fatalf("expected capture to restart, got %v", err)
	}
	client.push(make([]float32, audio.CaptureFrameSamples/2))

	if frames != 0 {
		t.Fatalf("expected pending samples dropped across a stop, got %d frames", frames)
	}
}

func TestUnconfiguredInputIsNoOp(t *testing.T) {
	input := newAudioInput(nil, nil)

	if err := input.StartCapture(); err != nil {
		t.Fatalf("expected unconfigured start to be a no-op, got %v", err)
	}
	if err := input.StopCapture(); err != nil {
		t.Fatalf("expected unconfigured stop to be a no-op, got %v", err)
	}
	if input.IsConfigured() {
		t.Fatalf("expected input to report unconfigured")
	}
}
