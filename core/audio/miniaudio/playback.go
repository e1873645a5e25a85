package miniaudio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/vela-core/core/audio"
)

type playbackClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	leftoverAudio []byte
	marks         []playbackMark

	// framesRendered counts every frame the device pulled, silence included,
	// which makes it the output clock.
	framesRendered atomic.Int64

	mu      sync.Mutex
	audioMu sync.Mutex
	marksMu sync.Mutex
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sampleRate := uint32(audio.OutputSampleRate)
	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Playback)
	c.config.SampleRate = sampleRate
	c.config.Playback.Format = format
	c.config.Playback.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	c.config.Periods = 4

	c.audioContext = audioContext

	var err error
	if c.device, err = malgo.InitDevice(
		c.audioContext.Context,
		c.config,
		malgo.DeviceCallbacks{Data: c.processAudio(bytesPerFrame)},
	); err != nil {
		return err
	}

	return nil
}

func (c *playbackClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	return nil
}

func (c *playbackClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}

	c.ClearBuffer()
	return nil
}

func (c *playbackClient) SendAudio(audio []byte) error {
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return fmt.Errorf("device not started")
	}

	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.leftoverAudio = append(c.leftoverAudio, audio...)
	return nil
}

// ClearBuffer drops all queued audio and forgets pending marks without
// calling them. Used on interruption.
func (c *playbackClient) ClearBuffer() {
	c.audioMu.Lock()
	c.marksMu.Lock()
	defer c.audioMu.Unlock()
	defer c.marksMu.Unlock()
	c.leftoverAudio = make([]byte, 0)
	c.marks = nil
}

// Mark registers a callback fired once playback passes the current end of
// the queued audio.
func (c *playbackClient) Mark(mark string, callback func(string)) error {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.marksMu.Lock()
	defer c.marksMu.Unlock()
	c.marks = append(c.marks, playbackMark{
		name:     mark,
		position: len(c.leftoverAudio),
		callback: callback,
	})
	return nil
}

// Elapsed is the output clock: total time the device has spent rendering,
// silence included.
func (c *playbackClient) Elapsed() time.Duration {
	return time.Duration(c.framesRendered.Load()) * time.Second / time.Duration(audio.OutputSampleRate)
}

func (c *playbackClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	c.device.Uninit()
	c.device = nil

	return nil
}

type playbackMark struct {
	name     string
	position int
	callback func(string)
}

func (c *playbackClient) processAudio(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		c.framesRendered.Add(int64(frameCount))

		need := int(frameCount) * bytesPerFrame

		// Mark accounting stays under audioMu with the consumption itself,
		// so a mark registered while this period drains is never decremented
		// against audio consumed before its registration.
		c.audioMu.Lock()
		available := min(need, len(c.leftoverAudio))
		_ = copy(pOutput, c.leftoverAudio[:available])
		c.leftoverAudio = c.leftoverAudio[available:]
		toCall := c.consumeMarks(available)
		c.audioMu.Unlock()

		if len(toCall) > 0 {
			go func() {
				for _, mark := range toCall {
					mark.callback(mark.name)
				}
			}()
		}
	}
}

// consumeMarks must be called with audioMu held.
func (c *playbackClient) consumeMarks(consumed int) []playbackMark {
	c.marksMu.Lock()
	defer c.marksMu.Unlock()

	passedMarks := 0
	for i, mark := range c.marks {
		if mark.position > consumed {
			c.marks[i].position -= consumed
		} else {
			passedMarks++
		}
	}

	var toCall []playbackMark
	if passedMarks > 0 {
		toCall = c.marks[:passedMarks]
		c.marks = c.marks[passedMarks:]
	}
	return toCall
}
