// Package portaudio provides capture and playback devices on top of
// PortAudio, as an alternative to the miniaudio client.
package portaudio

import (
	"bytes"
	"encoding/binary"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/koscakluka/vela-core/core/audio"
)

type Client struct {
	bufferSize int

	captureStream  *portaudio.Stream
	playbackStream *portaudio.Stream

	in  []float32
	out []int16

	leftoverAudio  []byte
	marks          []playbackMark
	framesRendered int64

	capturing atomic.Bool
	closed    atomic.Bool
	audioMu   sync.Mutex
}

type playbackMark struct {
	name     string
	position int
	callback func(string)
}

func NewClient(bufferSize int) (*Client, error) {
	err := portaudio.Initialize()
	if err != nil {
		log.Fatalf("Failed to initialize PortAudio: %v", err)
		return nil, err
	}

	client := &Client{
		bufferSize: bufferSize,
		in:         make([]float32, bufferSize),
		out:        make([]int16, bufferSize),
	}

	if client.captureStream, err = portaudio.OpenDefaultStream(
		1, 0, audio.InputSampleRate, bufferSize, client.in,
	); err != nil {
		log.Fatalf("Failed to open PortAudio capture stream: %v", err)
	}

	if client.playbackStream, err = portaudio.OpenDefaultStream(
		0, 1, audio.OutputSampleRate, bufferSize, client.out,
	); err != nil {
		log.Fatalf("Failed to open PortAudio playback stream: %v", err)
	}

	go client.renderLoop()

	return client, nil
}

func (c *Client) StartCapture(onSamples func(samples []float32)) error {
	if err := c.captureStream.Start(); err != nil {
		return err
	}

	c.capturing.Store(true)
	go func() {
		for c.capturing.Load() {
			if err := c.captureStream.Read(); err != nil {
				log.Printf("Failed to read from PortAudio stream: %v", err)
				continue
			}

			samples := make([]float32, len(c.in))
			copy(samples, c.in)
			onSamples(samples)
		}
	}()
	return nil
}

func (c *Client) StopCapture() error {
	c.capturing.Store(false)
	return c.captureStream.Stop()
}

func (c *Client) renderLoop() {
	if err := c.playbackStream.Start(); err != nil {
		log.Printf("Failed to start PortAudio playback stream: %v", err)
		return
	}

	need := c.bufferSize * 2
	for !c.closed.Load() {
		c.audioMu.Lock()
		available := min(need, len(c.leftoverAudio))
		chunk := make([]byte, need)
		copy(chunk, c.leftoverAudio[:available])
		c.leftoverAudio = c.leftoverAudio[available:]
		toCall := c.consumeMarks(available)
		c.framesRendered += int64(c.bufferSize)
		c.audioMu.Unlock()

		for _, mark := range toCall {
			go mark.callback(mark.name)
		}

		binary.Read(bytes.NewBuffer(chunk), binary.LittleEndian, c.out)
		if err := c.playbackStream.Write(); err != nil {
			return
		}
	}
}

// consumeMarks must be called with audioMu held.
func (c *Client) consumeMarks(consumed int) []playbackMark {
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

func (c *Client) SendAudio(audio []byte) error {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.leftoverAudio = append(c.leftoverAudio, audio...)
	return nil
}

func (c *Client) Mark(mark string, callback func(string)) error {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.marks = append(c.marks, playbackMark{
		name:     mark,
		position: len(c.leftoverAudio),
		callback: callback,
	})
	return nil
}

func (c *Client) ClearBuffer() {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.leftoverAudio = make([]byte, 0)
	c.marks = nil
}

func (c *Client) Elapsed() time.Duration {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	return time.Duration(c.framesRendered) * time.Second / time.Duration(audio.OutputSampleRate)
}

func (c *Client) Close() {
	c.capturing.Store(false)
	c.closed.Store(true)
	c.captureStream.Close()
	c.playbackStream.Close()
	portaudio.Terminate()
}

func (c *Client) CaptureEncodingInfo() audio.EncodingInfo {
	return audio.GetInputEncodingInfo()
}

func (c *Client) PlaybackEncodingInfo() audio.EncodingInfo {
	return audio.GetOutputEncodingInfo()
}
