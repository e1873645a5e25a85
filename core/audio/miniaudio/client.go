// Package miniaudio provides microphone capture and speech playback devices
// on top of malgo.
package miniaudio

import (
	"fmt"
	"log"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/vela-core/core/audio"
)

type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playbackClient
	captureClient
}

func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) {}, //log.Println("malgo:", message) },
	)
	if err != nil {
		log.Fatalf("malgo InitContext failed: %v", err)
	}

	client := Client{
		audioContext: audioCtx,
	}

	if err := client.playbackClient.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize playback client: %w", err)
	}

	if err := client.playbackClient.Start(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	if err := client.captureClient.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture client: %w", err)
	}

	return &client, nil
}

func (c *Client) Close() {
	_ = c.captureClient.Uninit()
	_ = c.playbackClient.Uninit()
	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}

func (c *Client) SendAudio(audio []byte) error {
	return c.playbackClient.SendAudio(audio)
}

func (c *Client) ClearBuffer() {
	c.playbackClient.ClearBuffer()
}

func (c *Client) Mark(id string, callback func(string)) error {
	return c.playbackClient.Mark(id, callback)
}

func (c *Client) Elapsed() time.Duration {
	return c.playbackClient.Elapsed()
}

func (c *Client) CaptureEncodingInfo() audio.EncodingInfo {
	return audio.GetInputEncodingInfo()
}

func (c *Client) PlaybackEncodingInfo() audio.EncodingInfo {
	return audio.GetOutputEncodingInfo()
}
