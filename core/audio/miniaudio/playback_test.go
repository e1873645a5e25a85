package miniaudio

import (
	"testing"
	"time"

	"github.com/koscakluka/vela-core/core/audio"
)

func TestMarksFireOnlyAfterTheirAudioIsConsumed(t *testing.T) {
	client := &playbackClient{}
	dataCallback := client.processAudio(2)

	client.audioMu.Lock()
	client.leftoverAudio = make([]byte, 200)
	client.audioMu.Unlock()

	markSignal := make(chan string, 1)
	if err := client.Mark("payload", func(id string) { markSignal <- id }); err != nil {
		t.Fatalf("expected mark registration to succeed, got %v", err)
	}

	output := make([]byte, 100)
	dataCallback(output, nil, 50)

	select {
	case <-markSignal:
		t.Fatalf("expected mark not to fire before its audio was consumed")
	case <-time.After(50 * time.Millisecond):
	}

	dataCallback(output, nil, 50)

	select {
	case id := <-markSignal:
		if id != "payload" {
			t.Fatalf("expected mark %q, got %q", "payload", id)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for mark to fire")
	}

	if got := client.Elapsed(); got != 100*time.Second/time.Duration(audio.OutputSampleRate) {
		t.Fatalf("expected output clock to count every rendered frame, got %v", got)
	}
}

func TestClearBufferDropsPendingMarksWithoutFiring(t *testing.T) {
	client := &playbackClient{}
	dataCallback := client.processAudio(2)

	client.audioMu.Lock()
	client.leftoverAudio = make([]byte, 100)
	client.audioMu.Unlock()

	markSignal := make(chan string, 1)
	if err := client.Mark("discarded", func(id string) { markSignal <- id }); err != nil {
		t.Fatalf("expected mark registration to succeed, got %v", err)
	}

	client.ClearBuffer()
	dataCallback(make([]byte, 100), nil, 50)

	select {
	case <-markSignal:
		t.Fatalf("expected cleared mark never to fire")
	case <-time.After(50 * time.Millisecond):
	}
}
