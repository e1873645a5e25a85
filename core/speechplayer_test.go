package orchestration

import (
	"sync"
	"testing"
	"time"

	"github.com/koscakluka/vela-core/core/audio"
)

type fakePlaybackSink struct {
	mu sync.Mutex

	clock time.Duration

	sent       [][]byte
	marks      []fakeMark
	clearCount int
}

type fakeMark struct {
	id       string
	callback func(id string)
}

func (s *fakePlaybackSink) SendAudio(audio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, audio)
	return nil
}

func (s *fakePlaybackSink) Mark(id string, callback func(id string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks = append(s.marks, fakeMark{id: id, callback: callback})
	return nil
}

func (s *fakePlaybackSink) ClearBuffer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCount = s.clearCount + 1
}

func (s *fakePlaybackSink) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

func (s *fakePlaybackSink) setClock(clock time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

func (s *fakePlaybackSink) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *fakePlaybackSink) clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearCount
}

func (s *fakePlaybackSink) lastMark() (fakeMark, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.marks) == 0 {
		return fakeMark{}, false
	}
	return s.marks[len(s.marks)-1], true
}

// pcmOfDuration builds silent s16 mono audio of the given length at the
// output sample rate.
func pcmOfDuration(duration time.Duration) []byte {
	frames := int(duration * audio.OutputSampleRate / time.Second)
	return make([]byte, frames*2)
}

func TestSchedulingChainsPayloadsBackToBack(t *testing.T) {
	sink := &fakePlaybackSink{}
	player := newSpeechPlayer(newAudioOutput(sink), sink.Elapsed, nil)

	firstID, err := player.Schedule(pcmOfDuration(100 * time.Millisecond))
	if err != nil {
		t.Fatalf("expected first payload to schedule, got %v", err)
	}

	firstStart, ok := player.StartTime(firstID)
	if !ok {
		t.Fatalf("expected first payload to be registered as active")
	}
	if firstStart != 0 {
		t.Fatalf("expected first payload to start at the clock origin, got %v", firstStart)
	}

	// The second payload arrives faster than real time: the clock has only
	// advanced 30ms but the cursor sits at 100ms.
	sink.setClock(30 * time.Millisecond)
	secondID, err := player.Schedule(pcmOfDuration(50 * time.Millisecond))
	if err != nil {
		t.Fatalf("expected second payload to schedule, got %v", err)
	}

	secondStart, _ := player.StartTime(secondID)
	if expected := 100 * time.Millisecond; secondStart != expected {
		t.Fatalf("expected second payload chained at %v, got %v", expected, secondStart)
	}
	if secondStart < sink.Elapsed() {
		t.Fatalf("expected start time %v to never precede the output clock %v", secondStart, sink.Elapsed())
	}
	if secondStart < firstStart+100*time.Millisecond {
		t.Fatalf("expected second payload not to overlap the first")
	}

	// The third payload arrives slower than real time: the clock has passed
	// the cursor, so the payload starts at the clock instead.
	sink.setClock(250 * time.Millisecond)
	thirdID, err := player.Schedule(pcmOfDuration(10 * time.Millisecond))
	if err != nil {
		t.Fatalf("expected third payload to schedule, got %v", err)
	}

	thirdStart, _ := player.StartTime(thirdID)
	if expected := 250 * time.Millisecond; thirdStart != expected {
		t.Fatalf("expected third payload to start at the output clock %v, got %v", expected, thirdStart)
	}
	if got := player.Cursor(); got != 260*time.Millisecond {
		t.Fatalf("expected cursor advanced past the third payload, got %v", got)
	}

	if got := sink.sentCount(); got != 3 {
		t.Fatalf("expected three payloads queued on the sink, got %d", got)
	}
}

func TestInterruptStopsEverythingAndResetsCursor(t *testing.T) {
	sink := &fakePlaybackSink{}
	player := newSpeechPlayer(newAudioOutput(sink), sink.Elapsed, nil)

	if _, err := player.Schedule(pcmOfDuration(100 * time.Millisecond)); err != nil {
		t.Fatalf("expected payload to schedule, got %v", err)
	}
	if _, err := player.Schedule(pcmOfDuration(100 * time.Millisecond)); err != nil {
		t.Fatalf("expected payload to schedule, got %v", err)
	}
	if got := player.ActiveCount(); got != 2 {
		t.Fatalf("expected two active payloads before interruption, got %d", got)
	}

	player.Interrupt()

	if got := player.ActiveCount(); got != 0 {
		t.Fatalf("expected no active payloads after interruption, got %d", got)
	}
	if got := player.Cursor(); got != 0 {
		t.Fatalf("expected cursor reset to zero after interruption, got %v", got)
	}
	if got := sink.clears(); got != 1 {
		t.Fatalf("expected buffered sink audio cleared once, got %d", got)
	}
}

func TestPayloadEndedDrainsActiveSetExactlyOnce(t *testing.T) {
	sink := &fakePlaybackSink{}

	endedSignal := make(chan string, 1)
	player := newSpeechPlayer(newAudioOutput(sink), sink.Elapsed, func(handleID string) {
		endedSignal <- handleID
	})

	if _, err := player.Schedule(pcmOfDuration(20 * time.Millisecond)); err != nil {
		t.Fatalf("expected payload to schedule, got %v", err)
	}

	mark, ok := sink.lastMark()
	if !ok {
		t.Fatalf("expected an end mark to be registered with the sink")
	}
	mark.callback(mark.id)

	select {
	case handleID := <-endedSignal:
		if drained := player.PayloadEnded(handleID); !drained {
			t.Fatalf("expected last payload ending to report the player drained")
		}
		if drained := player.PayloadEnded(handleID); drained {
			t.Fatalf("expected repeated payload ending to be ignored")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for payload end notification")
	}

	if got := player.ActiveCount(); got != 0 {
		t.Fatalf("expected no active payloads after natural end, got %d", got)
	}
}

func TestScheduleRejectsMalformedPayloads(t *testing.T) {
	sink := &fakePlaybackSink{}
	player := newSpeechPlayer(newAudioOutput(sink), sink.Elapsed, nil)

	if _, err := player.Schedule([]byte{0x00, 0x01, 0x02}); err == nil {
		t.Fatalf("expected odd-length payload to fail scheduling")
	}
	if got := player.ActiveCount(); got != 0 {
		t.Fatalf("expected no active payload after failed scheduling, got %d", got)
	}
	if got := player.Cursor(); got != 0 {
		t.Fatalf("expected cursor untouched after failed scheduling, got %v", got)
	}
	if got := sink.sentCount(); got != 0 {
		t.Fatalf("expected nothing queued on the sink, got %d", got)
	}
}
