package events

import (
	"errors"
	"testing"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "session opened", event: NewSessionOpened(), expected: KindSessionOpened},
		{name: "session fault", event: NewSessionFault(errors.New("boom")), expected: KindSessionFault},
		{name: "session closed", event: NewSessionClosed(nil), expected: KindSessionClosed},
		{name: "user transcript fragment", event: NewUserTranscriptFragment("hel"), expected: KindUserTranscriptFragment},
		{name: "assistant transcript fragment", event: NewAssistantTranscriptFragment("hi "), expected: KindAssistantTranscriptFragment},
		{name: "assistant audio payload", event: NewAssistantAudioPayload([]byte{1}), expected: KindAssistantAudioPayload},
		{name: "assistant playback ended", event: NewAssistantPlaybackEnded("handle"), expected: KindAssistantPlaybackEnded},
		{name: "turn completed", event: NewTurnCompleted(), expected: KindTurnCompleted},
		{name: "interrupted", event: NewInterrupted(), expected: KindInterrupted},
		{name: "tool call requested", event: NewToolCallRequested("id", "name", "{}"), expected: KindToolCallRequested},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestKindsAreUnique(t *testing.T) {
	kinds := []Kind{
		KindSessionOpened, KindSessionFault, KindSessionClosed,
		KindUserTranscriptFragment, KindAssistantTranscriptFragment,
		KindAssistantAudioPayload, KindAssistantPlaybackEnded,
		KindTurnCompleted, KindInterrupted,
		KindToolCallRequested,
	}

	seen := map[Kind]struct{}{}
	for _, kind := range kinds {
		if _, ok := seen[kind]; ok {
			t.Fatalf("expected event kinds to be unique, %q repeats", kind)
		}
		seen[kind] = struct{}{}
	}
}
