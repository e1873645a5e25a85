package orchestration

import "testing"

func TestCompleteTurnFlushesUserThenAssistant(t *testing.T) {
	conversation := newConversation()

	conversation.AppendUserFragment("Hel")
	conversation.AppendUserFragment("lo")
	conversation.AppendAssistantFragment("Hi ")
	conversation.AppendAssistantFragment("there")

	appended := conversation.CompleteTurn()

	if len(appended) != 2 {
		t.Fatalf("expected exactly two messages appended, got %d", len(appended))
	}
	if appended[0].Speaker != SpeakerUser || appended[0].Text != "Hello" {
		t.Fatalf("expected user message %q first, got %+v", "Hello", appended[0])
	}
	if appended[1].Speaker != SpeakerAssistant || appended[1].Text != "Hi there" {
		t.Fatalf("expected assistant message %q second, got %+v", "Hi there", appended[1])
	}

	user, assistant := conversation.PendingTranscripts()
	if user != "" || assistant != "" {
		t.Fatalf("expected both accumulators cleared, got %q and %q", user, assistant)
	}
}

func TestCompleteTurnSkipsEmptyAccumulators(t *testing.T) {
	conversation := newConversation()

	conversation.AppendAssistantFragment("Just me")

	appended := conversation.CompleteTurn()
	if len(appended) != 1 {
		t.Fatalf("expected a single assistant message, got %d", len(appended))
	}
	if appended[0].Speaker != SpeakerAssistant {
		t.Fatalf("expected assistant message, got %+v", appended[0])
	}
}

func TestCompleteTurnIgnoresWhitespaceOnlyAccumulators(t *testing.T) {
	conversation := newConversation()

	conversation.AppendUserFragment("  \n ")

	if appended := conversation.CompleteTurn(); len(appended) != 0 {
		t.Fatalf("expected whitespace-only accumulator to produce no message, got %d", len(appended))
	}
}

func TestMessageIDsAreMonotonic(t *testing.T) {
	conversation := newConversation()

	var lastID int64
	for i := 0; i < 3; i++ {
		conversation.AppendUserFragment("ping")
		conversation.AppendAssistantFragment("pong")
		for _, message := range conversation.CompleteTurn() {
			if message.ID <= lastID {
				t.Fatalf("expected message IDs to increase, got %d after %d", message.ID, lastID)
			}
			lastID = message.ID
		}
	}

	if messages := conversation.Messages(); len(messages) != 6 {
		t.Fatalf("expected six logged messages, got %d", len(messages))
	}
}

func TestMessagesReturnsACopy(t *testing.T) {
	conversation := newConversation()
	conversation.AppendUserFragment("original")
	conversation.CompleteTurn()

	messages := conversation.Messages()
	messages[0].Text = "mutated"

	if got := conversation.Messages()[0].Text; got != "original" {
		t.Fatalf("expected log to be immutable through snapshots, got %q", got)
	}
}
