package orchestration

import (
	"strings"
	"sync"
)

// Speaker identifies which side of the conversation produced a message.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Message is one completed utterance in the conversation log. Immutable once
// created.
type Message struct {
	// ID is unique and monotonically increasing across the conversation.
	ID      int64
	Speaker Speaker
	Text    string
}

// activeConversation owns the append-only message log and the pending
// utterance accumulators. Mutation happens only on the runtime consumer;
// snapshots may be taken from any goroutine.
type activeConversation struct {
	mu sync.RWMutex

	messages []Message
	nextID   int64

	// pendingUser and pendingAssistant collect transcription fragments
	// between turn boundaries, in arrival order, without deduplication.
	pendingUser      strings.Builder
	pendingAssistant strings.Builder
}

func newConversation() *activeConversation {
	return &activeConversation{nextID: 1}
}

func (c *activeConversation) AppendUserFragment(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingUser.WriteString(text)
}

func (c *activeConversation) AppendAssistantFragment(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingAssistant.WriteString(text)
}

// CompleteTurn flushes both accumulators into the log and clears them. The
// user message goes first, then the assistant, skipping either when its
// trimmed text is empty. Returns the messages that were appended.
func (c *activeConversation) CompleteTurn() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	var appended []Message
	if text := strings.TrimSpace(c.pendingUser.String()); text != "" {
		appended = append(appended, c.appendLocked(SpeakerUser, text))
	}
	if text := strings.TrimSpace(c.pendingAssistant.String()); text != "" {
		appended = append(appended, c.appendLocked(SpeakerAssistant, text))
	}

	c.pendingUser.Reset()
	c.pendingAssistant.Reset()

	return appended
}

// appendLocked is only safe to call with the mutex held.
func (c *activeConversation) appendLocked(speaker Speaker, text string) Message {
	message := Message{ID: c.nextID, Speaker: speaker, Text: text}
	c.nextID++
	c.messages = append(c.messages, message)
	return message
}

// Messages returns a point-in-time copy of the conversation log.
func (c *activeConversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	messages := make([]Message, len(c.messages))
	copy(messages, c.messages)
	return messages
}

// PendingTranscripts returns the current accumulator contents. Used for
// interim display and by tests.
func (c *activeConversation) PendingTranscripts() (user, assistant string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pendingUser.String(), c.pendingAssistant.String()
}
