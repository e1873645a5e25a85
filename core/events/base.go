package events

import "time"

// Kind names an event type within a receiver-facing namespace.
type Kind string

// Event is the contract every orchestration event satisfies.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and creation timestamp shared by all events.
type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
