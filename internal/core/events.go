package core

// EventType names a diagnostic event emitted by the gate or the lifecycle
// controller.
type EventType string

const (
	EventCommandUsed                   EventType = "command-used"
	EventCommandOwnerOnly              EventType = "command-owner-only"
	EventCommandGuildOnly              EventType = "command-guild-only"
	EventCommandDMOnly                 EventType = "command-dm-only"
	EventCommandNSFW                   EventType = "command-nsfw"
	EventCommandBotMissingPermissions  EventType = "command-bot-missing-permissions"
	EventCommandUserMissingPermissions EventType = "command-user-missing-permissions"
	EventCommandMissingArgs            EventType = "command-missing-args"
	EventCommandError                  EventType = "command-error"
)

// Event is one diagnostic notification. Missing is set on the two
// missing-permissions events, Err on command-error.
type Event struct {
	Type    EventType
	Ctx     *Context
	Missing []string
	Err     error
}

// Bus is a buffered diagnostic event channel. Publish never blocks; when no
// consumer keeps up, events are dropped rather than stalling dispatch.
type Bus struct {
	ch chan Event
}

// NewBus returns a bus with the given buffer size.
func NewBus(size int) *Bus {
	if size <= 0 {
		size = 16
	}
	return &Bus{ch: make(chan Event, size)}
}

// Publish delivers an event to the bus, dropping it when the buffer is full.
func (b *Bus) Publish(evt Event) {
	select {
	case b.ch <- evt:
	default:
	}
}

// Events returns the receive side of the bus.
func (b *Bus) Events() <-chan Event {
	return b.ch
}
