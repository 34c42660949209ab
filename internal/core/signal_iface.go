package core

// Frame is a raw event payload as delivered by the channel.
type Frame []byte

// Handler receives one inbound event payload.
type Handler func(payload Frame)

// Channel abstracts the realtime publish/subscribe transport.
// Handlers for one channel run sequentially in delivery order.
type Channel interface {
	Emit(event string, payload any) error
	On(event string, h Handler) (off func())
}
