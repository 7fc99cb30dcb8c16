package relay

import "sparmatch/backend/internal/models"

// Client is the interface for one live bidirectional connection. It
// abstracts the underlying transport so the registry and router can manage
// connections uniformly (and tests can substitute in-memory clients).
type Client interface {
	// GetUserID returns the identity authenticated at connection time,
	// or "" when the transport carries none.
	GetUserID() string

	// GetSendChannel returns the channel the router pushes outbound events
	// into. Sends through it are fire-and-forget: when the buffer is full
	// the event is dropped rather than blocking the relay.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's outbound channel, stopping its write
	// pump. Called by the registry on unregister.
	Close()
}
