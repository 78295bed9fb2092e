package core

// Conn is a live client session as seen by the core layer.
// Implementations are owned by the transport; the core only references them.
type Conn interface {
	// ID returns a stable identity unique among live connections.
	ID() string
	// Alive reports whether the peer can still receive messages.
	Alive() bool
	// Send queues a serialized envelope for delivery.
	Send(data []byte) error
}

// IDGenerator produces unique room identifiers.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

// NewID calls f.
func (f IDGeneratorFunc) NewID() string {
	return f()
}
