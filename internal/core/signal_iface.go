package core

// Frame is a marshaled wire message ready for the transport.
type Frame []byte

// ConnID identifies one live transport session, assigned at accept time.
type ConnID string

// SignalConnection abstracts the messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
