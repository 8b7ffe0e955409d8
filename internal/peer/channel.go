// Package peer carries board snapshots between two directly connected
// peers. The store only needs the Channel contract; how the channel was
// established is the host's business.
package peer

// Channel is a message-oriented, ordered link to exactly one remote peer.
//
// Send is only meaningful while IsConnected reports true; implementations
// return domain.ErrChannelUnavailable otherwise. OnMessage replaces any
// previously registered handler; a nil handler detaches it. Handlers may be
// invoked from a goroutine owned by the channel.
type Channel interface {
	IsConnected() bool
	Send(payload string) error
	OnMessage(handler func(payload string))
}
