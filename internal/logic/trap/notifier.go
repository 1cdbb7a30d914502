package trap

import "sync"

// eventBuffer is the per-subscriber channel depth. Subscribers that
// fall this far behind miss events rather than stall the capture path.
const eventBuffer = 64

// Notifier distributes events to multiple subscribers.
type Notifier struct {
	mu      sync.RWMutex
	clients map[chan Event]struct{}
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		clients: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives published events and a
// cleanup function. The caller must call the cleanup when done; it
// closes the channel.
func (n *Notifier) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, eventBuffer)
	n.mu.Lock()
	n.clients[ch] = struct{}{}
	n.mu.Unlock()

	unsub := func() {
		n.mu.Lock()
		delete(n.clients, ch)
		n.mu.Unlock()
		close(ch)
	}
	return ch, unsub
}

// Publish sends evt to all subscribers without blocking.
func (n *Notifier) Publish(evt Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.clients {
		select {
		case ch <- evt:
		default:
			// channel full, skip
		}
	}
}
