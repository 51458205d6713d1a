package storefront

import "github.com/Reagan-marera/imoflames-sub000/internal/ui"

// MessageType names a pushed message.
type MessageType string

const (
	MessageCartChanged      MessageType = "cart_changed"
	MessageCarouselAdvanced MessageType = "carousel_advanced"
	MessageNotification     MessageType = "notification"
)

// Message is pushed to watchers of a session.
type Message struct {
	Type   MessageType `json:"type"`
	Index  *int        `json:"index,omitempty"`
	Notice *ui.Notice  `json:"notice,omitempty"`
}

// Watch registers a watcher and returns its channel plus a func that removes
// it. The carousel runs while at least one watcher is registered. Messages are
// dropped for a watcher whose buffer is full. The channel is closed on
// unwatch or when the controller closes.
func (c *Controller) Watch(buffer int) (<-chan Message, func()) {
	ch := make(chan Message, buffer)

	c.mountMu.Lock()
	defer c.mountMu.Unlock()

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		close(ch)
		return ch, func() {}
	}

	c.watchMu.Lock()
	c.nextID++
	id := c.nextID
	c.watchers[id] = ch
	first := len(c.watchers) == 1
	c.watchMu.Unlock()

	if first {
		c.carousel.Start()
	}

	return ch, func() { c.unwatch(id) }
}

func (c *Controller) unwatch(id int) {
	c.mountMu.Lock()
	defer c.mountMu.Unlock()

	c.watchMu.Lock()
	ch, ok := c.watchers[id]
	if !ok {
		c.watchMu.Unlock()
		return
	}
	delete(c.watchers, id)
	close(ch)
	last := len(c.watchers) == 0
	c.watchMu.Unlock()

	// Stop waits for the timer, which may be broadcasting; watchMu must be free.
	if last {
		c.carousel.Stop()
	}
}

// Watchers returns the number of registered watchers.
func (c *Controller) Watchers() int {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	return len(c.watchers)
}

func (c *Controller) broadcast(m Message) {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	for _, ch := range c.watchers {
		select {
		case ch <- m:
		default:
		}
	}
}
