package domain

// StreamHub fans log lines out to any number of websocket subscribers.
type StreamHub struct {
	// Registered clients.
	Clients map[chan *[]byte]bool

	// Inbound messages to distribute.
	Broadcast chan []byte

	// Register requests from clients.
	Register chan chan *[]byte

	// Unregister requests from clients.
	Unregister chan chan *[]byte

	Close chan struct{}
}

func NewStreamHub() *StreamHub {
	return &StreamHub{
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan chan *[]byte),
		Unregister: make(chan chan *[]byte),
		Close:      make(chan struct{}),
		Clients:    make(map[chan *[]byte]bool),
	}
}

func (h *StreamHub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			delete(h.Clients, client)
		case message := <-h.Broadcast:
			for client := range h.Clients {
				select {
				case client <- &message:
				default:
					// slow subscriber, drop the line instead of blocking the hub
				}
			}
		case <-h.Close:
			for client := range h.Clients {
				client <- nil
				delete(h.Clients, client)
				close(client)
			}
			return
		}
	}
}
