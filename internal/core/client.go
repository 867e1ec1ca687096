package core

// ClientState tracks where a client is in its lifecycle.
type ClientState int

const (
	// StateConnecting means the socket is accepted but no username is bound yet.
	StateConnecting ClientState = iota
	// StateActive means the client is registered and may issue commands.
	StateActive
	// StateLoggedOut is terminal; the hub ignores any further commands.
	StateLoggedOut
)

// Client is a connected chat participant as seen by the core layer.
// Name and state are owned by the hub goroutine once the client is
// handed over via Login.
type Client struct {
	ID     string
	Name   string
	Events chan *Event

	state  ClientState
	groups map[string]struct{}
}

// NewClient constructs a client with a buffered event channel.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, 16),
		groups: make(map[string]struct{}),
	}
}

// State returns the lifecycle state. Only meaningful when read from the
// hub goroutine.
func (c *Client) State() ClientState {
	return c.state
}
