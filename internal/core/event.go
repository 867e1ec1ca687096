package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventUserJoined notifies other clients that a user joined the chat.
	EventUserJoined EventKind = iota
	// EventUserLeft notifies other clients that a user logged out.
	EventUserLeft
	// EventChat carries a server-wide chat message.
	EventChat
	// EventGroupChat carries a chat message scoped to one group.
	EventGroupChat
	// EventGroupCreated acknowledges a successful group creation.
	EventGroupCreated
	// EventGroupJoined acknowledges joining a group.
	EventGroupJoined
	// EventGroupLeft acknowledges leaving a group.
	EventGroupLeft
	// EventOnline delivers the current set of online usernames.
	EventOnline
	// EventLogout is the terminal acknowledgement of a logout.
	EventLogout
	// EventError notifies the client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind  EventKind
	Group string
	User  string
	Text  string
	Users []string
	Error *CoreError
}
