package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandBroadcast delivers a chat message to every other active client.
	CommandBroadcast CommandKind = iota
	// CommandCreateGroup creates a named group with the sender as sole member.
	CommandCreateGroup
	// CommandJoinGroup adds the sender to an existing group.
	CommandJoinGroup
	// CommandLeaveGroup removes the sender from a group.
	CommandLeaveGroup
	// CommandGroupMessage delivers a chat message to members of one group.
	CommandGroupMessage
	// CommandListOnline asks for the current set of online usernames.
	CommandListOnline
	// CommandStartGroupChat is accepted for client-side tab handling; the
	// server has no behavior for it.
	CommandStartGroupChat
	// CommandLogout ends the session with a departure broadcast.
	CommandLogout
	// CommandDisconnect is submitted by the transport when the stream ends
	// without an explicit logout.
	CommandDisconnect
)

// Command represents an action requested by a client.
type Command struct {
	Kind  CommandKind
	Group string
	Text  string
}
