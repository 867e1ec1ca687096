// Package proto implements the line-oriented text protocol spoken by
// chat clients. Each inbound line carries at most one command; each
// outbound event renders to exactly one line.
package proto

import (
	"strings"

	"github.com/vovakirdan/linechat-server/internal/core"
)

// Inbound command verbs.
const (
	VerbMessage      = "MESSAGE"
	VerbCreateGroup  = "CREATE_GROUP"
	VerbJoinGroup    = "JOIN_GROUP"
	VerbLeaveGroup   = "LEAVE_GROUP"
	VerbGroupMessage = "GROUP_MESSAGE"
	VerbStartGroup   = "START_GROUP_CHAT"
	VerbCheckOnline  = "CHECK_ONLINE_PARTICIPANTS"
	VerbLogout       = "LOGOUT"

	// OnlinePrefix starts the reply to CHECK_ONLINE_PARTICIPANTS.
	OnlinePrefix = "ONLINE_PARTICIPANTS"
)

// ParseLine maps one raw input line to a core command. The second
// return value is false for empty or unrecognized lines, which the
// caller should drop without a response.
func ParseLine(line string) (*core.Command, bool) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil, false
	}

	verb, rest, _ := strings.Cut(line, " ")
	switch verb {
	case VerbMessage:
		// The reference client prepends its own username to the body;
		// the server derives identity from the session, so the rest of
		// the line is relayed verbatim.
		return &core.Command{Kind: core.CommandBroadcast, Text: rest}, true
	case VerbCreateGroup:
		// The reference client appends a participants list after the
		// name; only the first field names the group.
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return nil, false
		}
		return &core.Command{Kind: core.CommandCreateGroup, Group: fields[0]}, true
	case VerbJoinGroup:
		name := strings.TrimSpace(rest)
		if name == "" {
			return nil, false
		}
		return &core.Command{Kind: core.CommandJoinGroup, Group: name}, true
	case VerbLeaveGroup:
		name := strings.TrimSpace(rest)
		if name == "" {
			return nil, false
		}
		return &core.Command{Kind: core.CommandLeaveGroup, Group: name}, true
	case VerbGroupMessage:
		group, text, _ := strings.Cut(rest, " ")
		if group == "" {
			return nil, false
		}
		return &core.Command{Kind: core.CommandGroupMessage, Group: group, Text: text}, true
	case VerbStartGroup:
		return &core.Command{Kind: core.CommandStartGroupChat, Group: strings.TrimSpace(rest)}, true
	case VerbCheckOnline:
		return &core.Command{Kind: core.CommandListOnline}, true
	case VerbLogout:
		if rest != "" {
			return nil, false
		}
		return &core.Command{Kind: core.CommandLogout}, true
	default:
		return nil, false
	}
}

// FormatEvent renders an event to its wire line, without the trailing
// newline. The strings match the original client's expectations.
func FormatEvent(ev *core.Event) string {
	switch ev.Kind {
	case core.EventUserJoined:
		return "User " + ev.User + " has joined the chat."
	case core.EventUserLeft:
		return "User " + ev.User + " has logged out."
	case core.EventChat:
		return ev.User + ": " + ev.Text
	case core.EventGroupChat:
		return "[" + ev.Group + "] " + ev.User + ": " + ev.Text
	case core.EventGroupCreated:
		return "Group chat " + ev.Group + " created successfully."
	case core.EventGroupJoined:
		return "Joined group chat " + ev.Group + " successfully."
	case core.EventGroupLeft:
		return "Left group chat " + ev.Group + " successfully."
	case core.EventOnline:
		if len(ev.Users) == 0 {
			return OnlinePrefix
		}
		return OnlinePrefix + " " + strings.Join(ev.Users, ",")
	case core.EventLogout:
		return VerbLogout
	case core.EventError:
		if ev.Error != nil {
			return ev.Error.Message
		}
		return ""
	default:
		return ""
	}
}
