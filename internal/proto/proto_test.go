package proto

import (
	"testing"

	"github.com/vovakirdan/linechat-server/internal/core"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *core.Command
		ok   bool
	}{
		{
			name: "message keeps rest of line verbatim",
			line: "MESSAGE alice hello there",
			want: &core.Command{Kind: core.CommandBroadcast, Text: "alice hello there"},
			ok:   true,
		},
		{
			name: "create group ignores trailing participants list",
			line: "CREATE_GROUP team [alice, bob]",
			want: &core.Command{Kind: core.CommandCreateGroup, Group: "team"},
			ok:   true,
		},
		{
			name: "join group",
			line: "JOIN_GROUP team",
			want: &core.Command{Kind: core.CommandJoinGroup, Group: "team"},
			ok:   true,
		},
		{
			name: "leave group trims padding",
			line: "LEAVE_GROUP  team ",
			want: &core.Command{Kind: core.CommandLeaveGroup, Group: "team"},
			ok:   true,
		},
		{
			name: "group message splits group and text",
			line: "GROUP_MESSAGE team standup in 5",
			want: &core.Command{Kind: core.CommandGroupMessage, Group: "team", Text: "standup in 5"},
			ok:   true,
		},
		{
			name: "start group chat is accepted",
			line: "START_GROUP_CHAT team",
			want: &core.Command{Kind: core.CommandStartGroupChat, Group: "team"},
			ok:   true,
		},
		{
			name: "check online participants",
			line: "CHECK_ONLINE_PARTICIPANTS",
			want: &core.Command{Kind: core.CommandListOnline},
			ok:   true,
		},
		{
			name: "logout",
			line: "LOGOUT",
			want: &core.Command{Kind: core.CommandLogout},
			ok:   true,
		},
		{
			name: "logout with trailing junk is malformed",
			line: "LOGOUT now",
			ok:   false,
		},
		{
			name: "carriage return stripped",
			line: "JOIN_GROUP team\r",
			want: &core.Command{Kind: core.CommandJoinGroup, Group: "team"},
			ok:   true,
		},
		{
			name: "empty line dropped",
			line: "",
			ok:   false,
		},
		{
			name: "unknown verb dropped",
			line: "DANCE party",
			ok:   false,
		},
		{
			name: "create group without name dropped",
			line: "CREATE_GROUP ",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("ParseLine(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			}
			if !ok {
				return
			}
			if got.Kind != tt.want.Kind || got.Group != tt.want.Group || got.Text != tt.want.Text {
				t.Fatalf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   *core.Event
		want string
	}{
		{
			name: "join notice",
			ev:   &core.Event{Kind: core.EventUserJoined, User: "alice"},
			want: "User alice has joined the chat.",
		},
		{
			name: "departure notice",
			ev:   &core.Event{Kind: core.EventUserLeft, User: "alice"},
			want: "User alice has logged out.",
		},
		{
			name: "chat line prefixes sender",
			ev:   &core.Event{Kind: core.EventChat, User: "alice", Text: "hello"},
			want: "alice: hello",
		},
		{
			name: "group chat line carries group tag",
			ev:   &core.Event{Kind: core.EventGroupChat, Group: "team", User: "alice", Text: "hi"},
			want: "[team] alice: hi",
		},
		{
			name: "group created ack",
			ev:   &core.Event{Kind: core.EventGroupCreated, Group: "team"},
			want: "Group chat team created successfully.",
		},
		{
			name: "group joined ack",
			ev:   &core.Event{Kind: core.EventGroupJoined, Group: "team"},
			want: "Joined group chat team successfully.",
		},
		{
			name: "group left ack",
			ev:   &core.Event{Kind: core.EventGroupLeft, Group: "team"},
			want: "Left group chat team successfully.",
		},
		{
			name: "online participants single line",
			ev:   &core.Event{Kind: core.EventOnline, Users: []string{"alice", "bob"}},
			want: "ONLINE_PARTICIPANTS alice,bob",
		},
		{
			name: "logout ack",
			ev:   &core.Event{Kind: core.EventLogout},
			want: "LOGOUT",
		},
		{
			name: "error renders its message",
			ev: &core.Event{Kind: core.EventError, Error: &core.CoreError{
				Code:    core.ErrCodeGroupExists,
				Message: "Group chat team already exists.",
			}},
			want: "Group chat team already exists.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatEvent(tt.ev); got != tt.want {
				t.Fatalf("FormatEvent = %q, want %q", got, tt.want)
			}
		})
	}
}
