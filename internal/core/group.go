package core

import (
	"sort"
	"time"
)

// Group is a named set of member clients. Groups do not own client
// lifetime; the hub removes departing clients from every group. A group
// persists even after its member set becomes empty.
type Group struct {
	Name      string
	CreatedBy string
	CreatedAt time.Time

	members map[*Client]struct{}
}

// NewGroup constructs a group with no members.
func NewGroup(name, createdBy string, createdAt time.Time) *Group {
	return &Group{
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: createdAt,
		members:   make(map[*Client]struct{}),
	}
}

// AddMember inserts a client into the group. Returns true if newly added.
func (g *Group) AddMember(c *Client) bool {
	if _, exists := g.members[c]; exists {
		return false
	}
	g.members[c] = struct{}{}
	return true
}

// RemoveMember deletes a client from the group. Returns true if removed.
func (g *Group) RemoveMember(c *Client) bool {
	if _, exists := g.members[c]; !exists {
		return false
	}
	delete(g.members, c)
	return true
}

// Has reports whether the client is a member.
func (g *Group) Has(c *Client) bool {
	_, exists := g.members[c]
	return exists
}

// Broadcast sends an event to all members except the sender.
func (g *Group) Broadcast(sender *Client, event *Event) {
	for member := range g.members {
		if member == sender {
			continue
		}
		select {
		case member.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}

// MemberNames returns the usernames of current members, sorted.
func (g *Group) MemberNames() []string {
	names := make([]string, 0, len(g.members))
	for member := range g.members {
		names = append(names, member.Name)
	}
	sort.Strings(names)
	return names
}

// Size returns the current member count.
func (g *Group) Size() int {
	return len(g.members)
}
