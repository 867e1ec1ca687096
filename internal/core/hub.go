package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat-server/internal/store"
)

// Hub owns all shared chat state: the username map, the set of active
// clients and the group table. A single goroutine (Run) touches the
// maps; transports talk to it through channels, so every registry
// mutation is serialized without locks.
type Hub struct {
	st  store.Store
	log *zerolog.Logger

	logins      chan loginRequest
	submissions chan submission
	snapshots   chan chan Snapshot
	done        chan struct{}

	clients map[*Client]struct{}
	users   map[string]*Client
	groups  map[string]*Group
}

type loginRequest struct {
	client *Client
	name   string
	reply  chan *CoreError
}

type submission struct {
	client *Client
	cmd    *Command
}

// Snapshot is a consistent view of hub state for the admin surface.
type Snapshot struct {
	Participants []string
	Groups       []GroupInfo
}

// GroupInfo describes one group inside a Snapshot.
type GroupInfo struct {
	Name      string
	CreatedBy string
	Members   []string
}

// NewHub constructs a hub. The store may be nil, in which case groups
// live only in memory.
func NewHub(st store.Store, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		st:          st,
		log:         logger,
		logins:      make(chan loginRequest),
		submissions: make(chan submission, 64),
		snapshots:   make(chan chan Snapshot),
		done:        make(chan struct{}),
		clients:     make(map[*Client]struct{}),
		users:       make(map[string]*Client),
		groups:      make(map[string]*Group),
	}
}

// Run processes commands until the context is cancelled. It must be
// called exactly once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	h.loadGroups(ctx)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case req := <-h.logins:
			req.reply <- h.handleLogin(ctx, req.client, req.name)
		case sub := <-h.submissions:
			h.handle(ctx, sub.client, sub.cmd)
		case reply := <-h.snapshots:
			reply <- h.snapshot()
		}
	}
}

// Login binds a username to the client and registers it. It returns a
// CoreError when the name is already taken by another active session;
// the caller must then close the connection without registering.
func (h *Hub) Login(c *Client, name string) *CoreError {
	reply := make(chan *CoreError, 1)
	select {
	case h.logins <- loginRequest{client: c, name: name, reply: reply}:
		return <-reply
	case <-h.done:
		return coreError(ErrCodeShuttingDown, "Server is shutting down.")
	}
}

// Submit hands a parsed command to the hub. Commands from one client
// are processed in submission order.
func (h *Hub) Submit(c *Client, cmd *Command) {
	select {
	case h.submissions <- submission{client: c, cmd: cmd}:
	case <-h.done:
	}
}

// Disconnect tells the hub the client's stream ended. Safe to call more
// than once and for clients that never logged in.
func (h *Hub) Disconnect(c *Client) {
	h.Submit(c, &Command{Kind: CommandDisconnect})
}

// Snapshot returns a consistent view of current participants and groups.
func (h *Hub) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case h.snapshots <- reply:
	case <-h.done:
		return Snapshot{}, fmt.Errorf("hub stopped")
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (h *Hub) loadGroups(ctx context.Context) {
	if h.st == nil {
		return
	}
	groups, err := h.st.ListGroups(ctx)
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to load persisted groups")
		return
	}
	for _, g := range groups {
		h.groups[g.Name] = NewGroup(g.Name, g.CreatedBy, g.CreatedAt)
	}
	if len(groups) > 0 {
		h.log.Info().Int("count", len(groups)).Msg("restored groups from store")
	}
}

func (h *Hub) handleLogin(ctx context.Context, c *Client, name string) *CoreError {
	if c.state != StateConnecting {
		return coreError(ErrCodeUsernameTaken, "Session already logged in.")
	}
	if _, taken := h.users[name]; taken {
		h.log.Info().Str("client_id", c.ID).Str("username", name).Msg("rejected duplicate username")
		return coreError(ErrCodeUsernameTaken, fmt.Sprintf("Username %s is already taken.", name))
	}

	c.Name = name
	c.state = StateActive
	h.users[name] = c
	h.clients[c] = struct{}{}

	if h.st != nil {
		if err := h.st.TouchUser(ctx, name); err != nil {
			h.log.Warn().Err(err).Str("username", name).Msg("failed to record user")
		}
	}

	h.log.Info().Str("client_id", c.ID).Str("username", name).Msg("client joined")
	h.broadcast(c, &Event{Kind: EventUserJoined, User: name})
	return nil
}

func (h *Hub) handle(ctx context.Context, c *Client, cmd *Command) {
	if cmd.Kind == CommandDisconnect {
		h.unregister(c, false)
		return
	}
	if c.state != StateActive {
		// Logged out or never registered; drop silently.
		return
	}

	switch cmd.Kind {
	case CommandBroadcast:
		h.broadcast(c, &Event{Kind: EventChat, User: c.Name, Text: cmd.Text})
	case CommandCreateGroup:
		h.createGroup(ctx, c, cmd.Group)
	case CommandJoinGroup:
		h.joinGroup(c, cmd.Group)
	case CommandLeaveGroup:
		h.leaveGroup(c, cmd.Group)
	case CommandGroupMessage:
		h.groupMessage(c, cmd.Group, cmd.Text)
	case CommandListOnline:
		h.send(c, &Event{Kind: EventOnline, Users: h.onlineNames()})
	case CommandStartGroupChat:
		// Client-side tab request; nothing to do server-side.
		h.log.Debug().Str("username", c.Name).Str("group", cmd.Group).Msg("start group chat requested")
	case CommandLogout:
		h.logout(c)
	}
}

func (h *Hub) createGroup(ctx context.Context, c *Client, name string) {
	if _, exists := h.groups[name]; exists {
		h.send(c, &Event{Kind: EventError, Group: name, Error: coreError(
			ErrCodeGroupExists, fmt.Sprintf("Group chat %s already exists.", name))})
		return
	}

	g := NewGroup(name, c.Name, time.Now())
	g.AddMember(c)
	h.groups[name] = g
	c.groups[name] = struct{}{}

	if h.st != nil {
		if err := h.st.SaveGroup(ctx, &store.Group{Name: name, CreatedBy: c.Name, CreatedAt: g.CreatedAt}); err != nil {
			h.log.Warn().Err(err).Str("group", name).Msg("failed to persist group")
		}
	}

	h.log.Info().Str("group", name).Str("username", c.Name).Msg("group created")
	h.send(c, &Event{Kind: EventGroupCreated, Group: name})
}

func (h *Hub) joinGroup(c *Client, name string) {
	g, exists := h.groups[name]
	if !exists {
		h.send(c, &Event{Kind: EventError, Group: name, Error: coreError(
			ErrCodeGroupNotFound, fmt.Sprintf("Group chat %s does not exist.", name))})
		return
	}
	if !g.AddMember(c) {
		h.send(c, &Event{Kind: EventError, Group: name, Error: coreError(
			ErrCodeAlreadyMember, fmt.Sprintf("You are already a member of group chat %s.", name))})
		return
	}
	c.groups[name] = struct{}{}
	h.send(c, &Event{Kind: EventGroupJoined, Group: name})
}

func (h *Hub) leaveGroup(c *Client, name string) {
	g, exists := h.groups[name]
	if !exists {
		h.send(c, &Event{Kind: EventError, Group: name, Error: coreError(
			ErrCodeGroupNotFound, fmt.Sprintf("Group chat %s does not exist.", name))})
		return
	}
	if !g.RemoveMember(c) {
		h.send(c, &Event{Kind: EventError, Group: name, Error: coreError(
			ErrCodeNotMember, fmt.Sprintf("You are not a member of group chat %s.", name))})
		return
	}
	delete(c.groups, name)
	h.send(c, &Event{Kind: EventGroupLeft, Group: name})
}

func (h *Hub) groupMessage(c *Client, name, text string) {
	g, exists := h.groups[name]
	if !exists {
		h.send(c, &Event{Kind: EventError, Group: name, Error: coreError(
			ErrCodeGroupNotFound, fmt.Sprintf("Group chat %s does not exist.", name))})
		return
	}
	if !g.Has(c) {
		h.send(c, &Event{Kind: EventError, Group: name, Error: coreError(
			ErrCodeNotMember, fmt.Sprintf("You are not a member of group chat %s.", name))})
		return
	}
	g.Broadcast(c, &Event{Kind: EventGroupChat, Group: name, User: c.Name, Text: text})
}

func (h *Hub) logout(c *Client) {
	h.log.Info().Str("client_id", c.ID).Str("username", c.Name).Msg("client logged out")
	h.broadcast(c, &Event{Kind: EventUserLeft, User: c.Name})
	h.send(c, &Event{Kind: EventLogout})
	h.unregister(c, true)
}

// unregister removes the client from the username map, the active set
// and every group, then closes its event channel. Idempotent.
func (h *Hub) unregister(c *Client, loggedOut bool) {
	if c.state == StateLoggedOut {
		return
	}
	wasActive := c.state == StateActive
	c.state = StateLoggedOut

	if wasActive {
		delete(h.users, c.Name)
		delete(h.clients, c)
		for name := range c.groups {
			if g, ok := h.groups[name]; ok {
				g.RemoveMember(c)
			}
		}
		if !loggedOut {
			h.log.Info().Str("client_id", c.ID).Str("username", c.Name).Msg("client disconnected")
		}
	}
	close(c.Events)
}

// broadcast delivers an event to every active client except the sender.
// Sends never block; a slow consumer drops the event instead of
// stalling delivery to the rest.
func (h *Hub) broadcast(sender *Client, event *Event) {
	for client := range h.clients {
		if client == sender {
			continue
		}
		select {
		case client.Events <- event:
		default:
			h.log.Warn().Str("username", client.Name).Msg("dropping event for slow consumer")
		}
	}
}

func (h *Hub) send(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		h.log.Warn().Str("username", c.Name).Msg("dropping event for slow consumer")
	}
}

func (h *Hub) onlineNames() []string {
	names := make([]string, 0, len(h.users))
	for name := range h.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (h *Hub) snapshot() Snapshot {
	snap := Snapshot{Participants: h.onlineNames()}
	names := make([]string, 0, len(h.groups))
	for name := range h.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g := h.groups[name]
		snap.Groups = append(snap.Groups, GroupInfo{
			Name:      g.Name,
			CreatedBy: g.CreatedBy,
			Members:   g.MemberNames(),
		})
	}
	return snap
}

func (h *Hub) closeAll() {
	for client := range h.clients {
		h.unregister(client, true)
	}
}
