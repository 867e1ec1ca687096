package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat-server/internal/core"
)

// AdminHandlers provides read-only HTTP handlers over hub state.
type AdminHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewAdminHandlers creates a new admin handlers instance.
func NewAdminHandlers(hub *core.Hub, logger *zerolog.Logger) *AdminHandlers {
	return &AdminHandlers{hub: hub, log: logger}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ParticipantsResponse lists currently online usernames.
type ParticipantsResponse struct {
	Participants []string `json:"participants"`
}

// GroupResponse describes one group and its live members.
type GroupResponse struct {
	Name      string   `json:"name"`
	CreatedBy string   `json:"created_by"`
	Members   []string `json:"members"`
}

// GroupsResponse lists all known groups.
type GroupsResponse struct {
	Groups []GroupResponse `json:"groups"`
}

// Health reports liveness.
// GET /health
func (h *AdminHandlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Participants returns the current username set.
// GET /api/participants
func (h *AdminHandlers) Participants(c *gin.Context) {
	snap, err := h.hub.Snapshot(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to snapshot hub")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "hub unavailable"})
		return
	}
	c.JSON(http.StatusOK, ParticipantsResponse{Participants: snap.Participants})
}

// Groups returns all groups with their live member sets.
// GET /api/groups
func (h *AdminHandlers) Groups(c *gin.Context) {
	snap, err := h.hub.Snapshot(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to snapshot hub")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "hub unavailable"})
		return
	}

	resp := GroupsResponse{Groups: make([]GroupResponse, 0, len(snap.Groups))}
	for _, g := range snap.Groups {
		resp.Groups = append(resp.Groups, GroupResponse{
			Name:      g.Name,
			CreatedBy: g.CreatedBy,
			Members:   g.Members,
		})
	}
	c.JSON(http.StatusOK, resp)
}
