package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat-server/internal/core"
	"github.com/vovakirdan/linechat-server/internal/proto"
)

const writeTimeout = 5 * time.Second

// WSHandler upgrades HTTP connections and bridges them to the hub. Each
// text frame carries exactly one protocol line, so WebSocket clients
// speak the same dialect as TCP ones.
type WSHandler struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString())
	defer h.hub.Disconnect(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	username, err := h.readUsername(ctx, conn)
	if err != nil {
		h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws closed before username")
		return
	}

	if cerr := h.hub.Login(client, username); cerr != nil {
		_ = conn.Write(ctx, websocket.MessageText, []byte(cerr.Message))
		conn.Close(websocket.StatusPolicyViolation, cerr.Code)
		return
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(conn, client)
	}()

	err = <-errCh
	h.hub.Disconnect(client) // closes the event channel, ending the write loop
	cancel()                 // unblocks a read loop stuck on a dead peer
	<-errCh

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		if s := websocket.CloseStatus(err); s == -1 {
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(websocket.StatusNormalClosure, "closing")
}

func (h *WSHandler) readUsername(ctx context.Context, conn *websocket.Conn) (string, error) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return "", err
		}
		username := strings.TrimSpace(string(data))
		if username == "" {
			if err := conn.Write(ctx, websocket.MessageText, []byte("Username cannot be empty.")); err != nil {
				return "", err
			}
			continue
		}
		return username, nil
	}
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		cmd, ok := proto.ParseLine(string(data))
		if !ok {
			h.log.Debug().Str("client_id", client.ID).Msg("dropping unrecognized ws frame")
			continue
		}
		h.hub.Submit(client, cmd)
		if cmd.Kind == core.CommandLogout {
			return nil
		}
	}
}

// writeLoop drains the client's events to the socket. It deliberately
// uses its own write deadlines instead of the request context so a
// pending logout acknowledgement still flushes during teardown.
func (h *WSHandler) writeLoop(conn *websocket.Conn, client *core.Client) error {
	for event := range client.Events {
		line := proto.FormatEvent(event)
		if line == "" {
			continue
		}
		wctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(wctx, websocket.MessageText, []byte(line))
		cancel()
		if err != nil {
			return err
		}
	}
	return nil
}
