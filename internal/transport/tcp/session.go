package tcp

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat-server/internal/core"
	"github.com/vovakirdan/linechat-server/internal/proto"
)

const maxLineBytes = 64 * 1024

// handleConn runs one client session: username handshake, then a read
// loop feeding the hub and a write loop draining the client's events.
// The socket is closed on every exit path.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	client := core.NewClient(uuid.NewString())
	logger := s.log.With().
		Str("client_id", client.ID).
		Str("remote", conn.RemoteAddr().String()).
		Logger()
	logger.Info().Msg("client connected")

	defer s.hub.Disconnect(client)

	// Close the socket when the server shuts down so the read loop
	// unblocks promptly.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-watchDone:
		}
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	// The first line is always the username; no handshake keyword.
	username, ok := s.readUsername(scanner, conn)
	if !ok {
		logger.Info().Msg("client left before sending a username")
		return
	}

	if cerr := s.hub.Login(client, username); cerr != nil {
		fmt.Fprintf(conn, "%s\n", cerr.Message)
		logger.Info().Str("username", username).Str("code", cerr.Code).Msg("login rejected")
		return
	}

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		s.writeLoop(conn, client, &logger)
	}()

	for scanner.Scan() {
		cmd, ok := proto.ParseLine(scanner.Text())
		if !ok {
			logger.Debug().Str("line", scanner.Text()).Msg("dropping unrecognized line")
			continue
		}
		s.hub.Submit(client, cmd)
		if cmd.Kind == core.CommandLogout {
			// Anything buffered after a logout is ignored.
			break
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		logger.Warn().Err(err).Msg("read failed, treating as disconnect")
	}

	s.hub.Disconnect(client)
	<-writeDone
}

// readUsername reads the first line, re-prompting while it is empty.
func (s *Server) readUsername(scanner *bufio.Scanner, conn net.Conn) (string, bool) {
	for scanner.Scan() {
		username := strings.TrimSpace(scanner.Text())
		if username == "" {
			fmt.Fprintf(conn, "Username cannot be empty.\n")
			continue
		}
		return username, true
	}
	return "", false
}

// writeLoop drains the client's event channel to the socket. It exits
// when the hub closes the channel or the first write fails; after a
// failed write the connection is dead and the read loop will notice.
func (s *Server) writeLoop(conn net.Conn, client *core.Client, logger *zerolog.Logger) {
	for ev := range client.Events {
		line := proto.FormatEvent(ev)
		if line == "" {
			continue
		}
		if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
			logger.Warn().Err(err).Msg("write failed, abandoning session output")
			return
		}
	}
}
