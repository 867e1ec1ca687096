// Package tcp exposes the chat hub over a plain TCP listener speaking
// the newline-delimited text protocol.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat-server/internal/core"
)

// Server accepts client connections and runs one session per connection.
type Server struct {
	hub  *core.Hub
	log  *zerolog.Logger
	addr string
	ln   net.Listener
}

// NewServer builds a TCP chat server listening on addr once started.
func NewServer(addr string, hub *core.Hub, logger *zerolog.Logger) *Server {
	return &Server{hub: hub, log: logger, addr: addr}
}

// Listen binds the listener. Split from Serve so callers can learn the
// bound address before accepting (tests listen on ":0").
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound listener address. Valid after Listen.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections until the context is cancelled. Each
// accepted connection gets its own session goroutine; the accept loop
// returns to waiting immediately.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	s.log.Info().Str("addr", s.ln.Addr().String()).Msg("chat listener started")

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn().Err(err).Msg("accept failed")
			continue
		}
		go s.handleConn(ctx, conn)
	}
}
