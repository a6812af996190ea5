package http2

import (
	"context"
	"log"
	"net"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

// pollInterval is the read-deadline window used to emulate a non-blocking
// transport on top of a plain net.Conn: a deadline that elapses with no
// data surfaces as a timeout error, which isWouldBlock recognizes via
// net.Error.Timeout() the same way a real EWOULDBLOCK would.
const pollInterval = 50 * time.Millisecond

// defaultPingInterval mirrors the teacher's DefaultPingInterval.
const defaultPingInterval = 10 * time.Second

// Handler reacts to a frame read off a connection. The stream-state,
// flow-control, and request/response collaborators spec.md §1 keeps out
// of the framing core's scope would normally sit behind this interface.
type Handler interface {
	HandleFrame(c *Conn, h FrameHeader, f Frame) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(c *Conn, h FrameHeader, f Frame) error

func (fn HandlerFunc) HandleFrame(c *Conn, h FrameHeader, f Frame) error {
	return fn(c, h, f)
}

// Server accepts HTTP/2 connections and drives the preface exchange,
// initial SETTINGS frame, and the read/ping loops over the framing core.
// It is intentionally thin: request routing, HPACK, and flow control are
// collaborators this type hands frames to, not things it implements.
type Server struct {
	Logger       *log.Logger
	PingInterval time.Duration
	Handler      Handler
}

func (s *Server) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.New(os.Stderr, "http2: ", log.LstdFlags)
}

func (s *Server) pingInterval() time.Duration {
	if s.PingInterval > 0 {
		return s.PingInterval
	}
	return defaultPingInterval
}

// Serve accepts connections from ln until it returns an error.
func (s *Server) Serve(ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.serveConn(nc)
	}
}

func (s *Server) serveConn(nc net.Conn) {
	defer nc.Close()

	if err := ReadPreface(nc); err != nil {
		s.logger().Printf("preface: %v", err)
		return
	}

	c := NewConn(nc)
	if err := c.WriteFrame(c.Local.Encode()); err != nil {
		s.logger().Printf("initial settings: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.readLoop(ctx, nc, c) })
	g.Go(func() error { return s.pingLoop(ctx, c) })

	if err := g.Wait(); err != nil {
		s.logger().Printf("connection closed: %v", err)
	}
}

func (s *Server) readLoop(ctx context.Context, nc net.Conn, c *Conn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := nc.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
			return err
		}

		h, f, err := c.TryReadFrame()
		if err != nil {
			return err
		}
		if f == nil {
			continue // nothing fully buffered yet; poll again
		}
		if s.Handler != nil {
			if err := s.Handler.HandleFrame(c, h, f); err != nil {
				return err
			}
		}
	}
}

func (s *Server) pingLoop(ctx context.Context, c *Conn) error {
	ticker := time.NewTicker(s.pingInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			ping := &StubFrame{kind: FramePing, Payload: make([]byte, 8)}
			if err := c.WriteFrame(ping); err != nil {
				return err
			}
		}
	}
}
