// Package session implements the control-socket Session Server
// (spec.md §6): a TCP accept loop bounded to MaxClients concurrent
// connections, one goroutine per connection, each running requests
// through a Dispatcher strictly in the order they arrive on that
// connection. Framing follows the original server.py/json_rpc.py wire
// format: raw JSON objects with no length prefix or delimiter, scanned
// until a complete object is available, with a capped read buffer
// guarding against an unbounded or malformed stream.
package session

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/austinm34563/treelights-go/internal/dispatcher"
)

// MaxClients is the maximum number of concurrent control connections,
// ported from server.py's MAX_CLIENTS.
const MaxClients = 100

// MaxMessageBytes caps a single framed request, guarding the
// bufio.Scanner against an unbounded or malformed stream.
const MaxMessageBytes = 1 << 20 // 1 MiB

// ControlPort is the TCP port the session server listens on, ported
// from server.py's PORT.
const ControlPort = 65432

// Server accepts control-socket connections and dispatches each
// framed request to d, with one goroutine per connection, capped at
// MaxClients concurrent connections.
type Server struct {
	dispatcher *dispatcher.Dispatcher
	log        *logrus.Entry

	maxClients int
	active     int32 // atomic count of connected clients
}

// New constructs a Server that dispatches every request it receives
// through d, capped at MaxClients concurrent connections.
func New(d *dispatcher.Dispatcher, log *logrus.Entry) *Server {
	return &Server{dispatcher: d, log: log, maxClients: MaxClients}
}

// NewWithLimit is New but with an explicit concurrent-client cap,
// letting a deployment override the MaxClients default via config.
func NewWithLimit(d *dispatcher.Dispatcher, log *logrus.Entry, maxClients int) *Server {
	if maxClients <= 0 {
		maxClients = MaxClients
	}
	return &Server{dispatcher: d, log: log, maxClients: maxClients}
}

// Serve accepts connections on ln until ctx is canceled or Accept
// fails. It blocks until all connection goroutines have exited.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var wg sync.WaitGroup
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				wg.Wait()
				return nil
			default:
				wg.Wait()
				return err
			}
		}

		if atomic.LoadInt32(&s.active) >= int32(s.maxClients) {
			s.log.Warn("rejecting connection: at max client capacity")
			conn.Close()
			continue
		}

		atomic.AddInt32(&s.active, 1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer atomic.AddInt32(&s.active, -1)
			s.handleConn(conn)
		}()
	}
}

// ActiveClients reports the current number of connected clients.
func (s *Server) ActiveClients() int {
	return int(atomic.LoadInt32(&s.active))
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	connID := uuid.NewString()
	log := s.log.WithField("conn_id", connID)
	log.Info("client connected")
	defer log.Info("client disconnected")

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), MaxMessageBytes)
	scanner.Split(splitJSONObjects)

	writer := bufio.NewWriter(conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp := s.dispatcher.Dispatch(append([]byte(nil), line...))
		out, err := json.Marshal(resp)
		if err != nil {
			log.WithError(err).Error("failed to encode response")
			continue
		}
		if _, err := writer.Write(out); err != nil {
			log.WithError(err).Warn("write failed")
			return
		}
		if err := writer.WriteByte('\n'); err != nil {
			log.WithError(err).Warn("write failed")
			return
		}
		if err := writer.Flush(); err != nil {
			log.WithError(err).Warn("flush failed")
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Debug("connection read error")
	}
}

// splitJSONObjects is a bufio.SplitFunc that re-parses the buffered
// data on every call until a single complete top-level JSON object is
// found, rather than relying on a length prefix or a delimiter the
// original raw-TCP protocol never sent. Returns the object's bytes
// with surrounding whitespace trimmed.
func splitJSONObjects(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && isJSONSpace(data[start]) {
		start++
	}
	if start >= len(data) {
		if atEOF {
			return len(data), nil, nil
		}
		return start, nil, nil
	}
	if data[start] != '{' {
		return 0, nil, fmt.Errorf("session: expected JSON object, got %q", data[start])
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(data); i++ {
		c := data[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// inside a string literal, braces don't count
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i + 1, data[start : i+1], nil
			}
		}
	}
	if atEOF {
		if depth != 0 {
			return 0, nil, fmt.Errorf("session: truncated JSON object at EOF")
		}
		return len(data), nil, nil
	}
	return start, nil, nil
}

func isJSONSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
