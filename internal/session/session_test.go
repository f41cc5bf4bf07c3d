package session

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/austinm34563/treelights-go/internal/audio"
	"github.com/austinm34563/treelights-go/internal/dispatcher"
	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
	"github.com/austinm34563/treelights-go/internal/playlist"
	"github.com/austinm34563/treelights-go/internal/runtime"
)

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func scanAll(t *testing.T, data string) []string {
	t.Helper()
	scanner := bufio.NewScanner(bytes.NewReader([]byte(data)))
	scanner.Buffer(make([]byte, 4096), MaxMessageBytes)
	scanner.Split(splitJSONObjects)
	var out []string
	for scanner.Scan() {
		out = append(out, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return out
}

func TestSplitJSONObjectsSingle(t *testing.T) {
	out := scanAll(t, `{"method":"get_effects"}`)
	require.Equal(t, []string{`{"method":"get_effects"}`}, out)
}

func TestSplitJSONObjectsBackToBackNoSeparator(t *testing.T) {
	out := scanAll(t, `{"a":1}{"b":2}`)
	require.Equal(t, []string{`{"a":1}`, `{"b":2}`}, out)
}

func TestSplitJSONObjectsIgnoresBracesInStrings(t *testing.T) {
	out := scanAll(t, `{"a":"{not a brace}"}{"b":2}`)
	require.Equal(t, []string{`{"a":"{not a brace}"}`, `{"b":2}`}, out)
}

func TestSplitJSONObjectsWhitespaceBetween(t *testing.T) {
	out := scanAll(t, "{\"a\":1}\n\n{\"b\":2}")
	require.Equal(t, []string{`{"a":1}`, `{"b":2}`}, out)
}

func newTestDispatcher(t *testing.T) *dispatcher.Dispatcher {
	t.Helper()
	strip := hardware.NewMemoryStrip(5)
	rt := runtime.New(strip, nil)
	sched := playlist.New(rt, discardLogger(), []palette.Palette{palette.Default}, 0, 1)
	ledSink := audio.NewStripSink(strip)
	playback := audio.NewMemoryPlaybackSink()
	pipeline := audio.New(ledSink, playback, strip.Len(), palette.Default, discardLogger())
	return dispatcher.New(strip, rt, sched, pipeline, playback, nil, discardLogger())
}

func TestServeRoundTripsRequests(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(newTestDispatcher(t), discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Serve(ctx, ln)

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(`{"id":"1","method":"get_effects"}{"id":"2","method":"get_palettes"}`))
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	line1, err := reader.ReadBytes('\n')
	require.NoError(t, err)
	var resp1 dispatcher.Response
	require.NoError(t, json.Unmarshal(line1, &resp1))
	require.Nil(t, resp1.Error)

	line2, err := reader.ReadBytes('\n')
	require.NoError(t, err)
	var resp2 dispatcher.Response
	require.NoError(t, json.Unmarshal(line2, &resp2))
	require.Nil(t, resp2.Error)
}

func TestServeRejectsBeyondMaxClients(t *testing.T) {
	// Exercises the accept-loop's capacity check by pre-loading the
	// active count rather than opening MaxClients real sockets.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(newTestDispatcher(t), discardLogger())
	s.active = MaxClients
	require.Equal(t, MaxClients, s.ActiveClients())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Serve(ctx, ln)

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = conn.Read(make([]byte, 1))
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, MaxClients, s.ActiveClients())
}
