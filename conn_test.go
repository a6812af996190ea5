package http2

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cornu/h2framer/hpack"
)

func TestPrefaceRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePreface(&buf))
	assert.Equal(t, Preface, buf.String())
	require.NoError(t, ReadPreface(&buf))
}

func TestReadPrefaceRejectsGarbage(t *testing.T) {
	r := bytes.NewReader(bytes.Repeat([]byte{0x00}, len(Preface)))
	err := ReadPreface(r)
	assert.True(t, IsKind(err, ErrKindProtocol))
}

func TestReadPrefaceRejectsShortInput(t *testing.T) {
	r := bytes.NewReader([]byte("PRI"))
	err := ReadPreface(r)
	assert.True(t, IsKind(err, ErrKindInternal))
}

func TestEndpointSettingsApplyFoldsInWireOrder(t *testing.T) {
	s := DefaultEndpointSettings()
	sf := &SettingsFrame{Entries: []SettingEntry{
		{ID: SettingMaxFrameSize, Value: 32768},
		{ID: SettingEnablePush, Value: 0},
		{ID: SettingMaxFrameSize, Value: 65536},
	}}
	s.Apply(sf)
	assert.Equal(t, uint32(65536), s.MaxFrameSize)
	assert.False(t, s.EnablePush)
}

func TestEndpointSettingsApplyIgnoresAck(t *testing.T) {
	s := DefaultEndpointSettings()
	before := s
	s.Apply(&SettingsFrame{Ack: true})
	assert.Equal(t, before, s)
}

func TestEndpointSettingsEncodeOmitsZeroValuedOptionalFields(t *testing.T) {
	s := DefaultEndpointSettings()
	sf := s.Encode()
	_, ok := sf.Get(SettingMaxConcurrentStreams)
	assert.False(t, ok, "default MaxConcurrentStreams of 0 should be omitted")
	_, ok = sf.Get(SettingMaxHeaderListSize)
	assert.False(t, ok, "default MaxHeaderListSize of 0 should be omitted")

	v, ok := sf.Get(SettingInitialWindowSize)
	require.True(t, ok)
	assert.Equal(t, uint32(65535), v)
}

func TestEndpointSettingsEncodeApplyRoundTrips(t *testing.T) {
	s := DefaultEndpointSettings()
	s.MaxConcurrentStreams = 100
	s.MaxFrameSize = 32768

	var got EndpointSettings
	got.Apply(s.Encode())

	assert.Equal(t, s.HeaderTableSize, got.HeaderTableSize)
	assert.Equal(t, s.EnablePush, got.EnablePush)
	assert.Equal(t, s.MaxConcurrentStreams, got.MaxConcurrentStreams)
	assert.Equal(t, s.InitialWindowSize, got.InitialWindowSize)
	assert.Equal(t, s.MaxFrameSize, got.MaxFrameSize)
}

func TestConnTracksPeerSettingsOnNonAckFrame(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	serverConn := NewConn(server)

	done := make(chan error, 1)
	go func() {
		// WriteFrame sends header and payload as two writes, so the first
		// call can see only the header; call again until the frame is whole.
		for {
			_, f, err := serverConn.TryReadFrame()
			if err != nil || f != nil {
				done <- err
				return
			}
		}
	}()

	sf := &SettingsFrame{Entries: []SettingEntry{{ID: SettingMaxFrameSize, Value: 32768}}}
	require.NoError(t, WriteFrame(client, sf))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}

	assert.Equal(t, uint32(32768), serverConn.Peer.MaxFrameSize)
	assert.Equal(t, uint32(32768), serverConn.maxPayload())
}

func TestConnWriteFrameTracksLocalSettings(t *testing.T) {
	var buf bytes.Buffer
	c := NewConn(&loopback{w: &buf})

	sf := &SettingsFrame{Entries: []SettingEntry{{ID: SettingMaxConcurrentStreams, Value: 50}}}
	require.NoError(t, c.WriteFrame(sf))
	assert.Equal(t, uint32(50), c.Local.MaxConcurrentStreams)
}

// loopback satisfies io.ReadWriter by reading nothing and writing to w,
// enough to exercise Conn's write-side bookkeeping without a real socket.
type loopback struct {
	w *bytes.Buffer
}

func (l *loopback) Read([]byte) (int, error)   { return 0, ErrWouldBlock }
func (l *loopback) Write(b []byte) (int, error) { return l.w.Write(b) }

func TestConnDecodesHeaderFieldsViaHPACK(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	serverConn := NewConn(server)

	enc := hpack.NewCodec(4096)
	fragment, err := enc.Encode([]hpack.HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: ":path", Value: "/"},
	})
	require.NoError(t, err)

	hf := &HeadersFrame{Stream: 1, Fragment: fragment, EndHeaders: true, EndStream: true}

	type result struct {
		f   Frame
		err error
	}
	done := make(chan result, 1)
	go func() {
		for {
			_, f, err := serverConn.TryReadFrame()
			if err != nil || f != nil {
				done <- result{f, err}
				return
			}
		}
	}()

	require.NoError(t, WriteFrame(client, hf))

	select {
	case res := <-done:
		require.NoError(t, res.err)
		got, ok := res.f.(*HeadersFrame)
		require.True(t, ok)
		require.Len(t, got.Fields, 2)
		assert.Equal(t, ":method", got.Fields[0].Name)
		assert.Equal(t, "GET", got.Fields[0].Value)
		assert.Equal(t, ":path", got.Fields[1].Name)
		assert.Equal(t, "/", got.Fields[1].Value)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}
}

func TestConnTryReadFrameSkipsHPACKUntilEndHeaders(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	serverConn := NewConn(server)

	// Not a valid HPACK block on its own, but EndHeaders is unset so
	// Conn must not attempt to decode it yet.
	hf := &HeadersFrame{Stream: 1, Fragment: []byte{0xFF, 0xFF}, EndHeaders: false}

	type result struct {
		f   Frame
		err error
	}
	done := make(chan result, 1)
	go func() {
		for {
			_, f, err := serverConn.TryReadFrame()
			if err != nil || f != nil {
				done <- result{f, err}
				return
			}
		}
	}()

	require.NoError(t, WriteFrame(client, hf))

	select {
	case res := <-done:
		require.NoError(t, res.err)
		got, ok := res.f.(*HeadersFrame)
		require.True(t, ok)
		assert.Nil(t, got.Fields)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}
}

func TestConnTryReadFrameSurfacesHPACKDecodeError(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	serverConn := NewConn(server)

	// 0x00 opens a literal-header-without-indexing, new-name field; the
	// name's length-prefixed string is required to follow immediately.
	// Truncating there is a guaranteed decode error.
	hf := &HeadersFrame{Stream: 1, Fragment: []byte{0x00}, EndHeaders: true}

	type result struct {
		f   Frame
		err error
	}
	done := make(chan result, 1)
	go func() {
		for {
			_, f, err := serverConn.TryReadFrame()
			if err != nil || f != nil {
				done <- result{f, err}
				return
			}
		}
	}()

	require.NoError(t, WriteFrame(client, hf))

	select {
	case res := <-done:
		assert.True(t, IsKind(res.err, ErrKindCompression))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}
}
