package http2

import (
	"bytes"
	"io"

	"github.com/cornu/h2framer/hpack"
)

// Preface is the 24-octet client connection preface
// (https://tools.ietf.org/html/rfc7540#section-3.5). The core never
// parses it, but exposes it so a connection collaborator can implement
// preface exchange without duplicating the magic string.
const Preface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// WritePreface writes the connection preface to w.
func WritePreface(w io.Writer) error {
	_, err := io.WriteString(w, Preface)
	return err
}

// ReadPreface reads exactly len(Preface) bytes from r and checks they
// match. It's the server side's half of the handshake the spec documents
// for testability but otherwise leaves to the connection collaborator.
func ReadPreface(r io.Reader) error {
	buf := make([]byte, len(Preface))
	if _, err := io.ReadFull(r, buf); err != nil {
		return errInternal(err)
	}
	if !bytes.Equal(buf, []byte(Preface)) {
		return errProtocol("bad connection preface")
	}
	return nil
}

// EndpointSettings is the settings vector the connection collaborator
// maintains on each endpoint's behalf — the framing core itself never
// tracks these, it only decodes/encodes the wire form
// (spec.md §6: "the collaborator... maintains the endpoint's current
// settings vector").
type EndpointSettings struct {
	HeaderTableSize      uint32
	EnablePush           bool
	MaxConcurrentStreams uint32
	InitialWindowSize    uint32
	MaxFrameSize         uint32
	MaxHeaderListSize    uint32
}

// DefaultEndpointSettings returns the RFC 7540 default settings vector.
func DefaultEndpointSettings() EndpointSettings {
	return EndpointSettings{
		HeaderTableSize:   4096,
		EnablePush:        true,
		InitialWindowSize: 65535,
		MaxFrameSize:      16384,
	}
}

// Apply folds a decoded SETTINGS frame's entries into s in wire order,
// the same order they'll be re-advertised in if this vector is later
// re-encoded. ACK frames carry no entries and are a no-op.
func (s *EndpointSettings) Apply(sf *SettingsFrame) {
	for _, e := range sf.Entries {
		switch e.ID {
		case SettingHeaderTableSize:
			s.HeaderTableSize = e.Value
		case SettingEnablePush:
			s.EnablePush = e.Value != 0
		case SettingMaxConcurrentStreams:
			s.MaxConcurrentStreams = e.Value
		case SettingInitialWindowSize:
			s.InitialWindowSize = e.Value
		case SettingMaxFrameSize:
			s.MaxFrameSize = e.Value
		case SettingMaxHeaderListSize:
			s.MaxHeaderListSize = e.Value
		}
	}
}

// Encode produces a non-ACK SETTINGS frame advertising s in a stable
// order. HeaderTableSize, EnablePush, InitialWindowSize, and MaxFrameSize
// are always included, even at their default values, since a peer cannot
// distinguish "unset" from "explicitly set to the default" on the wire;
// MaxConcurrentStreams and MaxHeaderListSize are omitted when zero, RFC
// 7540's way of saying "unbounded" rather than "zero streams allowed."
func (s EndpointSettings) Encode() *SettingsFrame {
	sf := &SettingsFrame{}
	sf.Entries = append(sf.Entries, SettingEntry{SettingHeaderTableSize, s.HeaderTableSize})
	push := uint32(0)
	if s.EnablePush {
		push = 1
	}
	sf.Entries = append(sf.Entries, SettingEntry{SettingEnablePush, push})
	if s.MaxConcurrentStreams != 0 {
		sf.Entries = append(sf.Entries, SettingEntry{SettingMaxConcurrentStreams, s.MaxConcurrentStreams})
	}
	sf.Entries = append(sf.Entries, SettingEntry{SettingInitialWindowSize, s.InitialWindowSize})
	sf.Entries = append(sf.Entries, SettingEntry{SettingMaxFrameSize, s.MaxFrameSize})
	if s.MaxHeaderListSize != 0 {
		sf.Entries = append(sf.Entries, SettingEntry{SettingMaxHeaderListSize, s.MaxHeaderListSize})
	}
	return sf
}

// Conn is the minimal connection collaborator named by spec.md §6: it
// owns the AsyncBufReader over a non-blocking transport, the outbound
// writer, and the two settings vectors, and it keeps the dispatcher's
// max_payload in step with the peer's most recent MAX_FRAME_SIZE.
//
// Everything else the full HTTP/2 connection lifecycle needs — stream
// state, flow-control windows, request/response semantics — is
// deliberately absent; spec.md §1 treats those as separate collaborators.
type Conn struct {
	r *AsyncBufReader
	w io.Writer

	Local EndpointSettings
	Peer  EndpointSettings

	// headers decompresses inbound HEADERS fragments. Its dynamic table
	// size is bounded by Local.HeaderTableSize, the limit this endpoint
	// advertised to the peer's encoder via SETTINGS_HEADER_TABLE_SIZE.
	headers *hpack.Codec
}

// NewConn wraps a non-blocking transport rw (Read half fed into an
// AsyncBufReader, Write half used directly).
func NewConn(rw io.ReadWriter) *Conn {
	local := DefaultEndpointSettings()
	return &Conn{
		r:       NewAsyncBufReader(rw),
		w:       rw,
		Local:   local,
		Peer:    DefaultEndpointSettings(),
		headers: hpack.NewCodec(local.HeaderTableSize),
	}
}

// maxPayload is the bound the dispatcher enforces on the next inbound
// frame: the peer's advertised MAX_FRAME_SIZE.
func (c *Conn) maxPayload() uint32 {
	return c.Peer.MaxFrameSize
}

// TryReadFrame pulls the next complete frame, if one is fully buffered.
// A decoded SETTINGS frame (non-ACK) updates c.Peer as a side effect, so
// a subsequent MAX_FRAME_SIZE change takes effect on the very next call.
// A HEADERS frame that completes a header block (EndHeaders set) has its
// Fragment run through HPACK decompression, populating its Fields.
func (c *Conn) TryReadFrame() (FrameHeader, Frame, error) {
	h, f, err := c.r.TryReadFrame(c.maxPayload())
	if err != nil || f == nil {
		return h, f, err
	}
	switch fr := f.(type) {
	case *SettingsFrame:
		if !fr.Ack {
			c.Peer.Apply(fr)
		}
	case *HeadersFrame:
		if fr.EndHeaders {
			fields, err := c.headers.Decode(fr.Fragment)
			if err != nil {
				return h, nil, errCompression(err)
			}
			fr.Fields = fields
		}
	}
	return h, f, nil
}

// WriteFrame writes f to the connection, applying any local-settings
// change immediately so the local side's own bookkeeping (e.g. the HPACK
// decoder's table size bound) stays consistent with what it just sent.
func (c *Conn) WriteFrame(f Frame) error {
	if sf, ok := f.(*SettingsFrame); ok && !sf.Ack {
		c.Local.Apply(sf)
		c.headers.SetMaxDynamicTableSize(c.Local.HeaderTableSize)
	}
	return WriteFrame(c.w, f)
}
