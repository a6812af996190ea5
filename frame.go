package http2

import (
	"io"

	"github.com/cornu/h2framer/http2utils"
)

// FrameHeaderSize is the fixed 9-octet wire size of a frame header.
// http://httpwg.org/specs/rfc7540.html#FrameHeader
const FrameHeaderSize = 9

// FrameType is the 8-bit frame type tag.
// https://httpwg.org/specs/rfc7540.html#FrameTypes
type FrameType uint8

const (
	FrameData         FrameType = 0x0
	FrameHeaders      FrameType = 0x1
	FramePriority     FrameType = 0x2
	FrameResetStream  FrameType = 0x3
	FrameSettings     FrameType = 0x4
	FramePushPromise  FrameType = 0x5
	FramePing         FrameType = 0x6
	FrameGoAway       FrameType = 0x7
	FrameWindowUpdate FrameType = 0x8
	FrameContinuation FrameType = 0x9

	maxKnownFrameType = FrameContinuation
)

// Known reports whether t is one of the ten RFC 7540 frame types. Any
// other value must be treated as Unknown and preserved verbatim on re-emit.
func (t FrameType) Known() bool {
	return t <= maxKnownFrameType
}

func (t FrameType) String() string {
	switch t {
	case FrameData:
		return "DATA"
	case FrameHeaders:
		return "HEADERS"
	case FramePriority:
		return "PRIORITY"
	case FrameResetStream:
		return "RST_STREAM"
	case FrameSettings:
		return "SETTINGS"
	case FramePushPromise:
		return "PUSH_PROMISE"
	case FramePing:
		return "PING"
	case FrameGoAway:
		return "GOAWAY"
	case FrameWindowUpdate:
		return "WINDOW_UPDATE"
	case FrameContinuation:
		return "CONTINUATION"
	default:
		return "UNKNOWN"
	}
}

// FrameFlags is the 8-bit per-frame flag bitset. Meanings vary by type;
// the core recognizes the subset listed below and ignores unknown bits on
// decode (they are never set by the encoders of known frames).
type FrameFlags uint8

const (
	FlagAck        FrameFlags = 0x1
	FlagEndStream  FrameFlags = 0x1
	FlagEndHeaders FrameFlags = 0x4
	FlagPadded     FrameFlags = 0x8
	FlagPriority   FrameFlags = 0x20
)

// Has reports whether all bits of flag are set in f.
func (f FrameFlags) Has(flag FrameFlags) bool {
	return f&flag == flag
}

// Add returns f with flag set.
func (f FrameFlags) Add(flag FrameFlags) FrameFlags {
	return f | flag
}

// StreamID is a 31-bit stream identifier. The reserved high bit is always
// clear on any value stored internally.
type StreamID uint32

// streamReservedBit is the single reserved bit (bit 31) of the 32-bit wire
// stream identifier field.
const streamReservedBit uint32 = 1 << 31

func newStreamID(raw uint32) StreamID {
	return StreamID(raw &^ streamReservedBit)
}

// Uint32 returns the stream id as its wire-level 32-bit value (reserved
// bit always clear).
func (s StreamID) Uint32() uint32 {
	return uint32(s)
}

// FrameHeader is the fixed 9-octet frame header.
//
// https://tools.ietf.org/html/rfc7540#section-4.1
type FrameHeader struct {
	Length uint32 // 24-bit payload length
	Type   FrameType
	Flags  FrameFlags
	Stream StreamID
}

// decodeFrameHeader parses a 9-byte big-endian header. The reserved bit on
// the stream identifier is masked to zero.
func decodeFrameHeader(b []byte) FrameHeader {
	_ = b[8]
	return FrameHeader{
		Length: http2utils.BytesToUint24(b[0:3]),
		Type:   FrameType(b[3]),
		Flags:  FrameFlags(b[4]),
		Stream: newStreamID(http2utils.BytesToUint32(b[5:9])),
	}
}

// encodeInto writes h's wire representation into b, which must be at
// least FrameHeaderSize long. The reserved bit is always written as zero.
func (h FrameHeader) encodeInto(b []byte) {
	_ = b[8]
	http2utils.Uint24ToBytes(b[0:3], h.Length)
	b[3] = byte(h.Type)
	b[4] = byte(h.Flags)
	http2utils.Uint32ToBytes(b[5:9], h.Stream.Uint32())
}

func readFrameHeader(r io.Reader) (FrameHeader, error) {
	var raw [FrameHeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return FrameHeader{}, errInternal(err)
	}
	return decodeFrameHeader(raw[:]), nil
}

func writeFrameHeader(w io.Writer, h FrameHeader) error {
	var raw [FrameHeaderSize]byte
	h.encodeInto(raw[:])
	_, err := w.Write(raw[:])
	return err
}

// Frame is the per-variant decoder/encoder surface. Decode reads h's
// already-validated header plus the exact payload bytes for the frame;
// Encode returns the flags, stream id, and payload wire representation
// the dispatcher should emit.
//
// This is the Go substitute for a tagged union (spec's design notes):
// FrameType() acts as the discriminant, and a type switch (or a plain
// Type() comparison) stands in for pattern matching.
type Frame interface {
	FrameType() FrameType
	Decode(h FrameHeader, payload []byte) error
	Encode() (flags FrameFlags, stream StreamID, payload []byte)
}

// decodeVariant selects and runs the per-type decoder. Unknown types never
// fail here — they're captured verbatim by UnknownFrame. Known types that
// don't yet have a full variant (Data, RstStream, PushPromise, Ping,
// GoAway, WindowUpdate, Continuation) decode through StubFrame, which
// keeps the type tag but treats the payload opaquely — the connection,
// flow-control, and stream-state collaborators spec.md declares out of
// scope are what would normally interpret them.
func decodeVariant(h FrameHeader, payload []byte) (Frame, error) {
	var f Frame
	switch h.Type {
	case FrameSettings:
		f = &SettingsFrame{}
	case FrameHeaders:
		f = &HeadersFrame{}
	case FramePriority:
		f = &PriorityFrame{}
	default:
		if h.Type.Known() {
			f = &StubFrame{kind: h.Type}
		} else {
			f = &UnknownFrame{kind: h.Type}
		}
	}
	if err := f.Decode(h, payload); err != nil {
		return nil, err
	}
	return f, nil
}

// ReadFrame reads one frame from r: a 9-octet header followed by its
// payload, dispatching to the matching variant decoder.
//
// maxPayload bounds the payload length against the negotiated
// MAX_FRAME_SIZE; pass a very large value (e.g. math.MaxUint32) if no
// limit has been negotiated yet.
func ReadFrame(r io.Reader, maxPayload uint32) (FrameHeader, Frame, error) {
	h, err := readFrameHeader(r)
	if err != nil {
		return h, nil, err
	}
	if h.Length > maxPayload {
		_, _ = io.CopyN(io.Discard, r, int64(h.Length))
		return h, nil, errFrameSize("payload length exceeds negotiated maximum")
	}
	payload := make([]byte, h.Length)
	if h.Length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return h, nil, errInternal(err)
		}
	}
	f, err := decodeVariant(h, payload)
	return h, f, err
}

// WriteFrame derives a header from f (payload length, type, flags, stream
// id), writes the 9-octet header, then the encoded payload. The
// dispatcher itself never buffers, retries, or reorders.
func WriteFrame(w io.Writer, f Frame) error {
	flags, stream, payload := f.Encode()
	h := FrameHeader{
		Length: uint32(len(payload)),
		Type:   f.FrameType(),
		Flags:  flags,
		Stream: stream,
	}
	if err := writeFrameHeader(w, h); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := w.Write(payload)
	return err
}
