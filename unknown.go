package http2

// UnknownFrame retains any frame type outside the ten RFC 7540 types
// verbatim: same type, flags, stream id, and payload come back out on
// Encode exactly as they went in on Decode. The decoder never fails on an
// unrecognized type alone.
type UnknownFrame struct {
	kind    FrameType
	Stream  StreamID
	Flags   FrameFlags
	Payload []byte
}

var _ Frame = (*UnknownFrame)(nil)

func (u *UnknownFrame) FrameType() FrameType { return u.kind }

func (u *UnknownFrame) Decode(h FrameHeader, payload []byte) error {
	u.kind = h.Type
	u.Stream = h.Stream
	u.Flags = h.Flags
	u.Payload = append(u.Payload[:0], payload...)
	return nil
}

func (u *UnknownFrame) Encode() (FrameFlags, StreamID, []byte) {
	return u.Flags, u.Stream, u.Payload
}
