package http2

// StubFrame covers the RFC 7540 frame types this core recognizes by type
// but doesn't interpret: Data, RstStream, PushPromise, Ping, GoAway,
// WindowUpdate, Continuation. Their semantics belong to collaborators
// spec.md declares out of scope (flow control, the stream state machine,
// CONTINUATION joining) — this core's job stops at preserving the type
// tag, flags, stream id, and raw payload round-trip, exactly like
// UnknownFrame but for a type the dispatcher already recognizes.
type StubFrame struct {
	kind    FrameType
	Stream  StreamID
	Flags   FrameFlags
	Payload []byte
}

var _ Frame = (*StubFrame)(nil)

func (s *StubFrame) FrameType() FrameType { return s.kind }

func (s *StubFrame) Decode(h FrameHeader, payload []byte) error {
	s.kind = h.Type
	s.Stream = h.Stream
	s.Flags = h.Flags
	s.Payload = append(s.Payload[:0], payload...)
	return nil
}

func (s *StubFrame) Encode() (FrameFlags, StreamID, []byte) {
	return s.Flags, s.Stream, s.Payload
}
