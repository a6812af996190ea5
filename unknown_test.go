package http2

import (
	"bytes"
	"testing"
)

func TestUnknownFrameDecodeNeverFails(t *testing.T) {
	uf := &UnknownFrame{}
	payload := []byte{1, 2, 3, 4}
	err := uf.Decode(FrameHeader{Type: FrameType(0x42), Stream: 7, Flags: 0x03}, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uf.FrameType() != FrameType(0x42) || uf.Stream != 7 || uf.Flags != 0x03 {
		t.Fatalf("unexpected decode result: %+v", uf)
	}
	if !bytes.Equal(uf.Payload, payload) {
		t.Fatalf("payload mismatch: %v", uf.Payload)
	}

	flags, stream, out := uf.Encode()
	if flags != 0x03 || stream != 7 || !bytes.Equal(out, payload) {
		t.Fatalf("encode mismatch: flags=%v stream=%v payload=%v", flags, stream, out)
	}
}

func TestUnknownFrameTypeOutsideKnownRange(t *testing.T) {
	if FrameType(0x0A).Known() {
		t.Fatalf("0x0A should be outside the known frame type range")
	}
	if !FrameType(0x09).Known() {
		t.Fatalf("CONTINUATION (0x09) should be the last known frame type")
	}
}

func TestStubFrameRoundTripsKnownButUnspecifiedTypes(t *testing.T) {
	known := []FrameType{
		FrameData, FrameResetStream, FramePushPromise,
		FramePing, FrameGoAway, FrameWindowUpdate, FrameContinuation,
	}
	for _, kind := range known {
		sf := &StubFrame{}
		payload := []byte{0xDE, 0xAD}
		if err := sf.Decode(FrameHeader{Type: kind, Stream: 2, Flags: 0x01}, payload); err != nil {
			t.Fatalf("%v: unexpected error: %v", kind, err)
		}
		if sf.FrameType() != kind {
			t.Fatalf("expected type %v, got %v", kind, sf.FrameType())
		}
		flags, stream, out := sf.Encode()
		if flags != 0x01 || stream != 2 || !bytes.Equal(out, payload) {
			t.Fatalf("%v: encode mismatch", kind)
		}
	}
}

func TestDispatcherRoutesUnspecifiedKnownTypesToStub(t *testing.T) {
	h := FrameHeader{Type: FramePing, Stream: 0, Length: 8}
	f, err := decodeVariant(h, make([]byte, 8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.(*StubFrame); !ok {
		t.Fatalf("expected *StubFrame, got %T", f)
	}
}

func TestDispatcherRoutesTrulyUnknownTypesToUnknown(t *testing.T) {
	h := FrameHeader{Type: FrameType(0xFE), Stream: 0, Length: 2}
	f, err := decodeVariant(h, make([]byte, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.(*UnknownFrame); !ok {
		t.Fatalf("expected *UnknownFrame, got %T", f)
	}
}
