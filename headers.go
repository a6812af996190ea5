package http2

import (
	"github.com/cornu/h2framer/http2utils"
	"github.com/cornu/h2framer/hpack"
)

// HeadersFrame is the decoded form of a HEADERS frame (type=0x1).
//
// CONTINUATION joining is out of scope here: Fragment is the opaque
// header block fragment exactly as it appeared on the wire, with any
// padding and the priority sub-record already stripped. Joining
// fragments across CONTINUATION frames is the connection collaborator's
// job.
//
// https://tools.ietf.org/html/rfc7540#section-6.2
type HeadersFrame struct {
	Stream     StreamID
	Fragment   []byte
	Priority   *PriorityDep // nil unless the PRIORITY flag was set
	EndStream  bool
	EndHeaders bool

	// Fields holds Fragment run through HPACK decompression. Decode never
	// populates it — the dispatcher stays HPACK-agnostic per spec — it's
	// set by Conn.TryReadFrame once EndHeaders makes Fragment a complete
	// header block.
	Fields []hpack.HeaderField
}

var _ Frame = (*HeadersFrame)(nil)

func (h *HeadersFrame) FrameType() FrameType { return FrameHeaders }

func (hf *HeadersFrame) Decode(h FrameHeader, payload []byte) error {
	if h.Stream == 0 {
		return errProtocol("HEADERS frame must be associated with a stream")
	}

	if h.Flags.Has(FlagPadded) {
		stripped, err := http2utils.CutPadding(payload)
		if err != nil {
			return errFrameSize(err.Error())
		}
		payload = stripped
	}

	hf.Priority = nil
	if h.Flags.Has(FlagPriority) {
		if len(payload) < priorityPayloadLen {
			return errFrameSize("HEADERS priority sub-record truncated")
		}
		dep := decodePriorityDep(payload)
		hf.Priority = &dep
		payload = payload[priorityPayloadLen:]
	}

	hf.Stream = h.Stream
	hf.EndStream = h.Flags.Has(FlagEndStream)
	hf.EndHeaders = h.Flags.Has(FlagEndHeaders)
	hf.Fragment = append(hf.Fragment[:0], payload...)
	return nil
}

// Encode produces the sub-record (if any) followed by the fragment.
// Padding is never emitted here — the spec leaves PADDED as a decode-only
// concession to bytes already on the wire.
func (hf *HeadersFrame) Encode() (FrameFlags, StreamID, []byte) {
	var flags FrameFlags
	if hf.EndStream {
		flags = flags.Add(FlagEndStream)
	}
	if hf.EndHeaders {
		flags = flags.Add(FlagEndHeaders)
	}

	var payload []byte
	if hf.Priority != nil {
		flags = flags.Add(FlagPriority)
		payload = make([]byte, priorityPayloadLen)
		hf.Priority.encodeInto(payload)
	}
	payload = append(payload, hf.Fragment...)

	return flags, hf.Stream, payload
}
