package http2

import "github.com/cornu/h2framer/http2utils"

// priorityPayloadLen is the fixed wire size of a PRIORITY frame payload
// and of the priority sub-record embedded in a HEADERS frame.
const priorityPayloadLen = 5

// exclusiveBit is the single reserved bit of the 32-bit dependency field
// that marks an exclusive stream dependency. Earlier revisions used
// 0x8000000 (one hex digit short); the correct mask is 0x80000000.
const exclusiveBit uint32 = 0x80000000

// PriorityDep is the 5-octet dependency/weight sub-record, used both
// standalone (PriorityFrame) and embedded in HeadersFrame when the
// PRIORITY flag is set.
type PriorityDep struct {
	Exclusive  bool
	Dependency StreamID
	// Weight is exposed in its RFC-visible 1..=256 range (wire value + 1).
	Weight uint16
}

func decodePriorityDep(b []byte) PriorityDep {
	raw := http2utils.BytesToUint32(b[0:4])
	return PriorityDep{
		Exclusive:  raw&exclusiveBit != 0,
		Dependency: StreamID(raw &^ exclusiveBit),
		Weight:     uint16(b[4]) + 1,
	}
}

func (p PriorityDep) encodeInto(b []byte) {
	dep := p.Dependency.Uint32()
	if p.Exclusive {
		dep |= exclusiveBit
	}
	http2utils.Uint32ToBytes(b[0:4], dep)
	b[4] = byte(p.Weight - 1)
}

// PriorityFrame is the decoded form of a PRIORITY frame (type=0x2).
//
// https://tools.ietf.org/html/rfc7540#section-6.3
type PriorityFrame struct {
	Stream StreamID
	Dep    PriorityDep
}

var _ Frame = (*PriorityFrame)(nil)

func (p *PriorityFrame) FrameType() FrameType { return FramePriority }

func (p *PriorityFrame) Decode(h FrameHeader, payload []byte) error {
	// The RFC requires a non-zero stream id here; one now-superseded
	// revision of this decoder required zero instead, which was a bug.
	if h.Stream == 0 {
		return errProtocol("PRIORITY frame must be associated with a stream")
	}
	if h.Length != priorityPayloadLen {
		return errFrameSize("PRIORITY payload must be exactly 5 octets")
	}
	p.Stream = h.Stream
	p.Dep = decodePriorityDep(payload)
	return nil
}

func (p *PriorityFrame) Encode() (FrameFlags, StreamID, []byte) {
	payload := make([]byte, priorityPayloadLen)
	p.Dep.encodeInto(payload)
	return 0, p.Stream, payload
}
