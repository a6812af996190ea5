package http2

import "github.com/cornu/h2framer/http2utils"

// FrameIter lazily yields complete frames from a borrowed byte slice,
// stopping at the first incomplete suffix. It does not consume from any
// underlying buffer — callers that sit on top of an AsyncBufReader are
// expected to call Consume(it.Cursor()) once they're done iterating.
//
// A FrameIter is a finite, non-restartable sequence scoped to a single
// borrow of the slice it was built from.
type FrameIter struct {
	data       []byte
	cursor     int
	maxPayload uint32
}

// NewFrameIter starts an iterator over data, rejecting any frame whose
// declared payload length exceeds maxPayload.
func NewFrameIter(data []byte, maxPayload uint32) *FrameIter {
	return &FrameIter{data: data, maxPayload: maxPayload}
}

// Cursor returns how many bytes of data have been consumed by yielded
// frames so far.
func (it *FrameIter) Cursor() int {
	return it.cursor
}

// Next attempts to decode the next frame.
//
//   - ok==false: not enough bytes remain for a full frame; the cursor is
//     left untouched, so after a refill the caller can start a new
//     FrameIter over the bytes from Cursor() on.
//   - ok==true, err is a FrameSize error raised before decoding: the
//     declared payload length exceeds maxPayload. The cursor is NOT
//     advanced — the caller may inspect the still-unread bytes or drop the
//     connection.
//   - ok==true, err from the variant decoder (which may also be a
//     FrameSize error, e.g. a SETTINGS length not a multiple of 6): the
//     frame was complete but failed validation; the cursor has been
//     advanced past it.
//   - ok==true, err==nil: header and frame are valid; the cursor has been
//     advanced past this frame.
func (it *FrameIter) Next() (FrameHeader, Frame, error, bool) {
	remaining := len(it.data) - it.cursor
	if remaining < 3 {
		return FrameHeader{}, nil, nil, false
	}

	payloadLen := http2utils.BytesToUint24(it.data[it.cursor : it.cursor+3])
	if payloadLen > it.maxPayload {
		return FrameHeader{}, nil, errFrameSize("payload length exceeds negotiated maximum"), true
	}

	need := FrameHeaderSize + int(payloadLen)
	if remaining < need {
		return FrameHeader{}, nil, nil, false
	}

	window := it.data[it.cursor : it.cursor+need]
	h := decodeFrameHeader(window[:FrameHeaderSize])
	f, err := decodeVariant(h, window[FrameHeaderSize:])
	it.cursor += need
	return h, f, err, true
}
