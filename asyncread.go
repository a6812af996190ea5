package http2

import "github.com/cornu/h2framer/http2utils"

// TryReadFrame is the pull-style twin of FrameIter: it fills r from its
// source, checks whether a whole frame is already buffered, and if so
// invokes the dispatcher on r directly (which advances r's read cursor as
// it consumes header and payload bytes).
//
// It returns (header{}, nil, nil) — no error, no frame — when the source
// currently has less than a full frame buffered; the caller should try
// again once more bytes have arrived.
func (r *AsyncBufReader) TryReadFrame(maxPayload uint32) (FrameHeader, Frame, error) {
	if _, err := r.FillBuf(); err != nil {
		return FrameHeader{}, nil, err
	}
	if r.Len() < 3 {
		return FrameHeader{}, nil, nil
	}
	payloadLen := http2utils.BytesToUint24(r.Prefix(3))
	if r.Len() < FrameHeaderSize+int(payloadLen) {
		return FrameHeader{}, nil, nil
	}
	return ReadFrame(r, maxPayload)
}
