package http2

import (
	"errors"
	"io"
	"net"
)

const (
	// initialBufSize is the starting capacity of a fresh AsyncBufReader.
	initialBufSize = 64
	// defaultGrowth caps how much a single grow step adds to the readable
	// length; below the cap a grow step doubles it.
	defaultGrowth = 8192
)

// ErrWouldBlock is the sentinel a non-blocking byte source returns to mean
// "no data available right now, try again later". AsyncBufReader also
// recognizes any error satisfying net.Error with Timeout() true, which is
// how most non-blocking net.Conn implementations surface the same signal.
var ErrWouldBlock = errors.New("http2: read would block")

func isWouldBlock(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrWouldBlock) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

// AsyncBufReader is a growable sliding byte buffer over any non-blocking
// byte source. It absorbs short reads and would-block signals, handing the
// caller back whatever the kernel was willing to give up this tick.
//
// The readable window is buf[pos:cap]. Whenever pos catches up to cap both
// are reset to zero: the only compaction path that doesn't reallocate.
//
// An AsyncBufReader is not safe for concurrent use: one writer (fill/read/
// consume) and zero concurrent readers of its peek views at a time.
type AsyncBufReader struct {
	src io.Reader
	buf []byte
	pos int
	cap int
}

// NewAsyncBufReader wraps src with an AsyncBufReader. src must already be
// configured non-blocking by the caller.
func NewAsyncBufReader(src io.Reader) *AsyncBufReader {
	return &AsyncBufReader{
		src: src,
		buf: make([]byte, initialBufSize),
	}
}

// Len returns the number of bytes currently readable.
func (r *AsyncBufReader) Len() int {
	return r.cap - r.pos
}

// grow reallocates the backing store and compacts the readable window to
// offset 0: new capacity = readable length + min(readable, defaultGrowth).
// Only called once the backing store is full (see FillBuf), so there's no
// in-place compaction path — a realloc is unavoidable at that point.
func (r *AsyncBufReader) grow() {
	readable := r.Len()
	growBy := readable
	if growBy > defaultGrowth {
		growBy = defaultGrowth
	}
	newBuf := make([]byte, readable+growBy)
	copy(newBuf, r.buf[r.pos:r.cap])
	r.buf = newBuf
	r.pos = 0
	r.cap = readable
}

// FillBuf performs a best-effort pull from the source and returns the
// readable window.
//
// On every iteration: if the backing store is full, grow/compact it, then
// issue a single read into the remaining room. A would-block error counts
// as zero bytes read. io.EOF ends the fill without an error, returning
// whatever is buffered. Any other read error is reported as ErrKindInternal.
// The loop keeps going only when the read exactly filled the available
// room — that's the signal more bytes might be sitting in the kernel
// buffer right now; any short read means the source has nothing left to
// give this tick, so the loop exits even if room remains (issuing another
// read then could itself block).
func (r *AsyncBufReader) FillBuf() ([]byte, error) {
	for {
		if r.cap == len(r.buf) {
			r.grow()
		}
		room := len(r.buf) - r.cap
		n, err := r.src.Read(r.buf[r.cap:])
		switch {
		case err == nil:
		case isWouldBlock(err):
			n = 0
		case errors.Is(err, io.EOF):
			r.cap += n
			return r.buf[r.pos:r.cap], nil
		default:
			return nil, errInternal(err)
		}
		r.cap += n
		if n != room {
			break
		}
	}
	return r.buf[r.pos:r.cap], nil
}

// Consume advances pos by min(n, cap-pos). When pos catches up to cap both
// are reset to zero.
func (r *AsyncBufReader) Consume(n int) {
	if n > r.Len() {
		n = r.Len()
	}
	r.pos += n
	if r.pos == r.cap {
		r.pos = 0
		r.cap = 0
	}
}

// Read drains up to len(dst) bytes from the front of the readable window.
func (r *AsyncBufReader) Read(dst []byte) (int, error) {
	n := copy(dst, r.buf[r.pos:r.cap])
	r.Consume(n)
	return n, nil
}

// At returns the byte at offset i within the readable window.
func (r *AsyncBufReader) At(i int) byte {
	return r.buf[r.pos+i]
}

// Range returns a read-only view of the readable window's [i, j) slice.
func (r *AsyncBufReader) Range(i, j int) []byte {
	return r.buf[r.pos+i : r.pos+j]
}

// Prefix returns a read-only view of the readable window's first j bytes.
func (r *AsyncBufReader) Prefix(j int) []byte {
	return r.buf[r.pos : r.pos+j]
}

// Suffix returns a read-only view of the readable window starting at i.
func (r *AsyncBufReader) Suffix(i int) []byte {
	return r.buf[r.pos+i : r.cap]
}

// Whole returns a read-only view of the entire readable window. The view
// is invalidated by any subsequent FillBuf, Read, or Consume call.
func (r *AsyncBufReader) Whole() []byte {
	return r.buf[r.pos:r.cap]
}
