// Package hpack is the thin header-compression collaborator the framing
// core hands HEADERS/CONTINUATION fragments to. RFC 7541 compression
// itself is out of the framing core's scope (spec.md §1); this package
// wraps golang.org/x/net/http2/hpack rather than reimplementing the
// static table and Huffman codes the teacher's own hand-rolled hpack.go
// got wrong in places (see DESIGN.md).
package hpack

import (
	"bytes"

	"golang.org/x/net/http2/hpack"
)

// HeaderField is a decoded header name/value pair.
type HeaderField = hpack.HeaderField

// Codec pairs a decoder and an encoder the way the teacher's Conn keeps
// one HPACK per direction (enc for outbound, dec for inbound).
type Codec struct {
	dec *hpack.Decoder
	enc *hpack.Encoder
	buf bytes.Buffer
}

// NewCodec builds a Codec whose decoder honors maxDynamicTableSize: the
// SETTINGS_HEADER_TABLE_SIZE this endpoint itself advertises, which
// bounds how large a dynamic table the peer's encoder may assume when
// compressing headers sent to us.
func NewCodec(maxDynamicTableSize uint32) *Codec {
	c := &Codec{}
	c.dec = hpack.NewDecoder(maxDynamicTableSize, nil)
	c.enc = hpack.NewEncoder(&c.buf)
	return c
}

// Decode turns a HEADERS/CONTINUATION fragment (spec.md's opaque
// Fragment) into header fields.
func (c *Codec) Decode(fragment []byte) ([]HeaderField, error) {
	return c.dec.DecodeFull(fragment)
}

// Encode serializes fields into a header block fragment suitable for
// HeadersFrame.Fragment.
func (c *Codec) Encode(fields []HeaderField) ([]byte, error) {
	c.buf.Reset()
	for _, f := range fields {
		if err := c.enc.WriteField(f); err != nil {
			return nil, err
		}
	}
	out := make([]byte, c.buf.Len())
	copy(out, c.buf.Bytes())
	return out, nil
}

// SetMaxDynamicTableSize updates the decoder's table size bound, called
// after this endpoint changes its own advertised HEADER_TABLE_SIZE.
func (c *Codec) SetMaxDynamicTableSize(v uint32) {
	c.dec.SetMaxDynamicTableSize(v)
}
