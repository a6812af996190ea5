package http2

import "fmt"

// ErrorKind is the closed set of protocol/frame-size/flow-control/internal
// error classes the framing core can report. The numeric values match the
// HTTP/2 error codes (https://httpwg.org/specs/rfc7540.html#ErrorCodes) so
// a connection collaborator can surface them directly as GOAWAY or
// RST_STREAM codes.
type ErrorKind uint32

const (
	ErrNone                ErrorKind = 0x0
	ErrKindProtocol        ErrorKind = 0x1
	ErrKindInternal        ErrorKind = 0x2
	ErrKindFlowControl     ErrorKind = 0x3
	ErrKindSettingsTimeout ErrorKind = 0x4
	ErrKindStreamClosed    ErrorKind = 0x5
	ErrKindFrameSize       ErrorKind = 0x6
	ErrKindRefusedStream   ErrorKind = 0x7
	ErrKindCancel          ErrorKind = 0x8
	ErrKindCompression     ErrorKind = 0x9
	ErrKindConnect         ErrorKind = 0xa
	ErrKindEnhanceYourCalm ErrorKind = 0xb
	ErrKindInadequateSec   ErrorKind = 0xc
	ErrKindHTTP11Required  ErrorKind = 0xd
)

var errKindNames = map[ErrorKind]string{
	ErrNone:                "NO_ERROR",
	ErrKindProtocol:        "PROTOCOL_ERROR",
	ErrKindInternal:        "INTERNAL_ERROR",
	ErrKindFlowControl:     "FLOW_CONTROL_ERROR",
	ErrKindSettingsTimeout: "SETTINGS_TIMEOUT",
	ErrKindStreamClosed:    "STREAM_CLOSED",
	ErrKindFrameSize:       "FRAME_SIZE_ERROR",
	ErrKindRefusedStream:   "REFUSED_STREAM",
	ErrKindCancel:          "CANCEL",
	ErrKindCompression:     "COMPRESSION_ERROR",
	ErrKindConnect:         "CONNECT_ERROR",
	ErrKindEnhanceYourCalm: "ENHANCE_YOUR_CALM",
	ErrKindInadequateSec:   "INADEQUATE_SECURITY",
	ErrKindHTTP11Required:  "HTTP_1_1_REQUIRED",
}

// String returns the RFC 7540 name for k, or a numeric fallback for
// anything outside the closed set.
func (k ErrorKind) String() string {
	if name, ok := errKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(0x%x)", uint32(k))
}

// Error is a framing-core error: a closed-set kind plus an optional cause.
// Decoders return these; the transport's own I/O failures get wrapped as
// ErrKindInternal on the way out.
type Error struct {
	Kind  ErrorKind
	Msg   string
	cause error
}

// NewError builds an Error of the given kind with a message.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// WrapError builds an Error of the given kind around a causing error.
func WrapError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, Msg: cause.Error(), cause: cause}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the underlying cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether err is an *Error of the same Kind as e, so callers can
// write errors.Is(err, &Error{Kind: ErrKindProtocol}) style checks, or more
// idiomatically use IsKind below.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// IsKind reports whether err is a *Error carrying the given kind.
func IsKind(err error, kind ErrorKind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

func errProtocol(msg string) error     { return NewError(ErrKindProtocol, msg) }
func errFrameSize(msg string) error    { return NewError(ErrKindFrameSize, msg) }
func errFlowControl(msg string) error  { return NewError(ErrKindFlowControl, msg) }
func errInternal(cause error) error    { return WrapError(ErrKindInternal, cause) }
func errCompression(cause error) error { return WrapError(ErrKindCompression, cause) }
