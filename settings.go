package http2

import "github.com/cornu/h2framer/http2utils"

// SettingID identifies a single SETTINGS parameter.
// https://httpwg.org/specs/rfc7540.html#SettingValues
type SettingID uint16

const (
	SettingHeaderTableSize      SettingID = 0x1
	SettingEnablePush           SettingID = 0x2
	SettingMaxConcurrentStreams SettingID = 0x3
	SettingInitialWindowSize    SettingID = 0x4
	SettingMaxFrameSize         SettingID = 0x5
	SettingMaxHeaderListSize    SettingID = 0x6
)

const (
	settingPairSize = 6 // 2-byte id + 4-byte value

	maxFlowControlWindow = 1<<31 - 1
	minNegotiableFrame   = 1 << 14
	maxNegotiableFrame   = 1<<24 - 1
)

// SettingEntry is one (identifier, value) pair carried by a SETTINGS frame.
type SettingEntry struct {
	ID    SettingID
	Value uint32
}

// SettingsFrame is the decoded form of a SETTINGS frame (type=0x4).
//
// Entries preserve wire order on both decode and encode.
type SettingsFrame struct {
	Ack     bool
	Entries []SettingEntry
}

var _ Frame = (*SettingsFrame)(nil)

func (s *SettingsFrame) FrameType() FrameType { return FrameSettings }

// Decode validates and parses a SETTINGS payload per
// https://tools.ietf.org/html/rfc7540#section-6.5.
func (s *SettingsFrame) Decode(h FrameHeader, payload []byte) error {
	if h.Stream != 0 {
		return errProtocol("SETTINGS frame must be sent on stream 0")
	}
	ack := h.Flags.Has(FlagAck)
	if ack && len(payload) != 0 {
		return errFrameSize("SETTINGS ACK must carry an empty payload")
	}
	if len(payload)%settingPairSize != 0 {
		return errFrameSize("SETTINGS payload length must be a multiple of 6")
	}

	s.Ack = ack
	s.Entries = s.Entries[:0]
	for i := 0; i+settingPairSize <= len(payload); i += settingPairSize {
		id := SettingID(uint16(payload[i])<<8 | uint16(payload[i+1]))
		value := http2utils.BytesToUint32(payload[i+2 : i+6])

		switch id {
		case SettingEnablePush:
			if value > 1 {
				return errProtocol("ENABLE_PUSH must be 0 or 1")
			}
		case SettingInitialWindowSize:
			if value > maxFlowControlWindow {
				return errFlowControl("INITIAL_WINDOW_SIZE exceeds 2^31-1")
			}
		case SettingMaxFrameSize:
			if value < minNegotiableFrame || value > maxNegotiableFrame {
				return errProtocol("MAX_FRAME_SIZE out of the [16384, 16777215] range")
			}
			// HeaderTableSize, MaxConcurrentStreams, MaxHeaderListSize: any u32.
			// Anything else: unrecognized identifier, no interpretation applied,
			// but still carried through so encode can round-trip it exactly.
		}

		s.Entries = append(s.Entries, SettingEntry{ID: id, Value: value})
	}

	return nil
}

// Encode writes the settings in the order stored. An ACK frame always
// encodes to an empty payload regardless of Entries.
func (s *SettingsFrame) Encode() (FrameFlags, StreamID, []byte) {
	var flags FrameFlags
	if s.Ack {
		flags = flags.Add(FlagAck)
		return flags, 0, nil
	}

	payload := make([]byte, 0, len(s.Entries)*settingPairSize)
	for _, e := range s.Entries {
		payload = append(payload, byte(e.ID>>8), byte(e.ID))
		payload = http2utils.AppendUint32Bytes(payload, e.Value)
	}
	return flags, 0, payload
}

// Get returns the value of the first entry matching id and whether it was
// present. Settings frames can legally carry a repeated id; callers that
// need last-write-wins semantics (the way an RFC-compliant peer applies
// a SETTINGS frame) should use EndpointSettings.Apply instead, which folds
// entries in wire order rather than stopping at the first match.
func (s *SettingsFrame) Get(id SettingID) (uint32, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e.Value, true
		}
	}
	return 0, false
}
