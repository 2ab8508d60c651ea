// internal/ndef/decode.go
package ndef

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	ErrNoContainer    = errors.New("ndef: no message container")
	ErrExtendedLength = errors.New("ndef: extended length container not supported")
	ErrTruncated      = errors.New("ndef: length runs past end of buffer")
	ErrChunked        = errors.New("ndef: chunked records not supported")
	ErrNoTextRecord   = errors.New("ndef: no text record in message")
	ErrInvalidText    = errors.New("ndef: text payload is not valid")
)

// ParseText extracts the first Text record from a raw tag memory dump.
// Pure function: no logging, no IO.
func ParseText(raw []byte) (string, error) {
	msg, err := container(raw)
	if err != nil {
		return "", err
	}

	for off := 0; off < len(msg); {
		rec, next, err := readRecord(msg, off)
		if err != nil {
			return "", err
		}

		if rec.tnf == TNFWellKnown && string(rec.typ) == TextType {
			return decodeText(rec.payload)
		}

		if rec.header&FlagME != 0 {
			break
		}
		off = next
	}

	return "", ErrNoTextRecord
}

// container returns the value region of the first message TLV.
func container(raw []byte) ([]byte, error) {
	start := -1
	for i, b := range raw {
		if b == TLVMessage {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoContainer
	}

	if start+1 >= len(raw) {
		return nil, ErrTruncated
	}

	length := int(raw[start+1])
	if length == TLVExtendedLength {
		return nil, ErrExtendedLength
	}

	value := start + 2
	if value+length > len(raw) {
		return nil, ErrTruncated
	}
	return raw[value : value+length], nil
}

type record struct {
	header  byte
	tnf     byte
	typ     []byte
	payload []byte
}

// readRecord parses one record at off and returns the offset of the next one.
//
// Layout:
//   header(1) typeLen(1) payloadLen(1|4) [idLen(1)] type id payload
func readRecord(msg []byte, off int) (record, int, error) {
	var rec record

	if off+2 > len(msg) {
		return rec, 0, ErrTruncated
	}
	rec.header = msg[off]
	rec.tnf = rec.header & TNFMask
	typeLen := int(msg[off+1])
	off += 2

	if rec.header&FlagCF != 0 {
		return rec, 0, ErrChunked
	}

	var payloadLen int
	if rec.header&FlagSR != 0 {
		if off+1 > len(msg) {
			return rec, 0, ErrTruncated
		}
		payloadLen = int(msg[off])
		off++
	} else {
		if off+4 > len(msg) {
			return rec, 0, ErrTruncated
		}
		n := binary.BigEndian.Uint32(msg[off : off+4])
		if uint64(n) > uint64(len(msg)) {
			return rec, 0, ErrTruncated
		}
		payloadLen = int(n)
		off += 4
	}

	idLen := 0
	if rec.header&FlagIL != 0 {
		if off+1 > len(msg) {
			return rec, 0, ErrTruncated
		}
		idLen = int(msg[off])
		off++
	}

	if off+typeLen+idLen+payloadLen > len(msg) {
		return rec, 0, ErrTruncated
	}

	rec.typ = msg[off : off+typeLen]
	off += typeLen + idLen
	rec.payload = msg[off : off+payloadLen]
	off += payloadLen

	return rec, off, nil
}

// decodeText strips the status byte and language code from a Text payload.
func decodeText(payload []byte) (string, error) {
	if len(payload) < 1 {
		return "", ErrTruncated
	}
	status := payload[0]
	langLen := int(status & TextLangMask)
	if 1+langLen > len(payload) {
		return "", ErrTruncated
	}
	body := payload[1+langLen:]

	if status&TextUTF16 != 0 {
		return decodeUTF16(body)
	}

	if !utf8.Valid(body) {
		return "", ErrInvalidText
	}
	return string(body), nil
}

// decodeUTF16 honours a leading BOM and defaults to big-endian.
func decodeUTF16(body []byte) (string, error) {
	if len(body)%2 != 0 {
		return "", ErrInvalidText
	}

	var order binary.ByteOrder = binary.BigEndian
	if len(body) >= 2 {
		switch {
		case body[0] == 0xFE && body[1] == 0xFF:
			body = body[2:]
		case body[0] == 0xFF && body[1] == 0xFE:
			order = binary.LittleEndian
			body = body[2:]
		}
	}

	units := make([]uint16, len(body)/2)
	for i := range units {
		units[i] = order.Uint16(body[2*i:])
	}
	return string(utf16.Decode(units)), nil
}

// Decoder is the logging boundary around ParseText.
// Tag reads are unreliable, so every failure collapses to "no identifier".
type Decoder struct {
	log *slog.Logger
}

func NewDecoder(log *slog.Logger) *Decoder {
	if log == nil {
		log = slog.Default()
	}
	return &Decoder{log: log}
}

// Decode returns the text identifier on the tag, if any.
// ok is false when no identifier could be extracted; "" with ok true is an
// empty Text record.
func (d *Decoder) Decode(raw []byte) (text string, ok bool) {
	text, err := ParseText(raw)
	if err != nil {
		if errors.Is(err, ErrNoContainer) {
			d.log.Debug("tag has no ndef message", "bytes", len(raw))
		} else {
			d.log.Warn("tag decode failed", "bytes", len(raw), "err", err)
		}
		return "", false
	}
	return text, true
}
