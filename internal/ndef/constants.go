// internal/ndef/constants.go
package ndef

// TLV block types found in tag user memory.
const (
	TLVNull       = 0x00 // padding
	TLVMessage    = 0x03 // NDEF message container
	TLVTerminator = 0xFE // end of TLV area
)

// TLVExtendedLength marks a three-byte length field. Not supported.
const TLVExtendedLength = 0xFF

// Record header flags.
const (
	FlagMB = 0x80 // message begin
	FlagME = 0x40 // message end
	FlagCF = 0x20 // chunk flag
	FlagSR = 0x10 // short record (1-byte payload length)
	FlagIL = 0x08 // ID length present
)

// TNFMask selects the type name format bits of a record header.
const TNFMask = 0x07

// Type name formats.
const (
	TNFEmpty     = 0x00
	TNFWellKnown = 0x01
)

// Text record payload status byte.
const (
	TextUTF16    = 0x80 // bit 7: text is UTF-16
	TextLangMask = 0x3F // bits 0-5: IANA language code length
)

// TextType is the well-known record type of a Text record.
const TextType = "T"
