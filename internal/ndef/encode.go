// internal/ndef/encode.go
package ndef

// EncodeText builds a message TLV holding one short UTF-8 Text record,
// followed by a terminator TLV. Names longer than a short record allows are
// truncated to fit.
func EncodeText(lang, text string) []byte {
	if len(lang) > TextLangMask {
		lang = lang[:TextLangMask]
	}

	payload := make([]byte, 0, 1+len(lang)+len(text))
	payload = append(payload, byte(len(lang)))
	payload = append(payload, lang...)
	payload = append(payload, text...)

	// header(1) + typeLen(1) + payloadLen(1) + type(1) must fit in 254.
	if limit := 254 - 4; len(payload) > limit {
		payload = payload[:limit]
	}

	rec := make([]byte, 0, 4+len(payload))
	rec = append(rec, FlagMB|FlagME|FlagSR|TNFWellKnown)
	rec = append(rec, byte(len(TextType)))
	rec = append(rec, byte(len(payload)))
	rec = append(rec, TextType...)
	rec = append(rec, payload...)

	out := make([]byte, 0, 3+len(rec))
	out = append(out, TLVMessage, byte(len(rec)))
	out = append(out, rec...)
	out = append(out, TLVTerminator)
	return out
}
