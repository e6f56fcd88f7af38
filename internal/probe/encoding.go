package probe

import (
	"bytes"
	"unicode/utf8"
)

// Encoding is the heuristic classification of a file's byte content.
type Encoding string

const (
	EncodingUTF8BOM Encoding = "UTF-8 (with BOM)"
	EncodingUTF16   Encoding = "UTF-16"
	EncodingASCII   Encoding = "ASCII"
	EncodingUTF8    Encoding = "UTF-8"
	EncodingBinary  Encoding = "Binary/Unknown"
	EncodingUnknown Encoding = "Unknown"
)

// sniffLimit bounds the ASCII scan.
const sniffLimit = 1024

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding classifies data: byte-order marks first, then an ASCII scan of
// the first 1024 bytes, then a full UTF-8 validity check.
func DetectEncoding(data []byte) Encoding {
	if bytes.HasPrefix(data, bomUTF8) {
		return EncodingUTF8BOM
	}
	if bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE) {
		return EncodingUTF16
	}

	head := data
	if len(head) > sniffLimit {
		head = head[:sniffLimit]
	}
	ascii := true
	for _, b := range head {
		if b > 127 {
			ascii = false
			break
		}
	}
	if ascii {
		return EncodingASCII
	}

	if utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingBinary
}
