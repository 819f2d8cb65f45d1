package extract

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText decodes UTF-8, falling back to Windows-1252 and then Latin-1.
// Latin-1 maps every byte, so decoding always succeeds.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}

	if s, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil && !bytes.ContainsRune(s, utf8.RuneError) {
		return string(s)
	}

	s, _ := charmap.ISO8859_1.NewDecoder().String(string(data))
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
