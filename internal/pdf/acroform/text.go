package acroform

import (
	"encoding/hex"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/unicode"
)

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)

// encodeText converts a UTF-8 string into a PDF text string object. Printable
// ASCII is written as an escaped literal; everything else as UTF-16BE with a
// byte order mark inside a hex string.
func encodeText(s string) types.Object {
	s = strings.ToValidUTF8(s, "\uFFFD")

	if isPlainASCII(s) {
		if escaped, err := types.Escape(s); err == nil {
			return types.StringLiteral(*escaped)
		}
	}

	encoded, err := utf16be.NewEncoder().String(s)
	if err != nil {
		return types.StringLiteral("")
	}
	return types.HexLiteral(strings.ToUpper(hex.EncodeToString([]byte(encoded))))
}

// isPlainASCII reports whether s fits PDFDocEncoding without translation
func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\n' || c == '\r' || c == '\t' {
			continue
		}
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// encodeTexts converts every string of values
func encodeTexts(values []string) types.Array {
	arr := make(types.Array, 0, len(values))
	for _, v := range values {
		arr = append(arr, encodeText(v))
	}
	return arr
}
