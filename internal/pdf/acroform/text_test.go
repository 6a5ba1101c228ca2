package acroform

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
)

func TestEncodeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want types.Object
	}{
		{"plain", "Jane Doe", types.StringLiteral("Jane Doe")},
		{"delimiters escaped", `a(b)\c`, types.StringLiteral(`a\(b\)\\c`)},
		{"line breaks escaped", "a\nb\tc", types.StringLiteral(`a\nb\tc`)},
		{"non ascii as utf16 with bom", "é", types.HexLiteral("FEFF00E9")},
		{"invalid utf8 replaced", "a\xffb", types.HexLiteral("FEFF0061FFFD0062")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeText(tt.in))
		})
	}
}
