// Package pdftest builds small PDF documents in memory for tests. Objects
// are written as raw PDF syntax and a classic cross-reference table is
// computed on output.
package pdftest

import (
	"bytes"
	"fmt"
)

// Builder collects numbered objects of a PDF file
type Builder struct {
	objects []string
}

// New creates an empty builder
func New() *Builder {
	return &Builder{}
}

// Reserve allocates an object number whose body is supplied later via Set
func (b *Builder) Reserve() int {
	b.objects = append(b.objects, "null")
	return len(b.objects)
}

// Add appends an object and returns its number
func (b *Builder) Add(body string) int {
	b.objects = append(b.objects, body)
	return len(b.objects)
}

// Addf is Add with fmt.Sprintf formatting
func (b *Builder) Addf(format string, args ...interface{}) int {
	return b.Add(fmt.Sprintf(format, args...))
}

// Set replaces the body of object nr
func (b *Builder) Set(nr int, body string) {
	b.objects[nr-1] = body
}

// Setf is Set with fmt.Sprintf formatting
func (b *Builder) Setf(nr int, format string, args ...interface{}) {
	b.Set(nr, fmt.Sprintf(format, args...))
}

// AddStream appends a stream object; Length is computed from data
func (b *Builder) AddStream(dict, data string) int {
	if dict == "" {
		dict = "<<>>"
	}
	// splice Length into the dictionary before its closing delimiter
	head := dict[:len(dict)-2]
	body := fmt.Sprintf("%s /Length %d >>\nstream\n%s\nendstream", head, len(data), data)
	return b.Add(body)
}

// Bytes serializes the objects with root as the catalog
func (b *Builder) Bytes(root int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(b.objects))
	for i, body := range b.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(b.objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(b.objects)+1, root, xref)

	return buf.Bytes()
}

// Ref formats an indirect reference
func Ref(nr int) string {
	return fmt.Sprintf("%d 0 R", nr)
}

// Refs formats an array of indirect references
func Refs(nrs ...int) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, nr := range nrs {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(Ref(nr))
	}
	buf.WriteByte(']')
	return buf.String()
}
