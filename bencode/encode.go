package bencode

import (
	"bytes"
	"fmt"
	"strconv"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Encode returns the canonical encoding of v. Dictionary keys are emitted in
// byte-wise ascending order at every nesting depth, regardless of how the
// dictionary was populated. Encoding a well-formed value cannot fail.
func Encode(v Value) []byte {
	w := newWriter()
	w.writeValue(v)
	return w.buf.Bytes()
}

// Compare two values in shortlex order based on their canonical encoding.
// Return 0 for equal, -1 for a is less than b, and 1 for a is greater than b.
func Compare(a, b Value) int {
	abytes := Encode(a)
	bbytes := Encode(b)
	if len(abytes) < len(bbytes) {
		return -1
	} else if len(abytes) > len(bbytes) {
		return 1
	}
	return bytes.Compare(abytes, bbytes)
}

type writer struct {
	buf bytes.Buffer
}

func newWriter() *writer {
	return &writer{}
}

func (w *writer) writeBytes(b []byte) {
	w.buf.WriteString(strconv.Itoa(len(b)))
	w.buf.WriteByte(bytesLengthSep)
	w.buf.Write(b)
}

func (w *writer) writeSignedNumber(n int64) {
	w.buf.WriteByte(integerStart)
	w.buf.WriteString(strconv.FormatInt(n, 10))
	w.buf.WriteByte(bencodeEnd)
}

func (w *writer) writeUnsignedNumber(n uint64) {
	w.buf.WriteByte(integerStart)
	w.buf.WriteString(strconv.FormatUint(n, 10))
	w.buf.WriteByte(bencodeEnd)
}

func (w *writer) writeValue(v Value) {
	switch v := v.(type) {
	case Integer:
		w.writeSignedNumber(int64(v))
	case String:
		w.writeBytes(v)
	case List:
		w.buf.WriteByte(listStart)
		for _, item := range v {
			w.writeValue(item)
		}
		w.buf.WriteByte(bencodeEnd)
	case Dictionary:
		w.buf.WriteByte(dictStart)
		// The sort is the canonicalization step, applied here on every
		// encode rather than maintained as a storage invariant.
		keys := maps.Keys(v)
		slices.Sort(keys)
		for _, k := range keys {
			w.writeBytes([]byte(k))
			w.writeValue(v[k])
		}
		w.buf.WriteByte(bencodeEnd)
	default:
		panic(fmt.Sprintf("cannot encode a value of type %T", v))
	}
}
