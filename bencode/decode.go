package bencode

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrorKind classifies decode failures.
type ErrorKind int

const (
	// UnexpectedByte means a byte was read that matches no grammar
	// continuation at the current position, including a wrong byte where an
	// 'e' terminator was required.
	UnexpectedByte ErrorKind = iota
	// InvalidInteger means an integer had a leading zero, a lone '-', a
	// negative zero or an empty digit run.
	InvalidInteger
	// InvalidLength means a byte string length prefix was malformed.
	InvalidLength
	// TruncatedInput means the buffer ended before a declared length was
	// satisfied or before a required terminator was found.
	TruncatedInput
	// NestingTooDeep means the recursion guard triggered.
	NestingTooDeep
	// DuplicateKey means a dictionary contained the same key twice. Only
	// reported in strict-keys mode.
	DuplicateKey
	// UnsortedKey means a dictionary key was out of byte-wise order. Only
	// reported in strict-key-order mode.
	UnsortedKey
	// IntegerOverflow means a decoded integer does not fit in an int64.
	IntegerOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedByte:
		return "unexpected byte"
	case InvalidInteger:
		return "invalid integer"
	case InvalidLength:
		return "invalid length"
	case TruncatedInput:
		return "truncated input"
	case NestingTooDeep:
		return "nesting too deep"
	case DuplicateKey:
		return "duplicate key"
	case UnsortedKey:
		return "unsorted key"
	case IntegerOverflow:
		return "integer overflow"
	default:
		return "unknown"
	}
}

// DecodeError describes why and where a decode failed. Offset is the byte
// offset of the first offending byte.
type DecodeError struct {
	Kind   ErrorKind
	Offset int
	msg    string
}

func newDecodeError(kind ErrorKind, offset int, msg string, vars ...interface{}) *DecodeError {
	return &DecodeError{kind, offset, fmt.Sprintf(msg, vars...)}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.msg, e.Offset)
}

// DefaultMaxDepth bounds list and dictionary nesting during decode.
const DefaultMaxDepth = 1000

// Decoder decodes bencode values from a byte buffer.
type Decoder struct {
	buf         []byte
	pos         int
	maxDepth    int
	strictKeys  bool
	strictOrder bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithMaxDepth overrides the default nesting guard.
func WithMaxDepth(n int) Option {
	return func(d *Decoder) {
		d.maxDepth = n
	}
}

// WithStrictKeys rejects dictionaries containing the same key twice. The
// default is lenient: the last occurrence wins.
func WithStrictKeys() Option {
	return func(d *Decoder) {
		d.strictKeys = true
	}
}

// WithStrictKeyOrder rejects dictionaries whose keys are not in byte-wise
// ascending order. The default accepts any input order; output order is
// always canonical regardless.
func WithStrictKeyOrder() Option {
	return func(d *Decoder) {
		d.strictOrder = true
	}
}

// NewDecoder constructs a Decoder over buf.
func NewDecoder(buf []byte, opts ...Option) *Decoder {
	d := &Decoder{
		buf:      buf,
		maxDepth: DefaultMaxDepth,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Decode decodes the first value in buf and returns the number of bytes
// consumed. Trailing bytes after a complete value are not an error here;
// callers that require full consumption should use Parse.
func Decode(buf []byte) (Value, int, error) {
	d := NewDecoder(buf)
	v, err := d.readValue(0)
	if err != nil {
		return nil, 0, err
	}
	return v, d.pos, nil
}

// Parse decodes exactly one value and requires the whole buffer to be
// consumed.
func Parse(buf []byte, opts ...Option) (Value, error) {
	d := NewDecoder(buf, opts...)
	v, err := d.readValue(0)
	if err != nil {
		return nil, err
	}
	if !d.isAtEnd() {
		return nil, newDecodeError(UnexpectedByte, d.pos, "trailing data after value")
	}
	return v, nil
}

// Decode decodes the next value in the buffer.
func (d *Decoder) Decode() (Value, error) {
	return d.readValue(0)
}

// DecodeAll decodes values until the end of the buffer.
func (d *Decoder) DecodeAll() ([]Value, error) {
	var items []Value
	for !d.isAtEnd() {
		v, err := d.readValue(0)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// Pos returns the number of bytes consumed so far.
func (d *Decoder) Pos() int {
	return d.pos
}

func (d *Decoder) isAtEnd() bool {
	return d.pos >= len(d.buf)
}

func (d *Decoder) peek() (byte, error) {
	if d.isAtEnd() {
		return 0, newDecodeError(TruncatedInput, d.pos, "unexpected end of buffer")
	}
	return d.buf[d.pos], nil
}

func (d *Decoder) expectByte(b byte) error {
	c, err := d.peek()
	if err != nil {
		return err
	}
	if c != b {
		return newDecodeError(UnexpectedByte, d.pos, "expected 0x%x, got 0x%x", b, c)
	}
	d.pos++
	return nil
}

func isDigit(c byte) bool {
	return c >= 0x30 && c <= 0x39
}

func (d *Decoder) readValue(depth int) (Value, error) {
	if depth >= d.maxDepth {
		return nil, newDecodeError(NestingTooDeep, d.pos, "nesting deeper than %d levels", d.maxDepth)
	}
	c, err := d.peek()
	if err != nil {
		return nil, err
	}
	switch {
	case c == integerStart:
		return d.readInteger()
	case isDigit(c):
		s, err := d.readString()
		if err != nil {
			return nil, err
		}
		return s, nil
	case c == listStart:
		return d.readList(depth)
	case c == dictStart:
		return d.readDictionary(depth)
	default:
		return nil, newDecodeError(UnexpectedByte, d.pos, "unexpected byte 0x%x", c)
	}
}

// readIntegerText consumes `i` <optional '-'> <digits> and validates the
// digit run, leaving the cursor on the terminating byte. It returns the
// signed textual form and its offset; the caller parses it at whatever width
// it needs.
func (d *Decoder) readIntegerText() (string, int, error) {
	d.pos++ // 'i'
	textStart := d.pos
	if !d.isAtEnd() && d.buf[d.pos] == 0x2d {
		d.pos++
	}
	numStart := d.pos
	for !d.isAtEnd() && isDigit(d.buf[d.pos]) {
		d.pos++
	}
	digits := d.buf[numStart:d.pos]
	if len(digits) == 0 {
		if d.isAtEnd() {
			return "", 0, newDecodeError(TruncatedInput, d.pos, "unexpected end of buffer in integer")
		}
		return "", 0, newDecodeError(InvalidInteger, d.pos, "expected digits, got 0x%x", d.buf[d.pos])
	}
	if len(digits) > 1 && digits[0] == 0x30 {
		return "", 0, newDecodeError(InvalidInteger, numStart, "integer has leading zeros")
	}
	if numStart > textStart && digits[0] == 0x30 {
		return "", 0, newDecodeError(InvalidInteger, textStart, "negative zero is not allowed")
	}
	return string(d.buf[textStart:d.pos]), textStart, nil
}

func (d *Decoder) readInteger() (Value, error) {
	text, textStart, err := d.readIntegerText()
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, newDecodeError(IntegerOverflow, textStart, "integer %s overflows int64", text)
		}
		return nil, newDecodeError(InvalidInteger, textStart, "invalid integer %q", text)
	}
	if err := d.expectByte(bencodeEnd); err != nil {
		return nil, err
	}
	return Integer(n), nil
}

func (d *Decoder) readString() (String, error) {
	lenStart := d.pos
	for !d.isAtEnd() && isDigit(d.buf[d.pos]) {
		d.pos++
	}
	digits := d.buf[lenStart:d.pos]
	if len(digits) > 1 && digits[0] == 0x30 {
		return nil, newDecodeError(InvalidLength, lenStart, "length has leading zeros")
	}
	if d.isAtEnd() {
		return nil, newDecodeError(TruncatedInput, lenStart, "unterminated length prefix")
	}
	if d.buf[d.pos] != bytesLengthSep {
		return nil, newDecodeError(InvalidLength, d.pos, "expected 0x%x after length, got 0x%x", bytesLengthSep, d.buf[d.pos])
	}
	d.pos++
	length, err := strconv.Atoi(string(digits))
	if err != nil {
		return nil, newDecodeError(InvalidLength, lenStart, "length %s is too large", digits)
	}
	if length > len(d.buf)-d.pos {
		return nil, newDecodeError(TruncatedInput, lenStart, "declared length %d exceeds remaining %d bytes", length, len(d.buf)-d.pos)
	}
	b := d.buf[d.pos : d.pos+length]
	d.pos += length
	return String(b), nil
}

func (d *Decoder) readList(depth int) (Value, error) {
	start := d.pos
	d.pos++ // 'l'
	items := List{}
	for {
		if d.isAtEnd() {
			return nil, newDecodeError(TruncatedInput, start, "unterminated list")
		}
		if d.buf[d.pos] == bencodeEnd {
			d.pos++
			return items, nil
		}
		v, err := d.readValue(depth + 1)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func (d *Decoder) readDictionary(depth int) (Value, error) {
	start := d.pos
	d.pos++ // 'd'
	dict := Dictionary{}
	var lastKey string
	hasLast := false
	for {
		if d.isAtEnd() {
			return nil, newDecodeError(TruncatedInput, start, "unterminated dictionary")
		}
		if d.buf[d.pos] == bencodeEnd {
			d.pos++
			return dict, nil
		}
		keyStart := d.pos
		if !isDigit(d.buf[d.pos]) {
			return nil, newDecodeError(UnexpectedByte, keyStart, "dictionary key must be a byte string, got 0x%x", d.buf[d.pos])
		}
		key, err := d.readString()
		if err != nil {
			return nil, err
		}
		k := string(key)
		if d.strictOrder && hasLast && k < lastKey {
			return nil, newDecodeError(UnsortedKey, keyStart, "key %q out of order after %q", k, lastKey)
		}
		if _, ok := dict[k]; ok && d.strictKeys {
			return nil, newDecodeError(DuplicateKey, keyStart, "duplicate key %q", k)
		}
		v, err := d.readValue(depth + 1)
		if err != nil {
			return nil, err
		}
		dict[k] = v
		lastKey = k
		hasLast = true
	}
}
