package bencode

import (
	"fmt"
	"unicode/utf8"
)

// Value is a bencode value: one of Integer, String, List or Dictionary.
type Value interface {
	isValue()
}

// Integer is the bencode integer type.
type Integer int64

// String is the bencode byte string type. It holds raw bytes and is not
// required to be valid UTF-8.
type String []byte

// List is an ordered sequence of values. Order is preserved exactly through
// decode and encode.
type List []Value

// Dictionary maps raw key bytes to values. Go map semantics make keys unique
// and unordered; the encoder sorts them on output.
type Dictionary map[string]Value

func (Integer) isValue()    {}
func (String) isValue()     {}
func (List) isValue()       {}
func (Dictionary) isValue() {}

func (s String) String() string {
	if utf8.Valid(s) {
		return string(s)
	}
	return fmt.Sprintf("%x", []byte(s))
}

// Equal reports whether two values are structurally equal: same variant and
// recursively equal payloads. Dictionaries compare as sets of key/value
// pairs, independent of any order.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Integer:
		bv, ok := b.(Integer)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && string(av) == string(bv)
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Dictionary:
		bv, ok := b.(Dictionary)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
