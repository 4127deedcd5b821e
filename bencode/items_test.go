package bencode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqualScalars(t *testing.T) {
	require := require.New(t)

	require.True(Equal(Integer(7), Integer(7)))
	require.False(Equal(Integer(7), Integer(8)))
	require.True(Equal(String("abc"), String([]byte{0x61, 0x62, 0x63})))
	require.False(Equal(String("abc"), String("abd")))

	// Different variants are never equal, even when payloads look alike.
	require.False(Equal(Integer(0), String("0")))
	require.False(Equal(String(""), List{}))
}

func TestEqualLists(t *testing.T) {
	require := require.New(t)

	require.True(Equal(List{}, List{}))
	require.True(Equal(List{Integer(1), String("a")}, List{Integer(1), String("a")}))
	require.False(Equal(List{Integer(1), String("a")}, List{String("a"), Integer(1)}))
	require.False(Equal(List{Integer(1)}, List{Integer(1), Integer(1)}))
}

func TestEqualDictionaries(t *testing.T) {
	require := require.New(t)

	a := Dictionary{"x": Integer(1), "y": List{String("z")}}
	b := Dictionary{}
	b["y"] = List{String("z")}
	b["x"] = Integer(1)
	require.True(Equal(a, b))

	require.False(Equal(a, Dictionary{"x": Integer(1)}))
	require.False(Equal(a, Dictionary{"x": Integer(1), "y": List{String("w")}}))
	require.False(Equal(a, Dictionary{"x": Integer(1), "z": List{String("z")}}))
}

func TestStringStringer(t *testing.T) {
	require := require.New(t)

	require.Equal("spam", String("spam").String())
	// Non-UTF-8 bytes render as hex instead of mojibake.
	require.Equal("fffe", String{0xff, 0xfe}.String())
}
