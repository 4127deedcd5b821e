package bencode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimpleMarshal(t *testing.T) {
	require := require.New(t)

	obj := struct {
		Mary   []byte `bencode:"m"`
		Joseph []byte `bencode:"j"`
		Peter  int64  `bencode:"p"`
		Paul   string `bencode:"pp"`
	}{
		Peter:  1234,
		Paul:   "abcdefghij",
		Joseph: []byte("0123456789"),
		Mary:   []byte("0123"),
	}
	buf, err := Marshal(&obj)
	require.Nil(err)
	require.Equal([]byte("d1:j10:01234567891:m4:01231:pi1234e2:pp10:abcdefghije"), buf)
}

func TestMarshalStructField(t *testing.T) {
	require := require.New(t)

	type inner struct {
		One string `bencode:"a"`
		Two string `bencode:"b"`
	}

	obj := struct {
		Three inner `bencode:"t"`
	}{
		Three: inner{One: "abcde", Two: "abcabc"},
	}
	buf, err := Marshal(&obj)
	require.Nil(err)
	require.Equal([]byte("d1:td1:a5:abcde1:b6:abcabcee"), buf)
}

func TestMarshalMapOfStruct(t *testing.T) {
	require := require.New(t)
	type inner struct {
		One string `bencode:"a"`
		Two string `bencode:"b"`
	}

	obj := struct {
		Mary map[[8]byte]inner `bencode:"m"`
	}{
		Mary: map[[8]byte]inner{
			{0xad, 0x62, 0x63, 0x63, 0x65, 0x66, 0x67, 0x68}: {
				One: "efghi",
				Two: "cbacba",
			},
			{0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38}: {
				One: "abcde",
				Two: "abcabc",
			},
			{0x31, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68}: {
				One: "efghi",
				Two: "cbacba",
			},
		},
	}
	buf, err := Marshal(&obj)
	require.Nil(err)
	require.Equal([]byte{
		0x64, 0x31, 0x3a, 0x6d, 0x64, 0x38, 0x3a, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38, 0x64,
		0x31, 0x3a, 0x61, 0x35, 0x3a, 0x61, 0x62, 0x63, 0x64, 0x65, 0x31, 0x3a, 0x62, 0x36, 0x3a, 0x61,
		0x62, 0x63, 0x61, 0x62, 0x63, 0x65, 0x38, 0x3a, 0x31, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68,
		0x64, 0x31, 0x3a, 0x61, 0x35, 0x3a, 0x65, 0x66, 0x67, 0x68, 0x69, 0x31, 0x3a, 0x62, 0x36, 0x3a,
		0x63, 0x62, 0x61, 0x63, 0x62, 0x61, 0x65, 0x38, 0x3a, 0xad, 0x62, 0x63, 0x63, 0x65, 0x66, 0x67,
		0x68, 0x64, 0x31, 0x3a, 0x61, 0x35, 0x3a, 0x65, 0x66, 0x67, 0x68, 0x69, 0x31, 0x3a, 0x62, 0x36,
		0x3a, 0x63, 0x62, 0x61, 0x63, 0x62, 0x61, 0x65, 0x65, 0x65,
	}, buf)
}

func TestMarshalSliceOfStruct(t *testing.T) {
	require := require.New(t)
	type inner struct {
		One string `bencode:"a"`
		Two string `bencode:"b"`
	}
	obj := struct {
		Mary []inner `bencode:"m"`
	}{
		Mary: []inner{
			{
				One: "abcde",
				Two: "abcabc",
			},
			{
				One: "efghi",
				Two: "cbacba",
			},
		},
	}
	buf, err := Marshal(&obj)
	require.Nil(err)
	require.Equal([]byte("d1:mld1:a5:abcde1:b6:abcabced1:a5:efghi1:b6:cbacbaeee"), buf)
}

func TestMarshalValueTree(t *testing.T) {
	require := require.New(t)

	var v Value = Dictionary{
		"spam": String("eggs"),
		"cow":  String("moo"),
	}
	buf, err := Marshal(&v)
	require.Nil(err)
	require.Equal([]byte("d3:cow3:moo4:spam4:eggse"), buf)
}

func TestUnmarshalStruct(t *testing.T) {
	require := require.New(t)

	obj := struct {
		Mary   []byte `bencode:"m"`
		Joseph []byte `bencode:"j"`
		Peter  int64  `bencode:"p"`
		Paul   string `bencode:"pp"`
	}{}
	buf := []byte("d1:j10:01234567891:m4:01231:pi1234e2:pp10:abcdefghije")
	err := Unmarshal(buf, &obj)
	require.Nil(err)
	require.Equal(obj.Peter, int64(1234))
	require.Equal(obj.Joseph, []byte("0123456789"))
	require.Equal(obj.Mary, []byte("0123"))
	require.Equal(obj.Paul, "abcdefghij")
}

func TestUnmarshalMap(t *testing.T) {
	require := require.New(t)

	obj := make(map[string]string)
	buf := []byte("d10:abcdefghij10:abcdefghije")
	err := Unmarshal(buf, &obj)
	require.Nil(err)
	require.Equal(obj["abcdefghij"], "abcdefghij")
}

func TestUnmarshalOutOfOrderDictionary(t *testing.T) {
	require := require.New(t)

	obj := struct {
		Mary   []byte `bencode:"m"`
		Joseph []byte `bencode:"j"`
		Peter  string `bencode:"p"`
		Paul   string `bencode:"pp"`
	}{}
	buf := []byte("d1:m4:01231:j10:01234567891:p4:12342:pp10:abcdefghije")
	err := Unmarshal(buf, &obj)
	require.NotNil(err)
}

func TestUnmarshalMissingKey(t *testing.T) {
	require := require.New(t)

	obj := struct {
		Mary   []byte `bencode:"m"`
		Joseph []byte `bencode:"j"`
		Peter  string `bencode:"p"`
		Paul   string `bencode:"pp"`
	}{}
	buf := []byte("d1:j10:01234567891:p4:12342:pp10:abcdefghije")
	err := Unmarshal(buf, &obj)
	require.NotNil(err)
}

func TestUnmarshalMapOfStruct(t *testing.T) {
	require := require.New(t)
	type inner struct {
		One string `bencode:"a"`
		Two string `bencode:"b"`
	}

	obj := struct {
		Mary map[[8]byte]inner `bencode:"m"`
	}{}
	buf := []byte(strings.Replace("d 1:m d 8:12345678 d 1:a 5:abcde 1:b 6:abcabc e 8:abcdefgh d 1:a 5:efghi 1:b 6:cbacba e e e", " ", "", -1))
	err := Unmarshal(buf, &obj)
	require.Nil(err)
	k := [8]byte{0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38}
	require.Equal("abcde", obj.Mary[k].One)
}

func TestUnmarshalSliceOfStruct(t *testing.T) {
	require := require.New(t)
	type inner struct {
		One string `bencode:"a"`
		Two string `bencode:"b"`
	}
	obj := struct {
		Mary []inner `bencode:"m"`
	}{}
	buf := []byte(strings.Replace("d 1:m l d 1:a 5:abcde 1:b 6:abcabc e d 1:a 5:efghi 1:b 6:cbacba e e e", " ", "", -1))
	err := Unmarshal(buf, &obj)
	require.Nil(err)
	require.Equal("abcde", obj.Mary[0].One)
}

func TestUnmarshalNumberOverflow(t *testing.T) {
	require := require.New(t)
	obj := struct {
		Mary int64 `bencode:"m"`
	}{}
	buf := []byte("d1:mi9223372036854775808ee")
	err := Unmarshal(buf, &obj)
	require.NotNil(err)
}

func TestUnmarshalBoundedWidths(t *testing.T) {
	require := require.New(t)

	obj := struct {
		Small uint8 `bencode:"s"`
	}{}
	err := Unmarshal([]byte("d1:si300ee"), &obj)
	require.NotNil(err)

	err = Unmarshal([]byte("d1:si255ee"), &obj)
	require.Nil(err)
	require.Equal(uint8(255), obj.Small)
}

func TestUnmarshalValueTree(t *testing.T) {
	require := require.New(t)

	var v Value
	err := Unmarshal([]byte("d3:cow3:moo4:spaml4:eggsee"), &v)
	require.Nil(err)
	require.True(Equal(Dictionary{
		"cow":  String("moo"),
		"spam": List{String("eggs")},
	}, v))
}

func TestUnmarshalTrailingBytes(t *testing.T) {
	require := require.New(t)

	obj := int64(0)
	err := Unmarshal([]byte("i5ejunk"), &obj)
	require.NotNil(err)
}
