// This package implements the bencode encoding used by BitTorrent metadata
// files. Values decode into a small tagged union (Integer, String, List,
// Dictionary) and encode back to canonical form, with dictionary keys always
// emitted in byte-wise sorted order regardless of input order.
//
// A reflection-based Marshal/Unmarshal layer is also provided; it expects
// struct fields to be annotated with `bencode:".."` tags and supports
// fixed-byte array map keys.
package bencode

const (
	integerStart   = 0x69 // 'i'
	dictStart      = 0x64 // 'd'
	listStart      = 0x6c // 'l'
	bencodeEnd     = 0x65 // 'e'
	bytesLengthSep = 0x3a // ':'
)
