// This file is part of GopherGBA.
//
// GopherGBA is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherGBA is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherGBA.  If not, see <https://www.gnu.org/licenses/>.

package snapshot

import (
	"encoding/binary"

	"github.com/jetsetilly/gophergba/curated"
)

// Sentinel error patterns for the snapshot package.
const (
	// InvalidStream is returned when a stream cannot be decoded. The restore
	// must be aborted and any pre-restore state kept intact.
	InvalidStream = "snapshot: invalid stream: %v"
)

// Decode rebuilds the tree from the wire form. Decoding fails if the stream
// (or any nested stream) claims a size larger than the bytes available or if
// a record carries an unknown tag.
func Decode(b []byte) (*Struct, error) {
	s, n, err := decodeStream(b)
	if err != nil {
		return nil, err
	}
	if n != len(b) {
		return nil, curated.Errorf(InvalidStream, "trailing bytes after stream")
	}
	return s, nil
}

func decodeStream(b []byte) (*Struct, int, error) {
	if len(b) < 4 {
		return nil, 0, curated.Errorf(InvalidStream, "stream too short for size field")
	}

	sz := int(binary.LittleEndian.Uint32(b))
	if sz < 4 {
		return nil, 0, curated.Errorf(InvalidStream, "declared size too small")
	}
	if sz > len(b) {
		return nil, 0, curated.Errorf(InvalidStream, "declared size exceeds available bytes")
	}

	s := NewStruct()

	// the stream body, not including the size field
	p := 4

	for p < sz {
		tag := Tag(b[p])
		p++

		key, n, err := decodeBytes(b[p:sz])
		if err != nil {
			return nil, 0, err
		}
		p += n

		switch tag {
		case TagInt:
			if sz-p < 4 {
				return nil, 0, curated.Errorf(InvalidStream, "truncated int value")
			}
			s.AddInt(string(key), int32(binary.LittleEndian.Uint32(b[p:])))
			p += 4

		case TagString:
			v, n, err := decodeBytes(b[p:sz])
			if err != nil {
				return nil, 0, err
			}
			s.AddString(string(key), string(v))
			p += n

		case TagBlob:
			v, n, err := decodeBytes(b[p:sz])
			if err != nil {
				return nil, 0, err
			}
			s.AddBlob(string(key), v)
			p += n

		case TagBool:
			if sz-p < 1 {
				return nil, 0, curated.Errorf(InvalidStream, "truncated bool value")
			}
			s.AddBool(string(key), b[p] != 0x00)
			p++

		case TagStruct:
			v, n, err := decodeStream(b[p:sz])
			if err != nil {
				return nil, 0, err
			}
			s.AddStruct(string(key), v)
			p += n

		default:
			return nil, 0, curated.Errorf(InvalidStream, "unknown tag")
		}
	}

	return s, sz, nil
}

// decodeBytes reads a length-prefixed byte sequence, returning the bytes and
// the number of bytes consumed (including the length prefix).
func decodeBytes(b []byte) ([]byte, int, error) {
	if len(b) < 4 {
		return nil, 0, curated.Errorf(InvalidStream, "truncated length prefix")
	}
	l := int(binary.LittleEndian.Uint32(b))
	if l < 0 || l > len(b)-4 {
		return nil, 0, curated.Errorf(InvalidStream, "declared length exceeds available bytes")
	}
	return b[4 : 4+l], 4 + l, nil
}
