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
	"io"
)

// Encode returns the wire form of the struct.
func Encode(s *Struct) []byte {
	// stream size is known ahead of time so the buffer can be allocated in
	// one go
	b := make([]byte, 0, streamSize(s))
	return appendStream(b, s)
}

// Write the wire form of the struct to the io.Writer.
func Write(w io.Writer, s *Struct) error {
	_, err := w.Write(Encode(s))
	return err
}

func streamSize(s *Struct) int {
	// the leading total-size field
	sz := 4

	for i := range s.Fields {
		// tag byte plus length-prefixed key
		sz += 1 + 4 + len(s.Fields[i].Key)

		switch v := s.Fields[i].Value.(type) {
		case Int:
			sz += 4
		case String:
			sz += 4 + len(v)
		case Blob:
			sz += 4 + len(v)
		case Bool:
			sz++
		case *Struct:
			sz += streamSize(v)
		}
	}

	return sz
}

func appendStream(b []byte, s *Struct) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(streamSize(s)))

	for i := range s.Fields {
		f := &s.Fields[i]

		b = append(b, byte(f.Value.tag()))
		b = binary.LittleEndian.AppendUint32(b, uint32(len(f.Key)))
		b = append(b, f.Key...)

		switch v := f.Value.(type) {
		case Int:
			b = binary.LittleEndian.AppendUint32(b, uint32(v))
		case String:
			b = binary.LittleEndian.AppendUint32(b, uint32(len(v)))
			b = append(b, v...)
		case Blob:
			b = binary.LittleEndian.AppendUint32(b, uint32(len(v)))
			b = append(b, v...)
		case Bool:
			if v {
				b = append(b, 0x01)
			} else {
				b = append(b, 0x00)
			}
		case *Struct:
			b = appendStream(b, v)
		}
	}

	return b
}
