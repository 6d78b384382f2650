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

// Package snapshot implements the self-describing binary format used to
// freeze machine state. A stream is a sequence of tagged records, each
// record carrying a key and a value. Values are 32bit integers, strings,
// byte blobs, booleans or nested streams, meaning that a snapshot is a tree
// of tagged nodes.
//
// The wire format is little-endian throughout. A stream opens with a 32bit
// total size that includes the size field itself. Each record is a single
// tag byte, a length-prefixed key and a tag-specific body.
//
// Encoding is total for any tree built with the Struct type. Decoding fails
// if a nested stream claims more bytes than its parent has available.
package snapshot

// Tag identifies the type of a record in a snapshot stream.
type Tag byte

// The valid record tags.
const (
	TagInt    Tag = 0x01
	TagString Tag = 0x02
	TagStruct Tag = 0x03
	TagBlob   Tag = 0x04
	TagBool   Tag = 0x05
)

func (t Tag) String() string {
	switch t {
	case TagInt:
		return "int"
	case TagString:
		return "string"
	case TagStruct:
		return "struct"
	case TagBlob:
		return "blob"
	case TagBool:
		return "bool"
	}
	return "undefined"
}

// Value is one of Int, String, Blob, Bool or *Struct.
type Value interface {
	tag() Tag
}

// Int is a 32bit integer value.
type Int int32

// String is a text value.
type String string

// Blob is a raw byte value.
type Blob []byte

// Bool is a boolean value.
type Bool bool

func (_ Int) tag() Tag     { return TagInt }
func (_ String) tag() Tag  { return TagString }
func (_ Blob) tag() Tag    { return TagBlob }
func (_ Bool) tag() Tag    { return TagBool }
func (_ *Struct) tag() Tag { return TagStruct }

// Field is a single keyed record in a Struct.
type Field struct {
	Key   string
	Value Value
}

// Struct is an ordered collection of keyed values. Key order is preserved by
// the encoder so that encode/decode is an identity on the tree.
type Struct struct {
	Fields []Field
}

// NewStruct is the preferred method of initialisation for the Struct type.
func NewStruct() *Struct {
	return &Struct{}
}

// Add appends a keyed value to the struct.
func (s *Struct) Add(key string, v Value) {
	s.Fields = append(s.Fields, Field{Key: key, Value: v})
}

// AddInt appends an integer value.
func (s *Struct) AddInt(key string, v int32) {
	s.Add(key, Int(v))
}

// AddString appends a string value.
func (s *Struct) AddString(key string, v string) {
	s.Add(key, String(v))
}

// AddBlob appends a copy of the byte slice.
func (s *Struct) AddBlob(key string, v []byte) {
	b := make(Blob, len(v))
	copy(b, v)
	s.Add(key, b)
}

// AddBool appends a boolean value.
func (s *Struct) AddBool(key string, v bool) {
	s.Add(key, Bool(v))
}

// AddStruct appends a nested struct.
func (s *Struct) AddStruct(key string, v *Struct) {
	s.Add(key, v)
}

// Lookup returns the value for a key. The second return value is false if
// the key is not present. If the same key appears more than once the first
// instance wins.
func (s *Struct) Lookup(key string) (Value, bool) {
	for i := range s.Fields {
		if s.Fields[i].Key == key {
			return s.Fields[i].Value, true
		}
	}
	return nil, false
}

// Int returns the integer value for a key, or false if the key is absent or
// of the wrong type.
func (s *Struct) Int(key string) (int32, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return 0, false
	}
	i, ok := v.(Int)
	return int32(i), ok
}

// String returns the string value for a key, or false if the key is absent
// or of the wrong type.
func (s *Struct) String(key string) (string, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return "", false
	}
	t, ok := v.(String)
	return string(t), ok
}

// Blob returns the blob value for a key, or false if the key is absent or of
// the wrong type.
func (s *Struct) Blob(key string) ([]byte, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return nil, false
	}
	b, ok := v.(Blob)
	return []byte(b), ok
}

// Bool returns the boolean value for a key, or false if the key is absent or
// of the wrong type.
func (s *Struct) Bool(key string) (bool, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return false, false
	}
	b, ok := v.(Bool)
	return bool(b), ok
}

// Struct returns the nested struct for a key, or false if the key is absent
// or of the wrong type.
func (s *Struct) Struct(key string) (*Struct, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return nil, false
	}
	n, ok := v.(*Struct)
	return n, ok
}
