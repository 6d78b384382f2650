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

package snapshot_test

import (
	"encoding/binary"
	"testing"

	"github.com/jetsetilly/gophergba/curated"
	"github.com/jetsetilly/gophergba/snapshot"
	"github.com/jetsetilly/gophergba/test"
)

func TestRoundTrip(t *testing.T) {
	s := snapshot.NewStruct()
	s.AddInt("cycles", -12345)
	s.AddString("title", "HELLOWORLD")
	s.AddBlob("ram", []byte{0x01, 0x02, 0x03, 0xff})
	s.AddBool("halted", true)

	nested := snapshot.NewStruct()
	nested.AddInt("source", 0x02000000)
	nested.AddBool("enable", false)
	s.AddStruct("dma0", nested)

	d, err := snapshot.Decode(snapshot.Encode(s))
	test.ExpectedSuccess(t, err)

	i, ok := d.Int("cycles")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, i, -12345)

	str, ok := d.String("title")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, str, "HELLOWORLD")

	b, ok := d.Blob("ram")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, len(b), 4)
	test.Equate(t, b[3], 0xff)

	halted, ok := d.Bool("halted")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, halted, true)

	n, ok := d.Struct("dma0")
	test.ExpectedSuccess(t, ok)
	src, ok := n.Int("source")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, src, 0x02000000)
	enable, ok := n.Bool("enable")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, enable, false)
}

func TestEmptyStruct(t *testing.T) {
	s := snapshot.NewStruct()
	e := snapshot.Encode(s)
	test.Equate(t, len(e), 4)

	d, err := snapshot.Decode(e)
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(d.Fields), 0)
}

func TestFieldOrder(t *testing.T) {
	s := snapshot.NewStruct()
	s.AddInt("z", 1)
	s.AddInt("a", 2)

	d, err := snapshot.Decode(snapshot.Encode(s))
	test.ExpectedSuccess(t, err)
	test.Equate(t, d.Fields[0].Key, "z")
	test.Equate(t, d.Fields[1].Key, "a")
}

func TestOversizedStream(t *testing.T) {
	s := snapshot.NewStruct()
	s.AddBlob("ram", make([]byte, 16))
	e := snapshot.Encode(s)

	// a stream whose length field claims more bytes than the buffer holds must fail
	binary.LittleEndian.PutUint32(e, uint32(len(e)+1))

	_, err := snapshot.Decode(e)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Has(err, snapshot.InvalidStream))
}

func TestTruncatedStream(t *testing.T) {
	s := snapshot.NewStruct()
	s.AddString("title", "HELLOWORLD")
	e := snapshot.Encode(s)

	_, err := snapshot.Decode(e[:len(e)-4])
	test.ExpectedFailure(t, err)
}

func TestTrailingBytes(t *testing.T) {
	s := snapshot.NewStruct()
	s.AddBool("halted", false)
	e := snapshot.Encode(s)

	_, err := snapshot.Decode(append(e, 0x00))
	test.ExpectedFailure(t, err)
}

func TestUnknownTag(t *testing.T) {
	s := snapshot.NewStruct()
	s.AddBool("halted", false)
	e := snapshot.Encode(s)

	// corrupt the tag byte of the first record
	e[4] = 0x7f

	_, err := snapshot.Decode(e)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Has(err, snapshot.InvalidStream))
}
