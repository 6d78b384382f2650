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

package memory

import (
	"encoding/binary"
	"math/bits"

	"github.com/jetsetilly/gophergba/environment"
	"github.com/jetsetilly/gophergba/hardware/memory/icache"
	"github.com/jetsetilly/gophergba/hardware/memory/memorymap"
	"github.com/jetsetilly/gophergba/logger"
)

// BIOS is the read-only view over the system ROM. Unlike the other regions a
// read past the end of the buffer does not wrap: it returns -1 (all bits
// set), sign-extended or truncated as the access width requires.
type BIOS struct {
	env *environment.Environment

	data   []byte
	icache *icache.Cache
}

// NewBIOS is the preferred method of initialisation for the BIOS type. The
// supplied buffer is copied.
func NewBIOS(env *environment.Environment, data []byte) *BIOS {
	b := &BIOS{
		env:    env,
		data:   make([]byte, len(data)),
		icache: icache.NewCache(memorymap.SizeBIOS, memorymap.PageBitsBIOS),
	}
	copy(b.data, data)
	return b
}

// Load8 implements the bus.Region interface.
func (b *BIOS) Load8(offset uint32) int8 {
	if offset >= uint32(len(b.data)) {
		return -1
	}
	return int8(b.data[offset])
}

// Load16 implements the bus.Region interface.
func (b *BIOS) Load16(offset uint32) int16 {
	if offset+1 >= uint32(len(b.data)) {
		return -1
	}
	return int16(binary.LittleEndian.Uint16(b.data[offset:]))
}

// Load32 implements the bus.Region interface.
func (b *BIOS) Load32(offset uint32) uint32 {
	a := offset & ^uint32(0x3)
	if a+3 >= uint32(len(b.data)) {
		return 0xffffffff
	}
	v := binary.LittleEndian.Uint32(b.data[a:])
	return bits.RotateLeft32(v, -int(offset&0x3)*8)
}

// LoadU8 implements the bus.Region interface.
func (b *BIOS) LoadU8(offset uint32) uint8 {
	if offset >= uint32(len(b.data)) {
		return 0xff
	}
	return b.data[offset]
}

// LoadU16 implements the bus.Region interface.
func (b *BIOS) LoadU16(offset uint32) uint16 {
	if offset+1 >= uint32(len(b.data)) {
		return 0xffff
	}
	return binary.LittleEndian.Uint16(b.data[offset:])
}

// Store8 implements the bus.Region interface. The BIOS is read-only.
func (b *BIOS) Store8(offset uint32, value uint8) {
	logger.Logf(b.env, "bios", "write of %#02x to read-only address %#04x ignored", value, offset)
}

// Store16 implements the bus.Region interface. The BIOS is read-only.
func (b *BIOS) Store16(offset uint32, value uint16) {
	logger.Logf(b.env, "bios", "write of %#04x to read-only address %#04x ignored", value, offset)
}

// Store32 implements the bus.Region interface. The BIOS is read-only.
func (b *BIOS) Store32(offset uint32, value uint32) {
	logger.Logf(b.env, "bios", "write of %#08x to read-only address %#04x ignored", value, offset)
}

// InvalidatePage implements the bus.Region interface. Nothing can write to
// the BIOS so there is never anything to invalidate.
func (b *BIOS) InvalidatePage(offset uint32) {
}

// ReplaceData implements the bus.Region interface. The BIOS is read-only.
func (b *BIOS) ReplaceData(data []byte) {
}

// PageBits implements the bus.Cacheable interface.
func (b *BIOS) PageBits() uint32 {
	return b.icache.PageBits()
}

// AccessPage implements the bus.Cacheable interface.
func (b *BIOS) AccessPage(pageID uint32) *icache.Page {
	return b.icache.Access(pageID)
}
