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
)

// MemoryBlock is a read/write region backed by a plain byte buffer. The two
// on-chip RAM blocks are MemoryBlocks.
//
// The byte length of a MemoryBlock is always a power of two and accesses
// wrap at the region boundary by way of the address mask.
type MemoryBlock struct {
	env *environment.Environment

	data []byte

	mask   uint32
	mask16 uint32
	mask32 uint32

	// nil for blocks that never hold instructions
	icache *icache.Cache
}

// NewMemoryBlock is the preferred method of initialisation for the
// MemoryBlock type. Size must be a power of two. A pageBits value of zero
// creates a block with no instruction cache.
func NewMemoryBlock(env *environment.Environment, size uint32, pageBits uint32) *MemoryBlock {
	blk := &MemoryBlock{
		env:    env,
		data:   make([]byte, size),
		mask:   size - 1,
		mask16: (size - 1) & ^uint32(0x1),
		mask32: (size - 1) & ^uint32(0x3),
	}

	if pageBits > 0 {
		blk.icache = icache.NewCache(size, pageBits)
	}

	return blk
}

// View returns the underlying byte buffer. The buffer is owned by the block;
// callers must not hold the reference across a ReplaceData().
func (blk *MemoryBlock) View() []byte {
	return blk.data
}

// Load8 implements the bus.Region interface.
func (blk *MemoryBlock) Load8(offset uint32) int8 {
	return int8(blk.data[offset&blk.mask])
}

// Load16 implements the bus.Region interface. Unaligned offsets are read
// verbatim, the CPU having already decided how to interpret the result.
func (blk *MemoryBlock) Load16(offset uint32) int16 {
	return int16(blk.LoadU16(offset))
}

// Load32 implements the bus.Region interface. The aligned word is rotated
// right by (offset&3)*8 bits.
func (blk *MemoryBlock) Load32(offset uint32) uint32 {
	v := binary.LittleEndian.Uint32(blk.data[offset&blk.mask32:])
	return bits.RotateLeft32(v, -int(offset&0x3)*8)
}

// LoadU8 implements the bus.Region interface.
func (blk *MemoryBlock) LoadU8(offset uint32) uint8 {
	return blk.data[offset&blk.mask]
}

// LoadU16 implements the bus.Region interface.
func (blk *MemoryBlock) LoadU16(offset uint32) uint16 {
	offset &= blk.mask
	return uint16(blk.data[offset]) | uint16(blk.data[(offset+1)&blk.mask])<<8
}

// Store8 implements the bus.Region interface.
func (blk *MemoryBlock) Store8(offset uint32, value uint8) {
	blk.data[offset&blk.mask] = value
}

// Store16 implements the bus.Region interface.
func (blk *MemoryBlock) Store16(offset uint32, value uint16) {
	binary.LittleEndian.PutUint16(blk.data[offset&blk.mask16:], value)
}

// Store32 implements the bus.Region interface.
func (blk *MemoryBlock) Store32(offset uint32, value uint32) {
	binary.LittleEndian.PutUint32(blk.data[offset&blk.mask32:], value)
}

// InvalidatePage implements the bus.Region interface.
func (blk *MemoryBlock) InvalidatePage(offset uint32) {
	if blk.icache != nil {
		blk.icache.Invalidate(offset & blk.mask)
	}
}

// ReplaceData implements the bus.Region interface.
func (blk *MemoryBlock) ReplaceData(data []byte) {
	copy(blk.data, data)
	for i := len(data); i < len(blk.data); i++ {
		blk.data[i] = 0x00
	}
	if blk.icache != nil {
		blk.icache.Flush()
	}
}

// PageBits implements the bus.Cacheable interface. Zero for a block created
// without an instruction cache.
func (blk *MemoryBlock) PageBits() uint32 {
	if blk.icache == nil {
		return 0
	}
	return blk.icache.PageBits()
}

// AccessPage implements the bus.Cacheable interface. Nil for a block created
// without an instruction cache.
func (blk *MemoryBlock) AccessPage(pageID uint32) *icache.Page {
	if blk.icache == nil {
		return nil
	}
	return blk.icache.Access(pageID)
}

// Cached returns true if the block carries an instruction cache.
func (blk *MemoryBlock) Cached() bool {
	return blk.icache != nil
}
