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
	"github.com/jetsetilly/gophergba/hardware/memory/memorymap"
	"github.com/jetsetilly/gophergba/logger"
)

// DMAPort is the programming surface of the DMA engine, as seen from the
// I/O register file.
type DMAPort interface {
	SetSourceAddress(ch int, address uint32)
	SetDestAddress(ch int, address uint32)
	SetWordCount(ch int, count uint16)

	// WriteControl returns the value to present on subsequent reads of the
	// control register. An immediate-timing DMA is serviced before
	// WriteControl returns
	WriteControl(ch int, value uint16) uint16
}

// AudioWriter consumes writes to the two sound FIFOs.
type AudioWriter interface {
	WriteFIFO(fifo int, value uint32)
}

// RegisterFile is the region installed in the I/O slot. It holds the 1KiB
// register block and routes the registers owned by the core: the DMA
// channels, WAITCNT, the sound FIFOs and HALTCNT. IE, IF, IME and POSTFLG are
// stored and read back for the interrupt collaborator. Everything else is a
// stub that logs and, for reads, falls back to the open bus.
type RegisterFile struct {
	env *environment.Environment
	mmu *MMU

	registers [memorymap.SizeIO >> 1]uint16

	// collaborators. either may be nil in which case the associated
	// registers degrade to stubs
	DMA   DMAPort
	Audio AudioWriter

	// invoked on a write to HALTCNT that requests halt (as opposed to stop)
	Halt func()
}

// NewRegisterFile is the preferred method of initialisation for the
// RegisterFile type.
func NewRegisterFile(env *environment.Environment, mmu *MMU) *RegisterFile {
	return &RegisterFile{
		env: env,
		mmu: mmu,
	}
}

// isDMARegister returns the channel and register-within-channel for an
// offset inside the DMA block.
func isDMARegister(offset uint32) (int, uint32, bool) {
	if offset < memorymap.AddressDMA0SAD || offset > memorymap.AddressDMA3CNTHI {
		return 0, 0, false
	}
	o := offset - memorymap.AddressDMA0SAD
	return int(o / memorymap.DMARegisterStride), o % memorymap.DMARegisterStride, true
}

// readable returns true for registers with defined read behaviour. The DMA
// source, destination and count registers are write-only on the hardware.
func (rf *RegisterFile) readable(offset uint32) bool {
	if _, reg, ok := isDMARegister(offset); ok {
		return reg == 0x00a
	}

	switch offset {
	case memorymap.AddressWAITCNT, memorymap.AddressIE, memorymap.AddressIF,
		memorymap.AddressIME, memorymap.AddressPOSTFLG:
		return true
	}

	return false
}

// register returns the stored halfword for an offset.
func (rf *RegisterFile) register(offset uint32) uint16 {
	return rf.registers[(offset&uint32(memorymap.SizeIO-1))>>1]
}

func (rf *RegisterFile) setRegister(offset uint32, value uint16) {
	rf.registers[(offset&uint32(memorymap.SizeIO-1))>>1] = value
}

// Load8 implements the bus.Region interface.
func (rf *RegisterFile) Load8(offset uint32) int8 {
	return int8(rf.LoadU8(offset))
}

// Load16 implements the bus.Region interface.
func (rf *RegisterFile) Load16(offset uint32) int16 {
	return int16(rf.LoadU16(offset))
}

// Load32 implements the bus.Region interface.
func (rf *RegisterFile) Load32(offset uint32) uint32 {
	v := uint32(rf.LoadU16(offset&^uint32(0x3))) | uint32(rf.LoadU16((offset&^uint32(0x3))+2))<<16
	return bits.RotateLeft32(v, -int(offset&0x3)*8)
}

// LoadU8 implements the bus.Region interface.
func (rf *RegisterFile) LoadU8(offset uint32) uint8 {
	v := rf.LoadU16(offset &^ uint32(0x1))
	if offset&0x1 == 0x1 {
		return uint8(v >> 8)
	}
	return uint8(v)
}

// LoadU16 implements the bus.Region interface.
func (rf *RegisterFile) LoadU16(offset uint32) uint16 {
	offset &= uint32(memorymap.SizeIO-1) & ^uint32(0x1)

	if !rf.readable(offset) {
		logger.Logf(rf.env, "mmio", "STUB read of register %#03x", offset)
		return rf.mmu.openBus.LoadU16(offset)
	}

	return rf.register(offset)
}

// Store8 implements the bus.Region interface. The hardware performs 8bit
// register writes as read-modify-write of the containing halfword.
func (rf *RegisterFile) Store8(offset uint32, value uint8) {
	offset &= uint32(memorymap.SizeIO - 1)

	if offset == memorymap.AddressHALTCNT {
		if value&0x80 == 0x80 {
			logger.Log(rf.env, "mmio", "STUB stop requested through HALTCNT")
		} else if rf.Halt != nil {
			rf.Halt()
		}
		return
	}

	v := rf.register(offset &^ uint32(0x1))
	if offset&0x1 == 0x1 {
		v = v&0x00ff | uint16(value)<<8
	} else {
		v = v&0xff00 | uint16(value)
	}
	rf.Store16(offset&^uint32(0x1), v)
}

// Store16 implements the bus.Region interface.
func (rf *RegisterFile) Store16(offset uint32, value uint16) {
	offset &= uint32(memorymap.SizeIO-1) & ^uint32(0x1)

	if ch, reg, ok := isDMARegister(offset); ok {
		rf.storeDMA(ch, reg, offset, value)
		return
	}

	switch offset {
	case memorymap.AddressWAITCNT:
		rf.mmu.Wait.AdjustTimings(value)
		rf.setRegister(offset, value)

	case memorymap.AddressSOUNDFIFOA, memorymap.AddressSOUNDFIFOA + 2:
		rf.writeFIFO(0, uint32(value))

	case memorymap.AddressSOUNDFIFOB, memorymap.AddressSOUNDFIFOB + 2:
		rf.writeFIFO(1, uint32(value))

	case memorymap.AddressIE, memorymap.AddressIF, memorymap.AddressIME, memorymap.AddressPOSTFLG:
		// owned by the interrupt collaborator. the value is stored so that
		// the collaborator and the freeze path can see it
		rf.setRegister(offset, value)

	default:
		logger.Logf(rf.env, "mmio", "STUB write of %#04x to register %#03x discarded", value, offset)
	}
}

// Store32 implements the bus.Region interface.
func (rf *RegisterFile) Store32(offset uint32, value uint32) {
	offset &= uint32(memorymap.SizeIO-1) & ^uint32(0x3)

	if ch, reg, ok := isDMARegister(offset); ok && reg < 0x008 {
		// the DMA source and destination registers are natural 32bit
		// registers
		rf.setRegister(offset, uint16(value))
		rf.setRegister(offset+2, uint16(value>>16))
		if rf.DMA != nil {
			if reg == 0x000 {
				rf.DMA.SetSourceAddress(ch, value)
			} else {
				rf.DMA.SetDestAddress(ch, value)
			}
		}
		return
	}

	switch offset {
	case memorymap.AddressSOUNDFIFOA:
		rf.writeFIFO(0, value)
	case memorymap.AddressSOUNDFIFOB:
		rf.writeFIFO(1, value)
	default:
		rf.Store16(offset, uint16(value))
		rf.Store16(offset+2, uint16(value>>16))
	}
}

func (rf *RegisterFile) storeDMA(ch int, reg uint32, offset uint32, value uint16) {
	rf.setRegister(offset, value)

	if rf.DMA == nil {
		logger.Logf(rf.env, "mmio", "dma register %#03x written with no dma engine attached", offset)
		return
	}

	base := memorymap.AddressDMA0SAD + uint32(ch)*memorymap.DMARegisterStride

	switch reg {
	case 0x000, 0x002:
		rf.DMA.SetSourceAddress(ch, uint32(rf.register(base))|uint32(rf.register(base+2))<<16)
	case 0x004, 0x006:
		rf.DMA.SetDestAddress(ch, uint32(rf.register(base+4))|uint32(rf.register(base+6))<<16)
	case 0x008:
		rf.DMA.SetWordCount(ch, value)
	case 0x00a:
		rf.setRegister(offset, rf.DMA.WriteControl(ch, value))
	}
}

func (rf *RegisterFile) writeFIFO(fifo int, value uint32) {
	if rf.Audio == nil {
		logger.Logf(rf.env, "mmio", "fifo %c write with no audio attached", 'A'+fifo)
		return
	}
	rf.Audio.WriteFIFO(fifo, value)
}

// ClearDMAEnable masks the enable bit out of a channel's memory-mapped
// control register. Called by the DMA engine when a non-repeating transfer
// completes.
func (rf *RegisterFile) ClearDMAEnable(ch int) {
	offset := memorymap.AddressDMA0CNTHI + uint32(ch)*memorymap.DMARegisterStride
	rf.setRegister(offset, rf.register(offset) & ^uint16(0x8000))
}

// InvalidatePage implements the bus.Region interface. The I/O block never
// holds instructions.
func (rf *RegisterFile) InvalidatePage(offset uint32) {
}

// Serialise returns the register block as bytes, for the freeze path.
func (rf *RegisterFile) Serialise() []byte {
	b := make([]byte, memorymap.SizeIO)
	for i, v := range rf.registers {
		binary.LittleEndian.PutUint16(b[i*2:], v)
	}
	return b
}

// ReplaceData implements the bus.Region interface. The register values are
// restored without side effects except for the wait-state table, which is
// recomputed from the restored WAITCNT.
func (rf *RegisterFile) ReplaceData(data []byte) {
	for i := range rf.registers {
		if i*2+1 < len(data) {
			rf.registers[i] = binary.LittleEndian.Uint16(data[i*2:])
		} else {
			rf.registers[i] = 0x0000
		}
	}
	rf.mmu.Wait.AdjustTimings(rf.register(memorymap.AddressWAITCNT))
}
