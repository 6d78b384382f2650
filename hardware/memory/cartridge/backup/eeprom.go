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

package backup

import (
	"github.com/jetsetilly/gophergba/environment"
	"github.com/jetsetilly/gophergba/logger"
)

// the eeprom protocol state machine.
type eepromState int

const (
	// waiting for the start bit of a transaction
	eepromIdle eepromState = iota

	// the second command bit selects between read and write
	eepromCommand

	// shifting in the block address
	eepromAddress

	// a read request ends with a single ignored bit
	eepromReadTerm

	// shifting in the 64 data bits of a write request
	eepromWriteData

	// a write request ends with a single ignored bit
	eepromWriteTerm
)

const (
	eepromSizeSmall = uint32(0x0200)
	eepromSizeLarge = uint32(0x2000)

	// data moves in 64bit blocks whatever the chip size
	eepromBlockSize = uint32(8)
)

// EEPROM is the serial save memory wired to the upper half of cartridge
// window 2. The guest talks to it exclusively through DMA channel 3, one
// bit per 16bit bus access.
//
// The chip comes in a 512B flavour with 6bit block addresses and an 8KiB
// flavour with 14bit block addresses. Nothing in the cartridge image says
// which is fitted: the width is inferred from the length of the first DMA3
// transfer that reaches the chip.
type EEPROM struct {
	env *environment.Environment

	dma DMACounter

	data []byte

	// zero until the first transaction fixes the geometry
	realSize    uint32
	addressBits uint32

	state eepromState

	// the block address being shifted in, and the number of address bits
	// still to arrive
	address    uint32
	addressRem uint32

	// true while a write transaction is in flight
	writing     bool
	writeBuffer [eepromBlockSize]byte
	writeRem    uint32

	// a read transfer is 4 dummy bits followed by 64 data bits
	readAddress uint32
	readRem     uint32

	pending bool
}

// NewEEPROM is the preferred method of initialisation for the EEPROM type.
// The counter gives the chip sight of the programmed DMA3 transfer length.
func NewEEPROM(env *environment.Environment, dma DMACounter) *EEPROM {
	e := &EEPROM{
		env:  env,
		dma:  dma,
		data: make([]byte, eepromSizeLarge),
	}
	for i := range e.data {
		e.data[i] = 0xff
	}
	return e
}

// Type implements the Backup interface.
func (e *EEPROM) Type() Type {
	return TypeEEPROM
}

// Pending implements the Backup interface.
func (e *EEPROM) Pending() bool {
	return e.pending
}

// ClearPending implements the Backup interface.
func (e *EEPROM) ClearPending() {
	e.pending = false
}

// View implements the Backup interface. Until the geometry is known the
// full 8KiB array is returned.
func (e *EEPROM) View() []byte {
	if e.realSize == 0 {
		return e.data
	}
	return e.data[:e.realSize]
}

// infer fixes the chip geometry from the length of the first transaction. A
// read request on the small chip is 9 bits long (2 command bits, 6 address
// bits, 1 terminator); on the large chip it is 17 bits. Write requests add
// the 64 data bits.
func (e *EEPROM) infer(read bool) {
	if e.addressBits != 0 {
		return
	}

	if e.dma == nil {
		e.addressBits = 14
		e.realSize = eepromSizeLarge
		logger.Log(e.env, "eeprom", "no dma counter attached, assuming the large chip")
		return
	}

	n := e.dma.TransferSize()
	if !read {
		n -= 64
	}

	if n <= 9 {
		e.addressBits = 6
		e.realSize = eepromSizeSmall
	} else {
		e.addressBits = 14
		e.realSize = eepromSizeLarge
	}

	logger.Logf(e.env, "eeprom", "%d bit addressing inferred from a %d bit transfer",
		e.addressBits, e.dma.TransferSize())
}

// blockOffset converts the shifted-in block address into a byte offset,
// discarding the address bits beyond the array.
func (e *EEPROM) blockOffset() uint32 {
	return (e.address * eepromBlockSize) & (e.realSize - 1)
}

// storeBit advances the protocol state machine by one bit.
func (e *EEPROM) storeBit(bit uint32) {
	switch e.state {
	case eepromIdle:
		if bit == 0x1 {
			e.state = eepromCommand
		}

	case eepromCommand:
		read := bit == 0x1
		e.infer(read)
		e.writing = !read
		e.address = 0
		e.addressRem = e.addressBits
		if e.writing {
			e.writeRem = 64
			for i := range e.writeBuffer {
				e.writeBuffer[i] = 0x00
			}
		}
		e.state = eepromAddress

	case eepromAddress:
		e.address = e.address<<1 | bit
		e.addressRem--
		if e.addressRem == 0 {
			if e.writing {
				e.state = eepromWriteData
			} else {
				e.state = eepromReadTerm
			}
		}

	case eepromReadTerm:
		// the terminating bit of a read request arms the read stream
		e.readAddress = e.blockOffset()
		e.readRem = 4 + 64
		e.state = eepromIdle

	case eepromWriteData:
		idx := 64 - e.writeRem
		e.writeBuffer[idx>>3] |= uint8(bit) << (7 - idx&0x7)
		e.writeRem--
		if e.writeRem == 0 {
			e.state = eepromWriteTerm
		}

	case eepromWriteTerm:
		copy(e.data[e.blockOffset():], e.writeBuffer[:])
		e.pending = true
		e.state = eepromIdle
	}
}

// loadBit produces the next bit of an armed read stream. With no read in
// flight the chip reports ready.
func (e *EEPROM) loadBit() uint32 {
	if e.readRem == 0 {
		// ready status
		return 0x1
	}

	e.readRem--

	// the first four bits of a read stream are dummy bits
	if e.readRem >= 64 {
		return 0x0
	}

	idx := 63 - e.readRem
	return uint32(e.data[e.readAddress+(idx>>3)]>>(7-idx&0x7)) & 0x1
}

// Load8 implements the bus.Region interface. Every access, whatever the
// width, moves exactly one bit.
func (e *EEPROM) Load8(offset uint32) int8 {
	return int8(e.loadBit())
}

// Load16 implements the bus.Region interface.
func (e *EEPROM) Load16(offset uint32) int16 {
	return int16(e.loadBit())
}

// Load32 implements the bus.Region interface.
func (e *EEPROM) Load32(offset uint32) uint32 {
	return e.loadBit()
}

// LoadU8 implements the bus.Region interface.
func (e *EEPROM) LoadU8(offset uint32) uint8 {
	return uint8(e.loadBit())
}

// LoadU16 implements the bus.Region interface.
func (e *EEPROM) LoadU16(offset uint32) uint16 {
	return uint16(e.loadBit())
}

// Store8 implements the bus.Region interface.
func (e *EEPROM) Store8(offset uint32, value uint8) {
	e.storeBit(uint32(value) & 0x1)
}

// Store16 implements the bus.Region interface. This is the access width
// DMA3 uses.
func (e *EEPROM) Store16(offset uint32, value uint16) {
	e.storeBit(uint32(value) & 0x1)
}

// Store32 implements the bus.Region interface.
func (e *EEPROM) Store32(offset uint32, value uint32) {
	e.storeBit(value & 0x1)
}

// InvalidatePage implements the bus.Region interface.
func (e *EEPROM) InvalidatePage(offset uint32) {
}

// ReplaceData implements the bus.Region interface.
func (e *EEPROM) ReplaceData(data []byte) {
	copy(e.data, data)
	for i := len(data); i < len(e.data); i++ {
		e.data[i] = 0xff
	}
	e.pending = false
	e.state = eepromIdle
	e.readRem = 0
}
