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

package backup_test

import (
	"testing"

	"github.com/jetsetilly/gophergba/hardware/memory/cartridge/backup"
	"github.com/jetsetilly/gophergba/test"
)

// mockCounter stands in for the DMA3 channel record.
type mockCounter struct {
	count uint32
}

func (c *mockCounter) TransferSize() uint32 {
	return c.count
}

// storeBits feeds a bit string to the chip, most significant first, the way
// DMA3 would.
func storeBits(e *backup.EEPROM, bits []uint16) {
	for _, b := range bits {
		e.Store16(0, b)
	}
}

// addressBits builds the bit string for a block address.
func addressBits(address uint32, width int) []uint16 {
	b := make([]uint16, 0, width)
	for i := width - 1; i >= 0; i-- {
		b = append(b, uint16(address>>i)&0x1)
	}
	return b
}

// writeBlock performs a full write transaction for a 14bit chip.
func writeBlock(e *backup.EEPROM, dma *mockCounter, address uint32, data [8]byte) {
	dma.count = 81

	bits := []uint16{1, 0}
	bits = append(bits, addressBits(address, 14)...)
	for _, by := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, uint16(by>>i)&0x1)
		}
	}
	bits = append(bits, 0)

	storeBits(e, bits)
}

// readBlock performs a full read transaction for a 14bit chip.
func readBlock(t *testing.T, e *backup.EEPROM, dma *mockCounter, address uint32) [8]byte {
	t.Helper()

	dma.count = 17

	bits := []uint16{1, 1}
	bits = append(bits, addressBits(address, 14)...)
	bits = append(bits, 0)
	storeBits(e, bits)

	dma.count = 68

	var data [8]byte

	// four dummy bits lead the data stream
	for i := 0; i < 4; i++ {
		test.Equate(t, int(e.Load16(0)), 0)
	}
	for i := 0; i < 64; i++ {
		data[i>>3] |= uint8(e.Load16(0)&0x1) << (7 - i&0x7)
	}

	return data
}

func TestEEPROMWriteRead(t *testing.T) {
	dma := &mockCounter{}
	e := backup.NewEEPROM(testEnv(), dma)

	block := [8]byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03, 0x04}

	writeBlock(e, dma, 0x10, block)
	test.Equate(t, e.Pending(), true)

	dma.count = 17
	bits := []uint16{1, 1}
	bits = append(bits, addressBits(0x10, 14)...)
	bits = append(bits, 0)
	storeBits(e, bits)

	dma.count = 68
	for i := 0; i < 4; i++ {
		test.Equate(t, int(e.Load16(0)), 0)
	}
	var data [8]byte
	for i := 0; i < 64; i++ {
		data[i>>3] |= uint8(e.Load16(0)&0x1) << (7 - i&0x7)
	}

	test.Equate(t, data[0], 0xde)
	test.Equate(t, data[3], 0xef)
	test.Equate(t, data[7], 0x04)
}

func TestEEPROMSizeInference(t *testing.T) {
	// a 9 bit first transfer marks the small chip
	dma := &mockCounter{count: 9}
	e := backup.NewEEPROM(testEnv(), dma)

	bits := []uint16{1, 1}
	bits = append(bits, addressBits(0x3, 6)...)
	bits = append(bits, 0)
	storeBits(e, bits)

	test.Equate(t, len(e.View()), 0x200)

	// a 17 bit first transfer marks the large chip
	dma = &mockCounter{count: 17}
	e = backup.NewEEPROM(testEnv(), dma)

	bits = []uint16{1, 1}
	bits = append(bits, addressBits(0x3, 14)...)
	bits = append(bits, 0)
	storeBits(e, bits)

	test.Equate(t, len(e.View()), 0x2000)
}

func TestEEPROMReadyStatus(t *testing.T) {
	dma := &mockCounter{}
	e := backup.NewEEPROM(testEnv(), dma)

	// with no read in flight the chip reports ready
	test.Equate(t, int(e.Load16(0)), 1)
}

func TestEEPROMUnwrittenReadsOnes(t *testing.T) {
	dma := &mockCounter{}
	e := backup.NewEEPROM(testEnv(), dma)

	data := readBlock(t, e, dma, 0x08)
	for i := range data {
		test.Equate(t, data[i], 0xff)
	}
}
