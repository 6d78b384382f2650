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

package cartridge

import (
	"encoding/binary"

	"github.com/jetsetilly/gophergba/environment"
	"github.com/jetsetilly/gophergba/hardware/memory/memorymap"
	"github.com/jetsetilly/gophergba/logger"
)

// GPIO is the general-purpose I/O back-channel reached through a narrow
// window in the cartridge ROM address space. Cartridges use it for a
// real-time clock, solar sensors and the like.
//
// The register values are latched into the ROM buffer when the control
// register grants read access, so that ordinary ROM reads see them; the
// original ROM bytes are restored when read access is revoked. Device
// protocols spoken over the data pins are logged as stubs.
type GPIO struct {
	env *environment.Environment

	// the shared cartridge ROM buffer. the GPIO owns the six bytes of the
	// register window while read access is granted
	rom  []byte
	orig [6]byte

	pins      uint16
	direction uint16
	control   uint16
}

func newGPIO(env *environment.Environment, rom []byte) *GPIO {
	g := &GPIO{
		env: env,
		rom: rom,
	}
	copy(g.orig[:], rom[memorymap.GpioData:memorymap.GpioMemtop])
	return g
}

// Readable returns true if the control register currently grants read
// access to the GPIO registers.
func (g *GPIO) Readable() bool {
	return g.control&0x1 == 0x1
}

// Store16 latches a write to one of the three GPIO registers. The address
// argument is the offset within the cartridge window.
func (g *GPIO) Store16(address uint32, value uint16) {
	switch address {
	case memorymap.GpioData:
		// only pins configured as outputs can be driven by the guest
		g.pins = g.pins & ^g.direction | value&g.direction
		logger.Logf(g.env, "gpio", "STUB device write: pins %#04x direction %#04x", g.pins, g.direction)

	case memorymap.GpioDirection:
		g.direction = value & 0xf

	case memorymap.GpioControl:
		g.control = value & 0x1
	}

	g.latch()
}

// Pins returns the current state of the data pins.
func (g *GPIO) Pins() uint16 {
	return g.pins
}

// latch projects the register values into the ROM read window, or restores
// the original ROM bytes when the window is not readable.
func (g *GPIO) latch() {
	if g.Readable() {
		binary.LittleEndian.PutUint16(g.rom[memorymap.GpioData:], g.pins)
		binary.LittleEndian.PutUint16(g.rom[memorymap.GpioDirection:], g.direction)
		binary.LittleEndian.PutUint16(g.rom[memorymap.GpioControl:], g.control)
		return
	}
	copy(g.rom[memorymap.GpioData:memorymap.GpioMemtop], g.orig[:])
}
