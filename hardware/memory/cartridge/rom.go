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
	"math/bits"

	"github.com/jetsetilly/gophergba/environment"
	"github.com/jetsetilly/gophergba/hardware/memory/icache"
	"github.com/jetsetilly/gophergba/hardware/memory/memorymap"
	"github.com/jetsetilly/gophergba/logger"
)

// ROMView is a read-only region over one 16MiB half of a cartridge window.
// The same two views serve all three windows, which differ only in their
// wait states. The offset mask is fixed at the full 32MiB so that the window
// mirrors a smaller cartridge.
//
// Stores inside the narrow GPIO window of the low view are redirected to the
// cartridge's GPIO back-channel. All other stores are ignored.
type ROMView struct {
	env  *environment.Environment
	cart *Cartridge

	// bias is added to every offset before masking. zero for the low view,
	// 16MiB for the high view
	bias uint32

	icache *icache.Cache
}

func newROMView(env *environment.Environment, cart *Cartridge, bias uint32) *ROMView {
	return &ROMView{
		env:    env,
		cart:   cart,
		bias:   bias,
		icache: icache.NewCache(memorymap.SizeCart/2, memorymap.PageBitsROM),
	}
}

// resolve applies the view bias and the fixed cartridge mask.
func (rv *ROMView) resolve(offset uint32) uint32 {
	return (offset + rv.bias) & memorymap.CartOffsetMask
}

// outOfRange synthesises the value returned by the address bus for a read
// beyond the end of the cartridge: the low bits of the halfword address.
func outOfRange(offset uint32) uint16 {
	return uint16(offset >> 1)
}

// Load8 implements the bus.Region interface.
func (rv *ROMView) Load8(offset uint32) int8 {
	return int8(rv.LoadU8(offset))
}

// Load16 implements the bus.Region interface.
func (rv *ROMView) Load16(offset uint32) int16 {
	return int16(rv.LoadU16(offset))
}

// Load32 implements the bus.Region interface.
func (rv *ROMView) Load32(offset uint32) uint32 {
	o := rv.resolve(offset) & ^uint32(0x3)

	var v uint32
	if o+3 < uint32(len(rv.cart.rom)) {
		v = binary.LittleEndian.Uint32(rv.cart.rom[o:])
	} else {
		v = uint32(outOfRange(o)) | uint32(outOfRange(o+2))<<16
	}

	return bits.RotateLeft32(v, -int(offset&0x3)*8)
}

// LoadU8 implements the bus.Region interface.
func (rv *ROMView) LoadU8(offset uint32) uint8 {
	o := rv.resolve(offset)
	if o >= uint32(len(rv.cart.rom)) {
		v := outOfRange(o)
		if o&0x1 == 0x1 {
			return uint8(v >> 8)
		}
		return uint8(v)
	}
	return rv.cart.rom[o]
}

// LoadU16 implements the bus.Region interface.
func (rv *ROMView) LoadU16(offset uint32) uint16 {
	o := rv.resolve(offset)
	if o+1 >= uint32(len(rv.cart.rom)) {
		return outOfRange(o)
	}
	return binary.LittleEndian.Uint16(rv.cart.rom[o:])
}

// Store8 implements the bus.Region interface. The ROM is read-only and the
// GPIO registers are not byte-addressable.
func (rv *ROMView) Store8(offset uint32, value uint8) {
	logger.Logf(rv.env, "cartridge", "write of %#02x to rom address %#07x ignored", value, rv.resolve(offset))
}

// Store16 implements the bus.Region interface. Writes inside the GPIO
// window allocate and program the GPIO back-channel.
func (rv *ROMView) Store16(offset uint32, value uint16) {
	if rv.gpioWindow(offset) {
		rv.cart.Gpio().Store16(offset+rv.bias, value)
		return
	}
	logger.Logf(rv.env, "cartridge", "write of %#04x to rom address %#07x ignored", value, rv.resolve(offset))
}

// Store32 implements the bus.Region interface.
func (rv *ROMView) Store32(offset uint32, value uint32) {
	if rv.gpioWindow(offset) {
		rv.cart.Gpio().Store16(offset+rv.bias, uint16(value))
		rv.cart.Gpio().Store16(offset+rv.bias+2, uint16(value>>16))
		return
	}
	logger.Logf(rv.env, "cartridge", "write of %#08x to rom address %#07x ignored", value, rv.resolve(offset))
}

func (rv *ROMView) gpioWindow(offset uint32) bool {
	o := offset + rv.bias
	return o >= memorymap.GpioData && o < memorymap.GpioMemtop
}

// InvalidatePage implements the bus.Region interface. ROM contents only
// change underneath the icache when the GPIO latches into the read window,
// which never holds code.
func (rv *ROMView) InvalidatePage(offset uint32) {
}

// ReplaceData implements the bus.Region interface. The ROM is read-only.
func (rv *ROMView) ReplaceData(data []byte) {
}

// PageBits implements the bus.Cacheable interface.
func (rv *ROMView) PageBits() uint32 {
	return rv.icache.PageBits()
}

// AccessPage implements the bus.Cacheable interface.
func (rv *ROMView) AccessPage(pageID uint32) *icache.Page {
	return rv.icache.Access(pageID)
}
