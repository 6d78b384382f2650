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

// Package memorymap describes the address space of the GBA. The top byte of
// a 32bit address selects one of sixteen region slots; the remaining bits
// are the offset into the region. Adjacent slots pair up to form the 32MiB
// cartridge windows.
package memorymap

// Region is the index of a slot in the memory map.
type Region int

func (r Region) String() string {
	switch r {
	case RegionBIOS:
		return "BIOS"
	case RegionWorkingRAM:
		return "WRAM"
	case RegionWorkingIRAM:
		return "IRAM"
	case RegionIO:
		return "IO"
	case RegionPalette:
		return "Palette"
	case RegionVRAM:
		return "VRAM"
	case RegionOAM:
		return "OAM"
	case RegionCart0, RegionCart0Hi:
		return "Cart0"
	case RegionCart1, RegionCart1Hi:
		return "Cart1"
	case RegionCart2, RegionCart2Hi:
		return "Cart2"
	case RegionSRAM:
		return "SRAM"
	}
	return "unmapped"
}

// The sixteen region slots. The high half of each cartridge window has its
// own slot so that ROMs larger than 16MiB can span two slots. The high half
// of cartridge window 2 doubles as the EEPROM slot when an EEPROM backup is
// present.
const (
	RegionBIOS        Region = 0x0
	RegionWorkingRAM  Region = 0x2
	RegionWorkingIRAM Region = 0x3
	RegionIO          Region = 0x4
	RegionPalette     Region = 0x5
	RegionVRAM        Region = 0x6
	RegionOAM         Region = 0x7
	RegionCart0       Region = 0x8
	RegionCart0Hi     Region = 0x9
	RegionCart1       Region = 0xa
	RegionCart1Hi     Region = 0xb
	RegionCart2       Region = 0xc
	RegionCart2Hi     Region = 0xd
	RegionSRAM        Region = 0xe

	// the number of region slots in the memory map
	NumRegions = 0x10
)

// Base addresses for each region.
const (
	BaseBIOS        = uint32(0x00000000)
	BaseWorkingRAM  = uint32(0x02000000)
	BaseWorkingIRAM = uint32(0x03000000)
	BaseIO          = uint32(0x04000000)
	BasePalette     = uint32(0x05000000)
	BaseVRAM        = uint32(0x06000000)
	BaseOAM         = uint32(0x07000000)
	BaseCart0       = uint32(0x08000000)
	BaseCart1       = uint32(0x0a000000)
	BaseCart2       = uint32(0x0c000000)
	BaseSRAM        = uint32(0x0e000000)
)

// Sizes of the memory regions implemented by the core. Palette, VRAM and OAM
// buffers are owned by the video collaborator.
const (
	SizeBIOS        = uint32(0x00004000)
	SizeWorkingRAM  = uint32(0x00040000)
	SizeWorkingIRAM = uint32(0x00008000)
	SizeIO          = uint32(0x00000400)
	SizeCart        = uint32(0x02000000)
	SizeSRAM        = uint32(0x00008000)
	SizeFlash512    = uint32(0x00010000)
	SizeFlash1M     = uint32(0x00020000)
	SizeEEPROM      = uint32(0x00002000)
	SizeEEPROMSmall = uint32(0x00000200)
)

// The number of bits to shift an address to reach the region slot index.
const RegionShift = 24

// RegionIdx returns the region slot an address falls in. Values of 0x10 and
// above indicate an unmapped address.
func RegionIdx(address uint32) uint32 {
	return address >> RegionShift
}

// Offset masks applied by the address decoder before dispatching to a
// region. Stores are aligned to the access width; loads are not, because
// unaligned loads are simulated verbatim by the region.
const (
	OffsetMask        = uint32(0x00ffffff)
	OffsetMaskStore16 = uint32(0x00fffffe)
	OffsetMaskStore32 = uint32(0x00fffffc)
)

// The cartridge ROM offset mask is fixed regardless of the actual cartridge
// size, so that the 32MiB window mirrors a smaller cartridge. Bit 24
// survives the decoder's offset mask by way of the high ROM view's bias.
const CartOffsetMask = uint32(0x01ffffff)

// Instruction cache page bits for the cacheable regions.
const (
	PageBitsWorkingRAM  = uint32(9)
	PageBitsWorkingIRAM = uint32(7)
	PageBitsROM         = uint32(10)
	PageBitsBIOS        = uint32(16)
)

// Register addresses in the I/O block, as offsets from BaseIO.
const (
	AddressSOUNDFIFOA = uint32(0x0a0)
	AddressSOUNDFIFOB = uint32(0x0a4)

	AddressDMA0SAD    = uint32(0x0b0)
	AddressDMA0DAD    = uint32(0x0b4)
	AddressDMA0CNTLO  = uint32(0x0b8)
	AddressDMA0CNTHI  = uint32(0x0ba)
	AddressDMA3CNTHI  = uint32(0x0de)
	DMARegisterStride = uint32(0x00c)

	AddressWAITCNT = uint32(0x204)
	AddressIME     = uint32(0x208)
	AddressIE      = uint32(0x200)
	AddressIF      = uint32(0x202)
	AddressPOSTFLG = uint32(0x300)
	AddressHALTCNT = uint32(0x301)
)

// Addresses in the cartridge ROM space, as offsets from BaseCart0, that are
// redirected to the GPIO back-channel rather than the ROM itself.
const (
	GpioData      = uint32(0x0c4)
	GpioDirection = uint32(0x0c6)
	GpioControl   = uint32(0x0c8)
	GpioMemtop    = uint32(0x0ca)
)

// Cartridge header layout.
const (
	HeaderTitle     = 0x0a0
	HeaderTitleLen  = 12
	HeaderGameCode  = 0x0ac
	HeaderGameLen   = 4
	HeaderMakerCode = 0x0b0
	HeaderMakerLen  = 2
	HeaderMagic     = 0x0b2
	HeaderMagicVal  = uint8(0x96)

	// save-type tokens are scanned for from this offset onwards
	HeaderMemtop = 0x0e4
)
