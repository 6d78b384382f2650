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
	"github.com/jetsetilly/gophergba/curated"
	"github.com/jetsetilly/gophergba/environment"
	"github.com/jetsetilly/gophergba/hardware/memory/bus"
	"github.com/jetsetilly/gophergba/hardware/memory/cartridge"
	"github.com/jetsetilly/gophergba/hardware/memory/cartridge/backup"
	"github.com/jetsetilly/gophergba/hardware/memory/icache"
	"github.com/jetsetilly/gophergba/hardware/memory/memorymap"
	"github.com/jetsetilly/gophergba/logger"
)

// Sentinel error patterns for the memory package.
const (
	// IcacheUnavailable is returned by AccessPage() for a region that does
	// not carry an instruction cache. This is a programming error in the
	// caller: the CPU must never request pages for the I/O or open-bus
	// regions.
	IcacheUnavailable = "mmu: icache unavailable: %v"

	// InvalidBIOS is returned when a BIOS image is of an impossible size.
	InvalidBIOS = "mmu: %v"
)

// MMU routes every memory access to one of sixteen region slots, selected
// by the top byte of the address. Unmapped slots hold the shared open-bus
// region. After every store the MMU invalidates any instruction-cache page
// covering the written bytes.
type MMU struct {
	env *environment.Environment

	regions [memorymap.NumRegions]bus.Region
	openBus *OpenBus

	// the two on-chip RAM blocks are created by the MMU and live for the
	// MMU's lifetime
	WRAM *MemoryBlock
	IRAM *MemoryBlock

	// the wait-state table is owned by the MMU because WAITCNT is decoded
	// here, but it is the CPU that charges itself through it
	Wait *Waitstates

	// the attached cartridge. nil until AttachCartridge() succeeds
	Cart *cartridge.Cartridge
}

// NewMMU is the preferred method of initialisation for the MMU type. The cpu
// argument provides the cycle counter for the wait-state table and the
// execution state for open-bus synthesis.
func NewMMU(env *environment.Environment, cpu bus.CPU) *MMU {
	mmu := &MMU{
		env:  env,
		WRAM: NewMemoryBlock(env, memorymap.SizeWorkingRAM, memorymap.PageBitsWorkingRAM),
		IRAM: NewMemoryBlock(env, memorymap.SizeWorkingIRAM, memorymap.PageBitsWorkingIRAM),
	}

	mmu.openBus = NewOpenBus(env, mmu, cpu)
	mmu.Wait = NewWaitstates(env, cpu)

	for i := range mmu.regions {
		mmu.regions[i] = mmu.openBus
	}
	mmu.regions[memorymap.RegionWorkingRAM] = mmu.WRAM
	mmu.regions[memorymap.RegionWorkingIRAM] = mmu.IRAM

	return mmu
}

// Map installs a region into a slot. Used by the video collaborator to
// install the palette, VRAM and OAM buffers, and by the core for the I/O
// register file.
func (mmu *MMU) Map(slot memorymap.Region, r bus.Region) {
	mmu.regions[slot] = r
}

// Unmap returns a slot to open-bus.
func (mmu *MMU) Unmap(slot memorymap.Region) {
	mmu.regions[slot] = mmu.openBus
}

// Region returns the region currently occupying a slot.
func (mmu *MMU) Region(slot memorymap.Region) bus.Region {
	return mmu.regions[slot&0xf]
}

// Mapped returns false if the slot holds the open-bus region.
func (mmu *MMU) Mapped(slot memorymap.Region) bool {
	return mmu.regions[slot&0xf] != mmu.openBus
}

// LoadBIOS installs the system ROM into the BIOS slot.
func (mmu *MMU) LoadBIOS(data []byte) error {
	if len(data) == 0 || uint32(len(data)) > memorymap.SizeBIOS {
		return curated.Errorf(InvalidBIOS, "invalid BIOS image size")
	}
	mmu.regions[memorymap.RegionBIOS] = NewBIOS(mmu.env, data)
	return nil
}

// AttachCartridge installs the cartridge ROM views into the three cartridge
// windows and the backup memory into its slot. Any previously attached
// cartridge is fully unmapped first.
func (mmu *MMU) AttachCartridge(cart *cartridge.Cartridge) {
	for slot := memorymap.RegionCart0; slot <= memorymap.RegionSRAM; slot++ {
		mmu.Unmap(slot)
	}

	mmu.Cart = cart
	if cart == nil {
		return
	}

	for w := 0; w < 3; w++ {
		mmu.regions[memorymap.RegionCart0+memorymap.Region(w*2)] = cart.Lo
		mmu.regions[memorymap.RegionCart0Hi+memorymap.Region(w*2)] = cart.Hi
	}

	// the EEPROM replaces the high half of cartridge window 2. the other
	// backup types live in the SRAM slot
	switch cart.Backup.(type) {
	case *backup.EEPROM:
		mmu.regions[memorymap.RegionCart2Hi] = cart.Backup
	default:
		mmu.regions[memorymap.RegionSRAM] = cart.Backup
	}

	logger.Logf(mmu.env, "mmu", "cartridge attached: %s", cart.String())
}

// region selects the region slot for an address. addresses beyond the
// sixteen slots are on the open bus.
func (mmu *MMU) region(address uint32) bus.Region {
	idx := memorymap.RegionIdx(address)
	if idx >= memorymap.NumRegions {
		return mmu.openBus
	}
	return mmu.regions[idx]
}

// Load8 dispatches a signed 8bit load.
func (mmu *MMU) Load8(address uint32) int8 {
	return mmu.region(address).Load8(address & memorymap.OffsetMask)
}

// Load16 dispatches a signed 16bit load.
func (mmu *MMU) Load16(address uint32) int16 {
	return mmu.region(address).Load16(address & memorymap.OffsetMask)
}

// Load32 dispatches a 32bit load.
func (mmu *MMU) Load32(address uint32) uint32 {
	return mmu.region(address).Load32(address & memorymap.OffsetMask)
}

// LoadU8 dispatches an unsigned 8bit load.
func (mmu *MMU) LoadU8(address uint32) uint8 {
	return mmu.region(address).LoadU8(address & memorymap.OffsetMask)
}

// LoadU16 dispatches an unsigned 16bit load.
func (mmu *MMU) LoadU16(address uint32) uint16 {
	return mmu.region(address).LoadU16(address & memorymap.OffsetMask)
}

// Store8 dispatches an 8bit store and invalidates the covering
// instruction-cache page.
func (mmu *MMU) Store8(address uint32, value uint8) {
	r := mmu.region(address)
	offset := address & memorymap.OffsetMask
	r.Store8(offset, value)
	r.InvalidatePage(offset)
}

// Store16 dispatches a 16bit store and invalidates the covering
// instruction-cache page.
func (mmu *MMU) Store16(address uint32, value uint16) {
	r := mmu.region(address)
	offset := address & memorymap.OffsetMaskStore16
	r.Store16(offset, value)
	r.InvalidatePage(offset)
}

// Store32 dispatches a 32bit store and invalidates the covering
// instruction-cache pages. Both halves of the written word are invalidated
// so that a write straddling two pages reaches them both.
func (mmu *MMU) Store32(address uint32, value uint32) {
	r := mmu.region(address)
	offset := address & memorymap.OffsetMaskStore32
	r.Store32(offset, value)
	r.InvalidatePage(offset)
	r.InvalidatePage(offset + 2)
}

// AccessPage returns the instruction-cache page for a region slot, creating
// the page if it is absent or invalid. An IcacheUnavailable error indicates
// a request for a page in a non-cacheable region, which is a programming
// error in the caller.
func (mmu *MMU) AccessPage(slot memorymap.Region, pageID uint32) (*icache.Page, error) {
	c, ok := mmu.regions[slot&0xf].(bus.Cacheable)
	if !ok || c.PageBits() == 0 {
		return nil, curated.Errorf(IcacheUnavailable, slot)
	}
	return c.AccessPage(pageID), nil
}

// InvalidateRange invalidates every instruction-cache page covering the
// byte range starting at address. Used by the DMA engine before a transfer
// lands in a cacheable region.
func (mmu *MMU) InvalidateRange(address uint32, length uint32) {
	r := mmu.region(address)

	c, ok := r.(bus.Cacheable)
	if !ok || c.PageBits() == 0 {
		return
	}

	if length == 0 {
		return
	}

	step := uint32(1) << c.PageBits()
	offset := address & memorymap.OffsetMask
	for o := offset; o < offset+length; o += step {
		r.InvalidatePage(o)
	}
	r.InvalidatePage(offset + length - 1)
}
