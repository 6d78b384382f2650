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

package memory_test

import (
	"testing"

	"github.com/jetsetilly/gophergba/environment"
	"github.com/jetsetilly/gophergba/hardware/memory/cartridge"
	"github.com/jetsetilly/gophergba/hardware/memory/cartridge/backup"
	"github.com/jetsetilly/gophergba/hardware/memory/memorymap"
	"github.com/jetsetilly/gophergba/test"
)

// testROM builds a minimal well-formed cartridge image.
func testROM(size int) []byte {
	rom := make([]byte, size)
	copy(rom[memorymap.HeaderTitle:], "HELLOWORLD\x00\x00")
	copy(rom[memorymap.HeaderGameCode:], "AXVE")
	copy(rom[memorymap.HeaderMakerCode:], "01")
	rom[memorymap.HeaderMagic] = memorymap.HeaderMagicVal
	return rom
}

func TestAttachCartridge(t *testing.T) {
	mmu, _ := newTestMMU()

	env := environment.NewEnvironment(environment.MainEmulation)
	cart, err := cartridge.NewCartridge(env, testROM(0x2000), nil)
	test.ExpectedSuccess(t, err)

	mmu.AttachCartridge(cart)

	test.Equate(t, cart.Title, "HELLOWORLD")

	// all three cartridge windows point at the same views
	for _, slot := range []memorymap.Region{memorymap.RegionCart0, memorymap.RegionCart1, memorymap.RegionCart2} {
		if mmu.Region(slot) != cart.Lo {
			t.Errorf("slot %#x does not hold the low rom view", int(slot))
		}
		if mmu.Region(slot+1) != cart.Hi {
			t.Errorf("slot %#x does not hold the high rom view", int(slot+1))
		}
	}

	// the default SRAM backup sits in the SRAM slot
	test.Equate(t, mmu.Mapped(memorymap.RegionSRAM), true)
	if mmu.Region(memorymap.RegionSRAM) != cart.Backup {
		t.Errorf("the sram slot does not hold the cartridge backup")
	}
}

func TestAttachRejectedCartridge(t *testing.T) {
	mmu, _ := newTestMMU()

	rom := testROM(0x2000)
	rom[memorymap.HeaderMagic] = 0x00

	env := environment.NewEnvironment(environment.MainEmulation)
	_, err := cartridge.NewCartridge(env, rom, nil)
	test.ExpectedFailure(t, err)

	// nothing was attached and the cartridge slots are untouched
	if mmu.Cart != nil {
		t.Errorf("a rejected cartridge mutated the mmu")
	}
	test.Equate(t, mmu.Mapped(memorymap.RegionCart0), false)
	test.Equate(t, mmu.Mapped(memorymap.RegionSRAM), false)
}

func TestAttachEEPROMCartridge(t *testing.T) {
	mmu, _ := newTestMMU()

	rom := testROM(0x2000)
	copy(rom[0x1000:], "EEPROM_V123")

	env := environment.NewEnvironment(environment.MainEmulation)
	cart, err := cartridge.NewCartridge(env, rom, nil)
	test.ExpectedSuccess(t, err)
	test.Equate(t, cart.Backup.Type() == backup.TypeEEPROM, true)

	mmu.AttachCartridge(cart)

	// the EEPROM takes the high half of cartridge window 2 and the SRAM
	// slot stays on the open bus
	if mmu.Region(memorymap.RegionCart2Hi) != cart.Backup {
		t.Errorf("the eeprom is not installed in the high half of cartridge window 2")
	}
	test.Equate(t, mmu.Mapped(memorymap.RegionSRAM), false)
}

func TestReadThroughCartWindows(t *testing.T) {
	mmu, _ := newTestMMU()

	rom := testROM(0x2000)
	rom[0x0150] = 0x99

	env := environment.NewEnvironment(environment.MainEmulation)
	cart, err := cartridge.NewCartridge(env, rom, nil)
	test.ExpectedSuccess(t, err)
	mmu.AttachCartridge(cart)

	test.Equate(t, mmu.LoadU8(memorymap.BaseCart0+0x150), 0x99)
	test.Equate(t, mmu.LoadU8(memorymap.BaseCart1+0x150), 0x99)
	test.Equate(t, mmu.LoadU8(memorymap.BaseCart2+0x150), 0x99)
}
