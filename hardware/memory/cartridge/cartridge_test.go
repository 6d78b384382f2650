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

package cartridge_test

import (
	"testing"

	"github.com/jetsetilly/gophergba/curated"
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

func testEnv() *environment.Environment {
	return environment.NewEnvironment(environment.MainEmulation)
}

func TestHeaderAccept(t *testing.T) {
	cart, err := cartridge.NewCartridge(testEnv(), testROM(0x2000), nil)
	test.ExpectedSuccess(t, err)

	test.Equate(t, cart.Title, "HELLOWORLD")
	test.Equate(t, cart.GameCode, "AXVE")
	test.Equate(t, cart.MakerCode, "01")

	// without a save-type token the default backup is battery SRAM
	test.Equate(t, cart.Backup.Type() == backup.TypeSRAM, true)
}

func TestHeaderReject(t *testing.T) {
	rom := testROM(0x2000)
	rom[memorymap.HeaderMagic] = 0x00

	_, err := cartridge.NewCartridge(testEnv(), rom, nil)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Has(err, cartridge.InvalidHeader))
}

func TestSaveTypeInference(t *testing.T) {
	rom := testROM(0x2000)
	copy(rom[0x1000:], "EEPROM_V123")

	cart, err := cartridge.NewCartridge(testEnv(), rom, nil)
	test.ExpectedSuccess(t, err)
	test.Equate(t, cart.Backup.Type() == backup.TypeEEPROM, true)
}

func TestFingerprint(t *testing.T) {
	for _, tc := range []struct {
		token    string
		saveType backup.Type
	}{
		{"SRAM_V111", backup.TypeSRAM},
		{"EEPROM_V124", backup.TypeEEPROM},
		{"FLASH_V126", backup.TypeFlash512},
		{"FLASH512_V131", backup.TypeFlash512},
		{"FLASH1M_V103", backup.TypeFlash1M},
	} {
		rom := testROM(0x2000)
		copy(rom[0x800:], tc.token)
		test.Equate(t, cartridge.FingerprintSaveType(rom) == tc.saveType, true)
	}

	// a token hidden in the header area is not scanned
	rom := testROM(0x2000)
	copy(rom[0x10:], "FLASH1M_V103")
	test.Equate(t, cartridge.FingerprintSaveType(rom) == backup.TypeSRAM, true)
}

func TestROMMirroring(t *testing.T) {
	rom := testROM(0x2000)
	rom[0x1ffc] = 0x5a

	cart, err := cartridge.NewCartridge(testEnv(), rom, nil)
	test.ExpectedSuccess(t, err)

	test.Equate(t, cart.Lo.LoadU8(0x1ffc), 0x5a)

	// the fixed 32MiB mask means the high view wraps back onto the image
	test.Equate(t, cart.Hi.LoadU8(0x1000000+0x1ffc), 0x5a)
}

func TestROMOutOfRange(t *testing.T) {
	cart, err := cartridge.NewCartridge(testEnv(), testROM(0x2000), nil)
	test.ExpectedSuccess(t, err)

	// reads beyond the image return the unfilled-cartridge pattern
	test.Equate(t, cart.Lo.LoadU16(0x4000), uint16(0x2000))
	test.Equate(t, cart.Lo.Load32(0x4000), uint32(0x2001_2000))
}

func TestGpioLazyAllocation(t *testing.T) {
	cart, err := cartridge.NewCartridge(testEnv(), testROM(0x2000), nil)
	test.ExpectedSuccess(t, err)
	test.Equate(t, cart.HasGpio(), false)

	// a write below the GPIO window is a no-op
	cart.Lo.Store16(0x0c2, 0xffff)
	test.Equate(t, cart.HasGpio(), false)

	// a write inside the window allocates and forwards
	cart.Lo.Store16(memorymap.GpioControl, 0x0001)
	test.Equate(t, cart.HasGpio(), true)
	test.Equate(t, cart.Gpio().Readable(), true)
}

func TestGpioReadWindow(t *testing.T) {
	cart, err := cartridge.NewCartridge(testEnv(), testROM(0x2000), nil)
	test.ExpectedSuccess(t, err)

	// grant read access, drive the output pins and read them back through
	// the ROM
	cart.Lo.Store16(memorymap.GpioControl, 0x0001)
	cart.Lo.Store16(memorymap.GpioDirection, 0x000f)
	cart.Lo.Store16(memorymap.GpioData, 0x0005)
	test.Equate(t, cart.Lo.LoadU16(memorymap.GpioData), 0x0005)

	// revoking read access restores the original ROM bytes
	cart.Lo.Store16(memorymap.GpioControl, 0x0000)
	test.Equate(t, cart.Lo.LoadU16(memorymap.GpioData), 0x0000)
}

func TestROMStoreIgnored(t *testing.T) {
	cart, err := cartridge.NewCartridge(testEnv(), testROM(0x2000), nil)
	test.ExpectedSuccess(t, err)

	cart.Lo.Store8(0x100, 0xff)
	cart.Lo.Store16(0x100, 0xffff)
	cart.Lo.Store32(0x100, 0xffffffff)
	test.Equate(t, cart.Lo.LoadU8(0x100), 0x00)
}
