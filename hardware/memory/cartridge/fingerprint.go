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
	"bytes"

	"github.com/jetsetilly/gophergba/hardware/memory/cartridge/backup"
	"github.com/jetsetilly/gophergba/hardware/memory/memorymap"
)

// the save-type library tokens linkers place in the ROM image. when more
// than one token is present the one closest to the header wins.
var saveTokens = []struct {
	token    []byte
	saveType backup.Type
}{
	{[]byte("EEPROM_V"), backup.TypeEEPROM},
	{[]byte("SRAM_V"), backup.TypeSRAM},
	{[]byte("FLASH1M_V"), backup.TypeFlash1M},
	{[]byte("FLASH512_V"), backup.TypeFlash512},
	{[]byte("FLASH_V"), backup.TypeFlash512},
}

// FingerprintSaveType scans the ROM image for the save-type token of the
// library the game was linked against. Scanning starts after the cartridge
// header. Games with no recognisable token default to battery SRAM.
func FingerprintSaveType(rom []byte) backup.Type {
	if len(rom) <= memorymap.HeaderMemtop {
		return backup.TypeSRAM
	}

	area := rom[memorymap.HeaderMemtop:]

	found := backup.TypeSRAM
	foundIdx := -1

	for _, t := range saveTokens {
		idx := bytes.Index(area, t.token)
		if idx >= 0 && (foundIdx == -1 || idx < foundIdx) {
			found = t.saveType
			foundIdx = idx
		}
	}

	return found
}
