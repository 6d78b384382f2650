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

// Package cartridge represents the game cartridge: the ROM viewed through
// the three 32MiB windows, the GPIO back-channel hidden in the ROM address
// space, and the backup memory holding save data.
package cartridge

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gophergba/curated"
	"github.com/jetsetilly/gophergba/environment"
	"github.com/jetsetilly/gophergba/hardware/memory/cartridge/backup"
	"github.com/jetsetilly/gophergba/hardware/memory/memorymap"
	"github.com/jetsetilly/gophergba/logger"
)

// Sentinel error patterns for the cartridge package.
const (
	// InvalidHeader is returned when the image fails the header check. No
	// state has been mutated when this error is returned.
	InvalidHeader = "cartridge: invalid header: %v"
)

// Cartridge is the attached game cartridge. The ROM buffer is shared
// read-only by the low and high views and is owned by the Cartridge for the
// ROM's lifetime.
type Cartridge struct {
	env *environment.Environment

	rom []byte

	// metadata extracted from the cartridge header
	Title     string
	GameCode  string
	MakerCode string

	// the two views over the ROM. Lo covers the first 16MiB of each
	// cartridge window and carries the GPIO window; Hi covers the second
	// 16MiB
	Lo *ROMView
	Hi *ROMView

	// exactly one backup is live for the lifetime of the cartridge
	Backup backup.Backup

	// allocated on demand by the first write into the GPIO window
	gpio *GPIO
}

// NewCartridge is the preferred method of initialisation for the Cartridge
// type. The image is validated before any state is created: the byte at
// offset 0xb2 of a well-formed header is always 0x96.
//
// The counter argument gives the EEPROM backup sight of the DMA3 transfer
// length, from which the EEPROM bus width is inferred. It is only consulted
// if the save-type fingerprint selects an EEPROM.
func NewCartridge(env *environment.Environment, data []byte, counter backup.DMACounter) (*Cartridge, error) {
	if len(data) <= memorymap.HeaderMemtop {
		return nil, curated.Errorf(InvalidHeader, "image too small")
	}
	if uint32(len(data)) > memorymap.SizeCart {
		return nil, curated.Errorf(InvalidHeader, "image too large")
	}
	if data[memorymap.HeaderMagic] != memorymap.HeaderMagicVal {
		return nil, curated.Errorf(InvalidHeader,
			fmt.Sprintf("magic byte %#02x should be %#02x", data[memorymap.HeaderMagic], memorymap.HeaderMagicVal))
	}

	cart := &Cartridge{
		env: env,
		rom: make([]byte, len(data)),
	}
	copy(cart.rom, data)

	cart.Title = headerString(cart.rom, memorymap.HeaderTitle, memorymap.HeaderTitleLen)
	cart.GameCode = headerString(cart.rom, memorymap.HeaderGameCode, memorymap.HeaderGameLen)
	cart.MakerCode = headerString(cart.rom, memorymap.HeaderMakerCode, memorymap.HeaderMakerLen)

	cart.Lo = newROMView(env, cart, 0x00000000)
	cart.Hi = newROMView(env, cart, 0x01000000)

	saveType := FingerprintSaveType(cart.rom)
	switch saveType {
	case backup.TypeSRAM:
		cart.Backup = backup.NewSRAM(env)
	case backup.TypeFlash512:
		cart.Backup = backup.NewFlash(env, memorymap.SizeFlash512)
	case backup.TypeFlash1M:
		cart.Backup = backup.NewFlash(env, memorymap.SizeFlash1M)
	case backup.TypeEEPROM:
		cart.Backup = backup.NewEEPROM(env, counter)
	}

	logger.Logf(env, "cartridge", "%s", cart.String())

	return cart, nil
}

// headerString reads a fixed-length header field, trimming trailing NULs.
func headerString(rom []byte, offset int, length int) string {
	return strings.TrimRight(string(rom[offset:offset+length]), "\x00")
}

func (cart *Cartridge) String() string {
	return fmt.Sprintf("%s (%s/%s) %s", cart.Title, cart.GameCode, cart.MakerCode, cart.Backup.Type())
}

// ROM returns the raw cartridge image.
func (cart *Cartridge) ROM() []byte {
	return cart.rom
}

// Gpio returns the GPIO back-channel, allocating it on first use.
func (cart *Cartridge) Gpio() *GPIO {
	if cart.gpio == nil {
		cart.gpio = newGPIO(cart.env, cart.rom)
		logger.Log(cart.env, "cartridge", "gpio allocated on first write")
	}
	return cart.gpio
}

// HasGpio returns true if the GPIO back-channel has been allocated.
func (cart *Cartridge) HasGpio() bool {
	return cart.gpio != nil
}
