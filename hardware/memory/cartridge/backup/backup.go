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

// Package backup implements the three kinds of cartridge-resident save
// memory: battery SRAM, Flash behind the commodity command protocol, and
// the serial EEPROM addressed one bit at a time through DMA channel 3.
//
// All three are ordinary bus regions. Whatever the variant, a write that
// changes the save data raises the pending flag; the machine container
// observes the flag at frame boundaries and flushes to the save-game store.
package backup

import (
	"github.com/jetsetilly/gophergba/hardware/memory/bus"
)

// Type identifies the backup variant a cartridge carries.
type Type int

// The backup variants.
const (
	TypeSRAM Type = iota
	TypeFlash512
	TypeFlash1M
	TypeEEPROM
)

func (t Type) String() string {
	switch t {
	case TypeSRAM:
		return "SRAM"
	case TypeFlash512:
		return "Flash 64k"
	case TypeFlash1M:
		return "Flash 128k"
	case TypeEEPROM:
		return "EEPROM"
	}
	return "undefined"
}

// Backup is the contract shared by the three save-memory variants.
type Backup interface {
	bus.Region

	Type() Type

	// Pending returns true if save data has changed since the last call to
	// ClearPending()
	Pending() bool
	ClearPending()

	// View returns the raw save data, for flushing to the save-game store.
	// The buffer is owned by the backup
	View() []byte
}

// DMACounter is the capability to observe the programmed length of the
// current DMA3 transfer. The EEPROM infers its bus width from the length of
// the first transfer it sees.
type DMACounter interface {
	TransferSize() uint32
}
