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

package backup

import (
	"encoding/binary"
	"math/bits"

	"github.com/jetsetilly/gophergba/environment"
)

const sramSize = 0x8000

// SRAM is the battery-backed 32KiB save memory. Byte granular with no
// command protocol: every store raises the pending flag.
type SRAM struct {
	env *environment.Environment

	data    []byte
	mask    uint32
	pending bool
}

// NewSRAM is the preferred method of initialisation for the SRAM type.
func NewSRAM(env *environment.Environment) *SRAM {
	return &SRAM{
		env:  env,
		data: make([]byte, sramSize),
		mask: sramSize - 1,
	}
}

// Type implements the Backup interface.
func (s *SRAM) Type() Type {
	return TypeSRAM
}

// Pending implements the Backup interface.
func (s *SRAM) Pending() bool {
	return s.pending
}

// ClearPending implements the Backup interface.
func (s *SRAM) ClearPending() {
	s.pending = false
}

// View implements the Backup interface.
func (s *SRAM) View() []byte {
	return s.data
}

// Load8 implements the bus.Region interface.
func (s *SRAM) Load8(offset uint32) int8 {
	return int8(s.data[offset&s.mask])
}

// Load16 implements the bus.Region interface.
func (s *SRAM) Load16(offset uint32) int16 {
	return int16(s.LoadU16(offset))
}

// Load32 implements the bus.Region interface.
func (s *SRAM) Load32(offset uint32) uint32 {
	v := binary.LittleEndian.Uint32(s.data[offset&s.mask&^uint32(0x3):])
	return bits.RotateLeft32(v, -int(offset&0x3)*8)
}

// LoadU8 implements the bus.Region interface.
func (s *SRAM) LoadU8(offset uint32) uint8 {
	return s.data[offset&s.mask]
}

// LoadU16 implements the bus.Region interface.
func (s *SRAM) LoadU16(offset uint32) uint16 {
	offset &= s.mask
	return uint16(s.data[offset]) | uint16(s.data[(offset+1)&s.mask])<<8
}

// Store8 implements the bus.Region interface.
func (s *SRAM) Store8(offset uint32, value uint8) {
	s.data[offset&s.mask] = value
	s.pending = true
}

// Store16 implements the bus.Region interface.
func (s *SRAM) Store16(offset uint32, value uint16) {
	binary.LittleEndian.PutUint16(s.data[offset&s.mask&^uint32(0x1):], value)
	s.pending = true
}

// Store32 implements the bus.Region interface.
func (s *SRAM) Store32(offset uint32, value uint32) {
	binary.LittleEndian.PutUint32(s.data[offset&s.mask&^uint32(0x3):], value)
	s.pending = true
}

// InvalidatePage implements the bus.Region interface. Save memory never
// holds instructions.
func (s *SRAM) InvalidatePage(offset uint32) {
}

// ReplaceData implements the bus.Region interface. Used when loading save
// data from the save-game store.
func (s *SRAM) ReplaceData(data []byte) {
	copy(s.data, data)
	for i := len(data); i < len(s.data); i++ {
		s.data[i] = 0x00
	}
	s.pending = false
}
