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
	"github.com/jetsetilly/gophergba/environment"
	"github.com/jetsetilly/gophergba/hardware/memory/bus"
)

// OpenBus is the sentinel region occupying every unmapped slot in the memory
// map. Reads return what the data bus last carried, which for the ARM7TDMI
// is the most recently prefetched instruction: the word (or halfword, in
// Thumb state) immediately preceding the current PC. Writes disappear.
//
// The region needs sight of the CPU execution state and a way back into the
// bus to fetch the prefetched value. Both are capabilities fixed at
// construction (the only back-edge to the CPU in the memory subsystem).
type OpenBus struct {
	env *environment.Environment

	mmu  *MMU
	exec bus.Execution
}

// NewOpenBus is the preferred method of initialisation for the OpenBus type.
func NewOpenBus(env *environment.Environment, mmu *MMU, exec bus.Execution) *OpenBus {
	return &OpenBus{
		env:  env,
		mmu:  mmu,
		exec: exec,
	}
}

// prefetch is the address of the most recently prefetched instruction.
func (ob *OpenBus) prefetch() uint32 {
	return ob.exec.PC() - ob.exec.InstructionWidth()
}

// Load8 implements the bus.Region interface.
func (ob *OpenBus) Load8(offset uint32) int8 {
	return ob.mmu.Load8(ob.prefetch() + (offset & 0x3))
}

// Load16 implements the bus.Region interface.
func (ob *OpenBus) Load16(offset uint32) int16 {
	return ob.mmu.Load16(ob.prefetch() + (offset & 0x2))
}

// Load32 implements the bus.Region interface. In Thumb state the prefetched
// halfword appears on both halves of the bus.
func (ob *OpenBus) Load32(offset uint32) uint32 {
	if ob.exec.ExecMode() == bus.ExecModeARM {
		return ob.mmu.Load32(ob.prefetch())
	}

	h := uint32(ob.mmu.LoadU16(ob.prefetch()))
	return h | h<<16
}

// LoadU8 implements the bus.Region interface.
func (ob *OpenBus) LoadU8(offset uint32) uint8 {
	return ob.mmu.LoadU8(ob.prefetch() + (offset & 0x3))
}

// LoadU16 implements the bus.Region interface.
func (ob *OpenBus) LoadU16(offset uint32) uint16 {
	return ob.mmu.LoadU16(ob.prefetch() + (offset & 0x2))
}

// Store8 implements the bus.Region interface. Writes to bad memory are
// discarded.
func (ob *OpenBus) Store8(offset uint32, value uint8) {
}

// Store16 implements the bus.Region interface.
func (ob *OpenBus) Store16(offset uint32, value uint16) {
}

// Store32 implements the bus.Region interface.
func (ob *OpenBus) Store32(offset uint32, value uint32) {
}

// InvalidatePage implements the bus.Region interface.
func (ob *OpenBus) InvalidatePage(offset uint32) {
}

// ReplaceData implements the bus.Region interface.
func (ob *OpenBus) ReplaceData(data []byte) {
}
