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
	"github.com/jetsetilly/gophergba/hardware/memory/memorymap"
)

// the ROM wait-state constants indexed by the WAITCNT field values.
// romWaitstatesSeq is indexed by cartridge window and then by the single
// sequential-select bit.
var romWaitstates = [4]int64{4, 3, 2, 8}
var romWaitstatesSeq = [3][2]int64{{2, 1}, {4, 1}, {8, 1}}

// fixed wait states for the on-board regions. on-board working RAM sits on a
// 16bit bus with two wait states per access; palette and VRAM are 16bit with
// no wait states, so only 32bit accesses pay an extra cycle.
var baseWaitstates = [memorymap.NumRegions]int64{0, 0, 2, 0, 0, 0, 0, 0}
var baseWaitstates32 = [memorymap.NumRegions]int64{0, 0, 5, 0, 0, 1, 1, 0}

// Waitstates is the per-region cycle penalty table. The CPU charges itself
// through the Wait* functions on every access; the DMA engine reads the raw
// vectors when computing interrupt delivery times.
//
// The six vectors are recomputed in full whenever the WAITCNT register is
// written.
type Waitstates struct {
	env   *environment.Environment
	clock bus.Clock

	waitstates           [memorymap.NumRegions]int64
	waitstates32         [memorymap.NumRegions]int64
	waitstatesSeq        [memorymap.NumRegions]int64
	waitstatesSeq32      [memorymap.NumRegions]int64
	waitstatesPrefetch   [memorymap.NumRegions]int64
	waitstatesPrefetch32 [memorymap.NumRegions]int64
}

// NewWaitstates is the preferred method of initialisation for the Waitstates
// type. Initial timings are those of a zero WAITCNT register.
func NewWaitstates(env *environment.Environment, clock bus.Clock) *Waitstates {
	ws := &Waitstates{
		env:   env,
		clock: clock,
	}
	ws.AdjustTimings(0x0000)
	return ws
}

// AdjustTimings decodes a 16bit WAITCNT value and recomputes all six
// wait-state vectors.
func (ws *Waitstates) AdjustTimings(word uint16) {
	ws.waitstates = baseWaitstates
	ws.waitstates32 = baseWaitstates32
	ws.waitstatesSeq = baseWaitstates
	ws.waitstatesSeq32 = baseWaitstates32

	// the SRAM slot sits on an 8bit bus. every access width and ordering
	// pays the same penalty
	sram := romWaitstates[word&0x3]
	ws.waitstates[memorymap.RegionSRAM] = sram
	ws.waitstates32[memorymap.RegionSRAM] = sram
	ws.waitstatesSeq[memorymap.RegionSRAM] = sram
	ws.waitstatesSeq32[memorymap.RegionSRAM] = sram

	// the three cartridge windows. each window covers two adjacent slots
	window := [3]struct {
		nonseq int64
		seq    int64
	}{
		{romWaitstates[(word>>2)&0x3], romWaitstatesSeq[0][(word>>4)&0x1]},
		{romWaitstates[(word>>5)&0x3], romWaitstatesSeq[1][(word>>7)&0x1]},
		{romWaitstates[(word>>8)&0x3], romWaitstatesSeq[2][(word>>10)&0x1]},
	}

	for w := 0; w < 3; w++ {
		for _, slot := range []memorymap.Region{
			memorymap.RegionCart0 + memorymap.Region(w*2),
			memorymap.RegionCart0Hi + memorymap.Region(w*2),
		} {
			ws.waitstates[slot] = window[w].nonseq
			ws.waitstatesSeq[slot] = window[w].seq

			// a 32bit access is two 16bit accesses on the cartridge bus: a
			// non-sequential one followed by a sequential one
			ws.waitstates32[slot] = window[w].nonseq + 1 + window[w].seq
			ws.waitstatesSeq32[slot] = window[w].seq*2 + 1
		}
	}

	// the prefetch vectors equal the sequential vectors when prefetch is
	// disabled and are zero when enabled
	if word&0x4000 == 0x4000 {
		ws.waitstatesPrefetch = baseWaitstates
		ws.waitstatesPrefetch32 = baseWaitstates32
		for slot := memorymap.RegionCart0; slot <= memorymap.RegionCart2Hi; slot++ {
			ws.waitstatesPrefetch[slot] = 0
			ws.waitstatesPrefetch32[slot] = 0
		}
	} else {
		ws.waitstatesPrefetch = ws.waitstatesSeq
		ws.waitstatesPrefetch32 = ws.waitstatesSeq32
	}
}

// Wait charges the CPU for a non-sequential 8/16bit access.
func (ws *Waitstates) Wait(region uint32) {
	ws.clock.Stall(1 + ws.waitstates[region&0xf])
}

// Wait32 charges the CPU for a non-sequential 32bit access.
func (ws *Waitstates) Wait32(region uint32) {
	ws.clock.Stall(1 + ws.waitstates32[region&0xf])
}

// WaitSeq charges the CPU for a sequential 8/16bit access.
func (ws *Waitstates) WaitSeq(region uint32) {
	ws.clock.Stall(1 + ws.waitstatesSeq[region&0xf])
}

// WaitSeq32 charges the CPU for a sequential 32bit access.
func (ws *Waitstates) WaitSeq32(region uint32) {
	ws.clock.Stall(1 + ws.waitstatesSeq32[region&0xf])
}

// WaitPrefetch charges the CPU for a 16bit instruction fetch through the
// prefetch buffer.
func (ws *Waitstates) WaitPrefetch(region uint32) {
	ws.clock.Stall(1 + ws.waitstatesPrefetch[region&0xf])
}

// WaitPrefetch32 charges the CPU for a 32bit instruction fetch through the
// prefetch buffer.
func (ws *Waitstates) WaitPrefetch32(region uint32) {
	ws.clock.Stall(1 + ws.waitstatesPrefetch32[region&0xf])
}

// WaitMul charges the CPU for a multiply. The ARM7TDMI multiplier early
// terminates: cost is decided by the position of the most significant byte
// of the multiplier that is not a sign extension.
func (ws *Waitstates) WaitMul(rs uint32) {
	switch {
	case rs&0xffffff00 == 0x00000000 || rs&0xffffff00 == 0xffffff00:
		ws.clock.Stall(1)
	case rs&0xffff0000 == 0x00000000 || rs&0xffff0000 == 0xffff0000:
		ws.clock.Stall(2)
	case rs&0xff000000 == 0x00000000 || rs&0xff000000 == 0xff000000:
		ws.clock.Stall(3)
	default:
		ws.clock.Stall(4)
	}
}

// WaitMulti32 charges the CPU for a multi-register 32bit transfer: one
// non-sequential access followed by n-1 sequential accesses.
func (ws *Waitstates) WaitMulti32(region uint32, n int) {
	region &= 0xf
	ws.clock.Stall(1 + ws.waitstates32[region])
	if n > 1 {
		ws.clock.Stall(int64(n-1) * (1 + ws.waitstatesSeq32[region]))
	}
}

// NonSequential returns the raw non-sequential penalty for a region at the
// given access width (2 or 4 bytes).
func (ws *Waitstates) NonSequential(region uint32, width uint32) int64 {
	if width == 4 {
		return ws.waitstates32[region&0xf]
	}
	return ws.waitstates[region&0xf]
}

// Sequential returns the raw sequential penalty for a region at the given
// access width (2 or 4 bytes).
func (ws *Waitstates) Sequential(region uint32, width uint32) int64 {
	if width == 4 {
		return ws.waitstatesSeq32[region&0xf]
	}
	return ws.waitstatesSeq[region&0xf]
}

// Prefetch returns the raw prefetch penalty for a region at the given access
// width (2 or 4 bytes).
func (ws *Waitstates) Prefetch(region uint32, width uint32) int64 {
	if width == 4 {
		return ws.waitstatesPrefetch32[region&0xf]
	}
	return ws.waitstatesPrefetch[region&0xf]
}
