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

	"github.com/jetsetilly/gophergba/curated"
	"github.com/jetsetilly/gophergba/environment"
	"github.com/jetsetilly/gophergba/hardware/memory"
	"github.com/jetsetilly/gophergba/hardware/memory/bus"
	"github.com/jetsetilly/gophergba/hardware/memory/memorymap"
	"github.com/jetsetilly/gophergba/test"
)

// mockCPU provides the clock and execution capabilities the memory
// subsystem needs from the processor.
type mockCPU struct {
	cycles int64
	pc     uint32
	width  uint32
	mode   bus.ExecMode
}

func (c *mockCPU) Cycles() int64 {
	return c.cycles
}

func (c *mockCPU) Stall(cycles int64) {
	c.cycles += cycles
}

func (c *mockCPU) PC() uint32 {
	return c.pc
}

func (c *mockCPU) InstructionWidth() uint32 {
	return c.width
}

func (c *mockCPU) ExecMode() bus.ExecMode {
	return c.mode
}

func newTestMMU() (*memory.MMU, *mockCPU) {
	cpu := &mockCPU{pc: 0x02000100, width: 4, mode: bus.ExecModeARM}
	env := environment.NewEnvironment(environment.MainEmulation)
	return memory.NewMMU(env, cpu), cpu
}

func TestRegionMasking(t *testing.T) {
	mmu, _ := newTestMMU()

	mmu.Store8(memorymap.BaseWorkingRAM+0x10, 0xab)

	// the working RAM is 256KiB. accesses wrap at the region boundary
	test.Equate(t, mmu.LoadU8(memorymap.BaseWorkingRAM+0x10), 0xab)
	test.Equate(t, mmu.LoadU8(memorymap.BaseWorkingRAM+memorymap.SizeWorkingRAM+0x10), 0xab)
	test.Equate(t, mmu.Load8(memorymap.BaseWorkingRAM+0x10), int8(-0x55))
}

func TestRotatedRead(t *testing.T) {
	mmu, _ := newTestMMU()

	mmu.Store32(memorymap.BaseWorkingIRAM+0x20, 0x11223344)

	test.Equate(t, mmu.Load32(memorymap.BaseWorkingIRAM+0x20), 0x11223344)
	test.Equate(t, mmu.Load32(memorymap.BaseWorkingIRAM+0x21), 0x44112233)
	test.Equate(t, mmu.Load32(memorymap.BaseWorkingIRAM+0x22), 0x33441122)
	test.Equate(t, mmu.Load32(memorymap.BaseWorkingIRAM+0x23), 0x22334411)
}

func TestUnalignedStoreMasked(t *testing.T) {
	mmu, _ := newTestMMU()

	// the decoder aligns stores to the access width
	mmu.Store16(memorymap.BaseWorkingRAM+0x41, 0xbeef)
	test.Equate(t, mmu.LoadU16(memorymap.BaseWorkingRAM+0x40), 0xbeef)

	mmu.Store32(memorymap.BaseWorkingRAM+0x82, 0xcafef00d)
	test.Equate(t, mmu.Load32(memorymap.BaseWorkingRAM+0x80), 0xcafef00d)
}

func TestSignedLoads(t *testing.T) {
	mmu, _ := newTestMMU()

	mmu.Store16(memorymap.BaseWorkingRAM, 0x8000)
	test.Equate(t, mmu.Load16(memorymap.BaseWorkingRAM), int16(-0x8000))
	test.Equate(t, mmu.LoadU16(memorymap.BaseWorkingRAM), 0x8000)
}

func TestIcacheInvalidatedOnStore(t *testing.T) {
	mmu, _ := newTestMMU()

	page, err := mmu.AccessPage(memorymap.RegionWorkingRAM, 0)
	test.ExpectedSuccess(t, err)
	test.Equate(t, page.Invalid, false)

	mmu.Store8(memorymap.BaseWorkingRAM+0x04, 0x01)
	test.Equate(t, page.Invalid, true)

	// a 32bit store invalidates the page holding the written word and
	// leaves the neighbouring page alone
	pageSize := uint32(1) << memorymap.PageBitsWorkingRAM
	p0, err := mmu.AccessPage(memorymap.RegionWorkingRAM, 0)
	test.ExpectedSuccess(t, err)
	p1, err := mmu.AccessPage(memorymap.RegionWorkingRAM, 1)
	test.ExpectedSuccess(t, err)

	mmu.Store32(memorymap.BaseWorkingRAM+pageSize-4, 0xffffffff)
	test.Equate(t, p0.Invalid, true)
	test.Equate(t, p1.Invalid, false)

	mmu.Store32(memorymap.BaseWorkingRAM+pageSize, 0xffffffff)
	test.Equate(t, p1.Invalid, true)
}

func TestIcacheUnavailable(t *testing.T) {
	mmu, _ := newTestMMU()

	_, err := mmu.AccessPage(memorymap.RegionIO, 0)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Has(err, memory.IcacheUnavailable))
}

func TestBIOSOutOfBounds(t *testing.T) {
	mmu, _ := newTestMMU()

	bios := make([]byte, 0x100)
	bios[0x00] = 0x12
	test.ExpectedSuccess(t, mmu.LoadBIOS(bios))

	test.Equate(t, mmu.LoadU8(memorymap.BaseBIOS), 0x12)

	// out-of-bounds BIOS reads return all bits set rather than wrapping
	test.Equate(t, mmu.Load8(memorymap.BaseBIOS+0x100), int8(-1))
	test.Equate(t, mmu.Load16(memorymap.BaseBIOS+0x100), int16(-1))
	test.Equate(t, mmu.LoadU8(memorymap.BaseBIOS+0x100), 0xff)
	test.Equate(t, mmu.LoadU16(memorymap.BaseBIOS+0x100), 0xffff)
	test.Equate(t, mmu.Load32(memorymap.BaseBIOS+0x100), 0xffffffff)
}

func TestBIOSReadOnly(t *testing.T) {
	mmu, _ := newTestMMU()

	test.ExpectedSuccess(t, mmu.LoadBIOS(make([]byte, 0x100)))
	mmu.Store8(memorymap.BaseBIOS, 0xff)
	test.Equate(t, mmu.LoadU8(memorymap.BaseBIOS), 0x00)
}

func TestOpenBusThumb(t *testing.T) {
	mmu, cpu := newTestMMU()

	cpu.mode = bus.ExecModeThumb
	cpu.width = 2
	cpu.pc = 0x02000100

	// the halfword preceding the PC is what the bus last carried
	mmu.Store16(0x020000fe, 0xabcd)

	test.Equate(t, mmu.Load32(0x10000000), 0xabcdabcd)
	test.Equate(t, mmu.LoadU16(0x10000000), 0xabcd)
	test.Equate(t, mmu.LoadU8(0x10000000), 0xcd)
}

func TestOpenBusARM(t *testing.T) {
	mmu, cpu := newTestMMU()

	cpu.mode = bus.ExecModeARM
	cpu.width = 4
	cpu.pc = 0x02000100

	mmu.Store32(0x020000fc, 0xdeadbeef)

	// unmapped slots inside the map and addresses beyond it both read the
	// prefetched word
	test.Equate(t, mmu.Load32(0x01000000), 0xdeadbeef)
	test.Equate(t, mmu.Load32(0x10000000), 0xdeadbeef)
}

func TestOpenBusWriteIgnored(t *testing.T) {
	mmu, cpu := newTestMMU()

	cpu.pc = 0x02000100
	mmu.Store32(0x020000fc, 0xdeadbeef)

	mmu.Store32(0x10000000, 0x12345678)
	test.Equate(t, mmu.Load32(0x10000000), 0xdeadbeef)
}

func TestWaitcntRecompute(t *testing.T) {
	mmu, _ := newTestMMU()

	// prefetch on, ws0 nonseq 1 (3 cycles), ws0 seq 1 (1 cycle)
	mmu.Wait.AdjustTimings(0x4014)

	test.Equate(t, mmu.Wait.NonSequential(uint32(memorymap.RegionCart0), 2), int64(3))
	test.Equate(t, mmu.Wait.NonSequential(uint32(memorymap.RegionCart0Hi), 2), int64(3))
	test.Equate(t, mmu.Wait.Sequential(uint32(memorymap.RegionCart0), 2), int64(1))
	test.Equate(t, mmu.Wait.NonSequential(uint32(memorymap.RegionCart0), 4), int64(5))
	test.Equate(t, mmu.Wait.Prefetch(uint32(memorymap.RegionCart0), 2), int64(0))
}

func TestWaitcntPrefetchDisabled(t *testing.T) {
	mmu, _ := newTestMMU()

	mmu.Wait.AdjustTimings(0x0014)

	// with prefetch disabled the prefetch vectors equal the sequential
	// vectors for every cartridge window
	for slot := memorymap.RegionCart0; slot <= memorymap.RegionCart2Hi; slot++ {
		test.Equate(t, mmu.Wait.Prefetch(uint32(slot), 2), mmu.Wait.Sequential(uint32(slot), 2))
		test.Equate(t, mmu.Wait.Prefetch(uint32(slot), 4), mmu.Wait.Sequential(uint32(slot), 4))
	}
}

func TestWaitCharges(t *testing.T) {
	mmu, cpu := newTestMMU()

	// working RAM carries two wait states at 16bit and five at 32bit
	start := cpu.cycles
	mmu.Wait.Wait(uint32(memorymap.RegionWorkingRAM))
	test.Equate(t, cpu.cycles-start, int64(3))

	start = cpu.cycles
	mmu.Wait.Wait32(uint32(memorymap.RegionWorkingRAM))
	test.Equate(t, cpu.cycles-start, int64(6))

	// on-chip RAM is zero wait state
	start = cpu.cycles
	mmu.Wait.WaitSeq32(uint32(memorymap.RegionWorkingIRAM))
	test.Equate(t, cpu.cycles-start, int64(1))
}

func TestWaitMul(t *testing.T) {
	mmu, cpu := newTestMMU()

	charge := func(rs uint32) int64 {
		start := cpu.cycles
		mmu.Wait.WaitMul(rs)
		return cpu.cycles - start
	}

	test.Equate(t, charge(0x00000005), int64(1))
	test.Equate(t, charge(0xffffffff), int64(1))
	test.Equate(t, charge(0x00005678), int64(2))
	test.Equate(t, charge(0xffff8765), int64(2))
	test.Equate(t, charge(0x00012345), int64(3))
	test.Equate(t, charge(0x12345678), int64(4))
}

func TestWaitMulti32(t *testing.T) {
	mmu, cpu := newTestMMU()

	// one non-sequential access plus n-1 sequential accesses
	start := cpu.cycles
	mmu.Wait.WaitMulti32(uint32(memorymap.RegionWorkingRAM), 4)
	test.Equate(t, cpu.cycles-start, int64(6+3*6))
}
