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

// Package dma implements the four DMA channels. Channels are programmed
// through the I/O register file and serviced either immediately, on the
// vblank/hblank events relayed by the video collaborator, or on the
// peripheral-custom events (the audio FIFOs for channels 1 and 2).
//
// A channel's programmed source, destination and count never change once
// written. Transfer progress lives in the shadow fields, which are
// snapshotted from the programmed values on the leading edge of the enable
// bit.
package dma

import (
	"github.com/jetsetilly/gophergba/environment"
	"github.com/jetsetilly/gophergba/hardware/memory"
	"github.com/jetsetilly/gophergba/hardware/memory/bus"
	"github.com/jetsetilly/gophergba/hardware/memory/memorymap"
	"github.com/jetsetilly/gophergba/logger"
)

// NumChannels is the number of DMA channels.
const NumChannels = 4

// the source/destination address control modes.
const (
	ControlIncrement = iota
	ControlDecrement
	ControlFixed
	ControlIncrementReload
)

// controlOffset is the per-access address step for each control mode, in
// units of the transfer width.
var controlOffset = [4]int32{1, -1, 0, 1}

// Timing is the event that unblocks a programmed transfer.
type Timing int

// The four timing modes.
const (
	TimingNow Timing = iota
	TimingVBlank
	TimingHBlank
	TimingCustom
)

func (t Timing) String() string {
	switch t {
	case TimingNow:
		return "immediate"
	case TimingVBlank:
		return "vblank"
	case TimingHBlank:
		return "hblank"
	case TimingCustom:
		return "custom"
	}
	return "undefined"
}

// Channel is the programmed and in-flight state of one DMA channel.
type Channel struct {
	Source uint32
	Dest   uint32
	Count  uint32

	SrcControl int
	DstControl int
	Repeat     bool
	Width      uint32
	DoIRQ      bool
	Timing     Timing
	Enable     bool

	// the shadow fields describing future work. the visible registers
	// above never change once programmed
	NextSource uint32
	NextDest   uint32
	NextCount  uint32

	// the cycle count at which the completion interrupt is due. zero when
	// no interrupt is pending
	NextIRQ int64
}

// AudioScheduler is the audio collaborator surface consumed by the DMA
// engine: custom-timing transfers on channels 1 and 2 feed the sound FIFOs
// and are paced by the audio unit.
type AudioScheduler interface {
	ScheduleFIFO(ch int)
}

// ControlWriteback is how the engine masks the enable bit out of the
// memory-mapped control register when a non-repeating transfer completes.
// Implemented by the I/O register file.
type ControlWriteback interface {
	ClearDMAEnable(ch int)
}

// DMA is the four-channel DMA engine.
type DMA struct {
	env   *environment.Environment
	mmu   *memory.MMU
	clock bus.Clock

	channels [NumChannels]Channel

	// collaborators, wired by the machine container
	Audio     AudioScheduler
	Writeback ControlWriteback

	// invoked when a channel's completion interrupt falls due
	RaiseInterrupt func(ch int)
}

// NewDMA is the preferred method of initialisation for the DMA type.
func NewDMA(env *environment.Environment, mmu *memory.MMU, clock bus.Clock) *DMA {
	return &DMA{
		env:   env,
		mmu:   mmu,
		clock: clock,
	}
}

// Channel returns the state of a channel. The interrupt collaborator reads
// channel state through this; tests do too.
func (d *DMA) Channel(ch int) *Channel {
	return &d.channels[ch&0x3]
}

// maxCount is the transfer count a zero write to the count register stands
// for.
func maxCount(ch int) uint32 {
	if ch == 3 {
		return 0x10000
	}
	return 0x4000
}

// SetSourceAddress implements the memory.DMAPort interface.
func (d *DMA) SetSourceAddress(ch int, address uint32) {
	d.channels[ch&0x3].Source = address & 0x0fffffff
}

// SetDestAddress implements the memory.DMAPort interface.
func (d *DMA) SetDestAddress(ch int, address uint32) {
	d.channels[ch&0x3].Dest = address & 0x0fffffff
}

// SetWordCount implements the memory.DMAPort interface. A count of zero
// stands for the channel's maximum.
func (d *DMA) SetWordCount(ch int, count uint16) {
	ch &= 0x3
	v := uint32(count) & (maxCount(ch) - 1)
	if v == 0 {
		v = maxCount(ch)
	}
	d.channels[ch].Count = v
}

// WriteControl implements the memory.DMAPort interface. On the leading edge
// of the enable bit the shadow fields are snapshotted and the channel
// scheduled; an immediate-timing channel is serviced before WriteControl
// returns. The returned value, with the enable bit reflecting any completed
// transfer, is what the register file presents on subsequent reads.
func (d *DMA) WriteControl(ch int, value uint16) uint16 {
	ch &= 0x3
	c := &d.channels[ch]

	c.DstControl = int(value>>5) & 0x3
	c.SrcControl = int(value>>7) & 0x3
	c.Repeat = value&0x0200 == 0x0200
	if value&0x0400 == 0x0400 {
		c.Width = 4
	} else {
		c.Width = 2
	}
	c.Timing = Timing(value>>12) & 0x3
	c.DoIRQ = value&0x4000 == 0x4000

	wasEnabled := c.Enable
	c.Enable = value&0x8000 == 0x8000

	if c.Enable && !wasEnabled {
		c.NextSource = c.Source
		c.NextDest = c.Dest
		c.NextCount = c.Count
		d.schedule(ch)
	}

	if !c.Enable {
		value &= ^uint16(0x8000)
	}

	return value
}

// schedule dispatches a freshly enabled channel according to its timing.
func (d *DMA) schedule(ch int) {
	c := &d.channels[ch]

	switch c.Timing {
	case TimingNow:
		d.Service(ch)

	case TimingVBlank, TimingHBlank:
		// serviced when the video collaborator signals the event

	case TimingCustom:
		switch ch {
		case 0:
			logger.Log(d.env, "dma", "custom timing is invalid for channel 0")
		case 1, 2:
			if d.Audio == nil {
				logger.Logf(d.env, "dma", "fifo dma on channel %d with no audio attached", ch)
				return
			}
			d.Audio.ScheduleFIFO(ch)
		case 3:
			logger.Log(d.env, "dma", "video capture dma is not implemented")
		}
	}
}

// RunVblank services every enabled channel waiting on the vblank event.
// Called by the video collaborator before the CPU resumes.
func (d *DMA) RunVblank() {
	for ch := range d.channels {
		if d.channels[ch].Enable && d.channels[ch].Timing == TimingVBlank {
			d.Service(ch)
		}
	}
}

// RunHblank services every enabled channel waiting on the hblank event.
func (d *DMA) RunHblank() {
	for ch := range d.channels {
		if d.channels[ch].Enable && d.channels[ch].Timing == TimingHBlank {
			d.Service(ch)
		}
	}
}

// Service performs a channel's transfer. The transfer is atomic from the
// CPU's point of view: shadow state advances, the completion interrupt is
// timed, and repeat/enable bookkeeping runs before control returns.
func (d *DMA) Service(ch int) {
	ch &= 0x3
	c := &d.channels[ch]

	if !c.Enable {
		return
	}

	width := c.Width
	srcStep := uint32(controlOffset[c.SrcControl] * int32(width))
	dstStep := uint32(controlOffset[c.DstControl] * int32(width))

	// addresses are aligned to the transfer width for the duration
	source := c.NextSource & ^(width - 1)
	dest := c.NextDest & ^(width - 1)
	count := c.NextCount

	srcRegion := memorymap.RegionIdx(source)
	dstRegion := memorymap.RegionIdx(dest)

	if d.transferable(ch, srcRegion) && d.transferable(ch, dstRegion) {
		// any instruction page in the destination range goes stale now
		d.mmu.InvalidateRange(dest, count*width)

		d.transfer(source, dest, srcStep, dstStep, width, count,
			memorymap.Region(srcRegion), memorymap.Region(dstRegion))
	}

	// shadow fields describe the next piece of work even when the transfer
	// itself was skipped
	source += srcStep * count
	dest += dstStep * count

	c.NextSource = source
	c.NextDest = dest
	c.NextCount = 0

	if c.DoIRQ {
		w := d.mmu.Wait
		c.NextIRQ = d.clock.Cycles() + 2
		c.NextIRQ += w.NonSequential(srcRegion, width) + w.NonSequential(dstRegion, width)
		c.NextIRQ += int64(count-1) * (w.Sequential(srcRegion, width) + w.Sequential(dstRegion, width))
	}

	if c.Repeat {
		c.NextCount = c.Count
		if c.DstControl == ControlIncrementReload {
			c.NextDest = c.Dest
		}

		// a repeating fifo transfer stays with the audio unit
		if c.Timing == TimingCustom && (ch == 1 || ch == 2) && d.Audio != nil {
			d.Audio.ScheduleFIFO(ch)
		}
	} else {
		c.Enable = false
		if d.Writeback != nil {
			d.Writeback.ClearDMAEnable(ch)
		}
	}
}

// transferable checks that a region can take part in a transfer. A slot
// holding open-bus skips the transfer but not the bookkeeping.
func (d *DMA) transferable(ch int, region uint32) bool {
	if region >= memorymap.NumRegions || !d.mmu.Mapped(memorymap.Region(region)) {
		logger.Logf(d.env, "dma", "channel %d references unmapped region %#x, transfer skipped", ch, region)
		return false
	}
	return true
}

// transfer moves count accesses of the given width. Plain RAM on both sides
// is copied view to view; plain RAM on the source side only is read from
// the view and stored through the bus; anything else goes through the bus
// on both sides.
func (d *DMA) transfer(source, dest, srcStep, dstStep, width, count uint32, srcRegion, dstRegion memorymap.Region) {
	srcBlk, srcRAM := d.mmu.Region(srcRegion).(*memory.MemoryBlock)
	dstBlk, dstRAM := d.mmu.Region(dstRegion).(*memory.MemoryBlock)

	switch {
	case srcRAM && dstRAM:
		sv := srcBlk.View()
		dv := dstBlk.View()
		sm := uint32(len(sv) - 1)
		dm := uint32(len(dv) - 1)
		for i := uint32(0); i < count; i++ {
			copy(dv[dest&dm&^(width-1):][:width], sv[source&sm&^(width-1):][:width])
			source += srcStep
			dest += dstStep
		}

	case srcRAM:
		sv := srcBlk.View()
		sm := uint32(len(sv) - 1)
		for i := uint32(0); i < count; i++ {
			o := source & sm & ^(width - 1)
			if width == 4 {
				v := uint32(sv[o]) | uint32(sv[o+1])<<8 | uint32(sv[o+2])<<16 | uint32(sv[o+3])<<24
				d.mmu.Store32(dest, v)
			} else {
				d.mmu.Store16(dest, uint16(sv[o])|uint16(sv[o+1])<<8)
			}
			source += srcStep
			dest += dstStep
		}

	default:
		for i := uint32(0); i < count; i++ {
			if width == 4 {
				d.mmu.Store32(dest, d.mmu.Load32(source))
			} else {
				d.mmu.Store16(dest, d.mmu.LoadU16(source))
			}
			source += srcStep
			dest += dstStep
		}
	}
}

// ServiceIRQs fires the completion interrupt for any channel whose delivery
// time has been reached. The interrupt collaborator calls this on every
// step.
func (d *DMA) ServiceIRQs() {
	now := d.clock.Cycles()
	for ch := range d.channels {
		c := &d.channels[ch]
		if c.NextIRQ != 0 && now >= c.NextIRQ {
			c.NextIRQ = 0
			if d.RaiseInterrupt != nil {
				d.RaiseInterrupt(ch)
			}
		}
	}
}
