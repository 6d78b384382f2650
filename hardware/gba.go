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

package hardware

import (
	"encoding/base64"

	"github.com/jetsetilly/gophergba/curated"
	"github.com/jetsetilly/gophergba/environment"
	"github.com/jetsetilly/gophergba/hardware/dma"
	"github.com/jetsetilly/gophergba/hardware/memory"
	"github.com/jetsetilly/gophergba/hardware/memory/bus"
	"github.com/jetsetilly/gophergba/hardware/memory/cartridge"
	"github.com/jetsetilly/gophergba/hardware/memory/memorymap"
	"github.com/jetsetilly/gophergba/logger"
)

// CPU is the contract with the processor collaborator. The core drives the
// processor one instruction at a time and reads its execution state for
// open-bus synthesis and for pacing the DMA interrupts.
type CPU interface {
	bus.CPU

	// Step executes one instruction, charging the cycle counter through the
	// wait-state table as it accesses memory
	Step()
}

// Video is the contract with the video collaborator. The collaborator owns
// the palette, VRAM and OAM buffers and installs them into the bus itself;
// it signals vblank/hblank DMAs by calling into the DMA engine.
type Video interface {
	// SeenFrame reports whether a full frame has been produced since the
	// last call to ResetFrame
	SeenFrame() bool
	ResetFrame()
}

// Audio is the contract with the audio collaborator: it consumes FIFO
// writes arriving over the bus and paces the FIFO DMA channels.
type Audio interface {
	memory.AudioWriter
	dma.AudioScheduler
}

// SaveStore is the key/value surface save data is flushed to at frame
// boundaries. The wire form of the data is base64 of the raw backup bytes.
type SaveStore interface {
	Save(code string, data string) error
	Load(code string) (string, bool)
}

// GBA is the machine container: the memory subsystem and DMA engine wired
// to each other and to the collaborators.
type GBA struct {
	env *environment.Environment

	CPU CPU
	Mem *memory.MMU
	IO  *memory.RegisterFile
	DMA *dma.DMA

	Video Video
	Audio Audio
	Saves SaveStore

	// save flush state: the pending flag must be seen stable across a full
	// frame before the backup is flushed
	savePending bool
}

// NewGBA is the preferred method of initialisation for the GBA type. The
// processor is the only collaborator that must be present at construction;
// the others are attached afterwards.
func NewGBA(env *environment.Environment, cpu CPU) *GBA {
	gba := &GBA{
		env: env,
		CPU: cpu,
	}

	gba.Mem = memory.NewMMU(env, cpu)
	gba.IO = memory.NewRegisterFile(env, gba.Mem)
	gba.Mem.Map(memorymap.RegionIO, gba.IO)

	gba.DMA = dma.NewDMA(env, gba.Mem, cpu)
	gba.IO.DMA = gba.DMA
	gba.DMA.Writeback = gba.IO

	return gba
}

// AttachVideo attaches the video collaborator.
func (gba *GBA) AttachVideo(v Video) {
	gba.Video = v
}

// AttachAudio attaches the audio collaborator and routes FIFO traffic to
// it.
func (gba *GBA) AttachAudio(a Audio) {
	gba.Audio = a
	gba.IO.Audio = a
	gba.DMA.Audio = a
}

// AttachSaveStore attaches the save-game store.
func (gba *GBA) AttachSaveStore(s SaveStore) {
	gba.Saves = s
}

// SetHalt sets the hook invoked when the guest writes a halt request to
// HALTCNT. The hook belongs to the interrupt collaborator.
func (gba *GBA) SetHalt(halt func()) {
	gba.IO.Halt = halt
}

// LoadBIOS installs a BIOS image. Without one the BIOS slot reads as open
// bus.
func (gba *GBA) LoadBIOS(data []byte) error {
	return gba.Mem.LoadBIOS(data)
}

// dma3Counter adapts the DMA engine to the capability the EEPROM backup
// needs for size inference.
type dma3Counter struct {
	dma *dma.DMA
}

func (c dma3Counter) TransferSize() uint32 {
	return c.dma.Channel(3).Count
}

// AttachCartridge validates and attaches a cartridge image. On failure the
// machine is left untouched. Save data previously flushed for the same game
// code is loaded back into the backup.
func (gba *GBA) AttachCartridge(data []byte) error {
	cart, err := cartridge.NewCartridge(gba.env, data, dma3Counter{dma: gba.DMA})
	if err != nil {
		return err
	}

	gba.Mem.AttachCartridge(cart)
	gba.savePending = false

	if gba.Saves != nil {
		if enc, ok := gba.Saves.Load(cart.GameCode); ok {
			raw, err := base64.StdEncoding.DecodeString(enc)
			if err != nil {
				logger.Logf(gba.env, "gba", "stored save data for %s is corrupt: %v", cart.GameCode, err)
			} else {
				cart.Backup.ReplaceData(raw)
				logger.Logf(gba.env, "gba", "save data loaded for %s", cart.GameCode)
			}
		}
	}

	return nil
}

// AdvanceFrame runs the machine until the video collaborator has produced a
// frame. Called by the host once per display refresh.
func (gba *GBA) AdvanceFrame() error {
	if gba.Video == nil {
		return curated.Errorf("gba: %v", "advancing a frame with no video attached")
	}

	for !gba.Video.SeenFrame() {
		gba.CPU.Step()
		gba.DMA.ServiceIRQs()
	}
	gba.Video.ResetFrame()

	gba.flushSave()

	return nil
}

// flushSave writes the backup to the save store when the pending flag has
// been stable for a full frame. Writing mid-burst would flush a half
// written save file.
func (gba *GBA) flushSave() {
	cart := gba.Mem.Cart
	if cart == nil || gba.Saves == nil {
		return
	}

	if !cart.Backup.Pending() {
		gba.savePending = false
		return
	}

	if !gba.savePending {
		gba.savePending = true
		return
	}

	err := gba.Saves.Save(cart.GameCode, base64.StdEncoding.EncodeToString(cart.Backup.View()))
	if err != nil {
		logger.Logf(gba.env, "gba", "save flush failed: %v", err)
		return
	}

	cart.Backup.ClearPending()
	gba.savePending = false
}
