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

// Package fifowriter is an audio collaborator that records the bytes the
// guest streams into the two sound FIFOs and writes them to disk as a WAV
// file. The data is buffered in memory in its entirety and written on
// EndMixing(), so the package is probably only suitable for testing
// purposes.
package fifowriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/jetsetilly/gophergba/curated"
	"github.com/jetsetilly/gophergba/hardware/dma"
	"github.com/jetsetilly/gophergba/logger"
)

// SampleFreq is the sample frequency the FIFO data is assumed to be paced
// at. Most games time their FIFO DMAs for this rate.
const SampleFreq = 32768

// FIFOWriter implements the hardware.Audio interface. FIFO A lands on the
// left channel and FIFO B on the right.
type FIFOWriter struct {
	filename string

	// the DMA engine, for refilling the FIFOs. may be nil in which case
	// Refill() is a no-op
	dma *dma.DMA

	// the channel assigned to each FIFO by ScheduleFIFO(). -1 when nothing
	// is assigned
	channels [2]int

	buffers [2][]byte
}

// New is the preferred method of initialisation for the FIFOWriter type.
func New(filename string) *FIFOWriter {
	return &FIFOWriter{
		filename: filename,
		channels: [2]int{-1, -1},
	}
}

// SetDMA gives the writer the DMA engine to refill the FIFOs from.
func (fw *FIFOWriter) SetDMA(d *dma.DMA) {
	fw.dma = d
}

// WriteFIFO implements the memory.AudioWriter interface. Each write carries
// four signed 8bit samples.
func (fw *FIFOWriter) WriteFIFO(fifo int, value uint32) {
	fifo &= 0x1
	fw.buffers[fifo] = append(fw.buffers[fifo],
		uint8(value), uint8(value>>8), uint8(value>>16), uint8(value>>24))
}

// ScheduleFIFO implements the dma.AudioScheduler interface. The channel is
// remembered and serviced on every Refill().
func (fw *FIFOWriter) ScheduleFIFO(ch int) {
	if ch != 1 && ch != 2 {
		return
	}
	// channel 1 conventionally feeds FIFO A and channel 2 FIFO B
	fw.channels[ch-1] = ch
}

// Refill services the FIFO DMA channels once each, as the audio hardware
// would when a FIFO runs low. Call once per sample batch.
func (fw *FIFOWriter) Refill() {
	if fw.dma == nil {
		return
	}
	for _, ch := range fw.channels {
		if ch != -1 {
			fw.dma.Service(ch)
		}
	}
}

// EndMixing writes the buffered FIFO data to the WAV file.
func (fw *FIFOWriter) EndMixing() (rerr error) {
	f, err := os.Create(fw.filename)
	if err != nil {
		return curated.Errorf("fifowriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("fifowriter: %v", err)
		}
	}()

	enc := wav.NewEncoder(f, SampleFreq, 8, 2, 1)

	n := len(fw.buffers[0])
	if len(fw.buffers[1]) > n {
		n = len(fw.buffers[1])
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  SampleFreq,
		},
		Data:           make([]int, 0, n*2),
		SourceBitDepth: 8,
	}

	sample := func(fifo int, i int) int {
		if i >= len(fw.buffers[fifo]) {
			return 0x80
		}
		// signed samples in the FIFO, unsigned convention in 8bit WAV
		return int(int8(fw.buffers[fifo][i])) + 0x80
	}

	for i := 0; i < n; i++ {
		buf.Data = append(buf.Data, sample(0, i), sample(1, i))
	}

	if err := enc.Write(buf); err != nil {
		return curated.Errorf("fifowriter: %v", err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf("fifowriter: %v", err)
	}

	logger.Logf(logger.Allow, "fifowriter", "audio written to %s", fw.filename)

	return nil
}
