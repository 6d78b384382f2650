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

// Package hardware is the machine container for the GBA core. It wires the
// memory subsystem and the DMA engine together and to the collaborators
// that complete the machine: the CPU interpreter, the video renderer, the
// audio mixer and the save-game store.
//
// The emulation is single threaded and cooperative. There is exactly one
// mutator, the CPU, advanced by AdvanceFrame() once per host display
// refresh. Everything else happens in callbacks from the CPU's memory
// accesses or from the frame loop.
package hardware
