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

// Package memory implements the memory subsystem of the GBA: the MMU that
// routes every access by the top byte of the address, the on-chip RAM
// blocks, the BIOS and open-bus regions, the I/O register file and the
// wait-state table.
//
// Every access funnels through the MMU. Loads are dispatched with the
// offset unaligned (the regions simulate unaligned reads verbatim); stores
// are aligned to the access width and followed by instruction-cache
// invalidation for the written range.
//
// The cartridge windows and the backup memory are implemented by the
// cartridge package and installed with AttachCartridge(). The palette, VRAM
// and OAM buffers belong to the video collaborator, which installs them
// with Map().
package memory
