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
	"github.com/jetsetilly/gophergba/curated"
	"github.com/jetsetilly/gophergba/snapshot"
)

// Sentinel error patterns for the hardware package.
const (
	// InvalidSnapshot is returned by Defrost() for a snapshot of the wrong
	// shape. The machine state is untouched when this error is returned.
	InvalidSnapshot = "gba: defrost: %v"
)

// Freeze captures the core state the collaborators cannot reconstruct: the
// two on-chip RAM blocks and the I/O register block. Collaborators freeze
// their own state alongside.
func (gba *GBA) Freeze() *snapshot.Struct {
	s := snapshot.NewStruct()
	s.AddBlob("ram", gba.Mem.WRAM.View())
	s.AddBlob("iram", gba.Mem.IRAM.View())
	s.AddBlob("io", gba.IO.Serialise())
	return s
}

// Defrost restores a previously frozen state. The snapshot is validated in
// full before any state is mutated so that a failed restore leaves the
// machine as it was.
func (gba *GBA) Defrost(s *snapshot.Struct) error {
	ram, ok := s.Blob("ram")
	if !ok {
		return curated.Errorf(InvalidSnapshot, "ram missing")
	}
	iram, ok := s.Blob("iram")
	if !ok {
		return curated.Errorf(InvalidSnapshot, "iram missing")
	}
	io, ok := s.Blob("io")
	if !ok {
		return curated.Errorf(InvalidSnapshot, "io missing")
	}

	gba.Mem.WRAM.ReplaceData(ram)
	gba.Mem.IRAM.ReplaceData(iram)
	gba.IO.ReplaceData(io)

	return nil
}
