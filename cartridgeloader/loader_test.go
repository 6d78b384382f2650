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

package cartridgeloader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/gophergba/cartridgeloader"
	"github.com/jetsetilly/gophergba/test"
)

func TestShortName(t *testing.T) {
	cl := cartridgeloader.NewLoader("/roms/somegame.gba")
	test.Equate(t, cl.ShortName(), "somegame")
}

func TestLoadMissingFile(t *testing.T) {
	cl := cartridgeloader.NewLoader("this file does not exist.gba")
	test.ExpectedFailure(t, cl.Load())
	test.Equate(t, cl.HasLoaded(), false)
}

func TestLoadAndHash(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "game.gba")
	if err := os.WriteFile(fn, []byte{0x01, 0x02, 0x03}, 0o644); err != nil {
		t.Fatal(err)
	}

	cl := cartridgeloader.NewLoader(fn)
	test.ExpectedSuccess(t, cl.Load())
	test.Equate(t, cl.HasLoaded(), true)

	// a second loader with the computed hash validates; a wrong hash fails
	verify := cartridgeloader.NewLoader(fn)
	verify.Hash = cl.Hash
	test.ExpectedSuccess(t, verify.Load())

	reject := cartridgeloader.NewLoader(fn)
	reject.Hash = "0000"
	test.ExpectedFailure(t, reject.Load())
}
