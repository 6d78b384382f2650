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

// Package curated is the error type used throughout GopherGBA. Curated
// errors bundle a pattern string with the values used to format it, which
// means the pattern can later be used to identify the error.
//
// Create a curated error with the Errorf() function:
//
//	err := curated.Errorf("mmu: %v", err)
//
// The pattern string of a curated error can be tested for with the Is()
// function and, for errors deeper in the chain, with the Has() function.
// Sentinel patterns used across package boundaries are declared as exported
// constants in the package that creates them. For example:
//
//	if curated.Is(err, cartridge.InvalidHeader) {
//		...
//	}
//
// Errors not created by this package can still be wrapped with the familiar
// %v and %w verbs.
package curated
