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

// Package version records the version number of the project.
package version

import (
	"runtime/debug"
)

// The name to use when referring to the application.
const ApplicationName = "GopherGBA"

// if number is empty then the project was probably not built using the
// makefile.
var number string

// revision contains the vcs revision. if the source has been modified but
// has not been committed then the revision string will be suffixed with
// "+dirty".
var revision string

// Version contains the version string for the project. If the version string
// is "unreleased" then the project has been manually built (ie. not with the
// makefile).
var Version string

func init() {
	revision = "no vcs info"

	info, ok := debug.ReadBuildInfo()
	if ok {
		var rev string
		var mod bool

		for _, v := range info.Settings {
			switch v.Key {
			case "vcs.revision":
				rev = v.Value
			case "vcs.modified":
				mod = v.Value == "true"
			}
		}

		if rev != "" {
			revision = rev
			if mod {
				revision = revision + "+dirty"
			}
		}
	}

	if number == "" {
		Version = "unreleased"
	} else {
		Version = number
	}
}

// Revision returns the vcs revision the project was built from.
func Revision() string {
	return revision
}
