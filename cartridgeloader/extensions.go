// This file is part of Lockstep.
//
// Lockstep is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Lockstep is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Lockstep.  If not, see <https://www.gnu.org/licenses/>.

package cartridgeloader

import (
	"path"
	"strings"

	"github.com/lockstep-emu/lockstep/hardware"
	"github.com/lockstep-emu/lockstep/hardware/memory/cartridge"
)

// the format and platform suggested by a file extension. an empty field
// means the extension has no opinion.
type extension struct {
	format   string
	platform string
}

var extensions = map[string]extension{
	".NES": {format: cartridge.FormatINES, platform: hardware.PlatformNES},
	".SMS": {format: cartridge.FormatPLAIN, platform: hardware.PlatformSMS},
	".GB":  {format: cartridge.FormatPLAIN, platform: hardware.PlatformDMG},
	".BIN": {},
	".ROM": {},
}

// FileExtensions is the list of file extensions that are recognised by the
// cartridgeloader package.
var FileExtensions = [...]string{".NES", ".SMS", ".GB", ".BIN", ".ROM"}

func lookupExtension(filename string) extension {
	return extensions[strings.ToUpper(path.Ext(filename))]
}
