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

// Package cartridgeloader is used to specify and load the data of a
// cartridge. The data can come from a local file, an HTTP URL or any
// io.Reader.
//
// The format of the data is sniffed from the content (the iNES signature)
// unless it is specified. The file extension is used to suggest the
// platform for images that have no header.
package cartridgeloader
