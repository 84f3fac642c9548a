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

// Package resources contains functions to prepare paths for emulator
// resources, such as the preferences file and battery RAM saves.
//
// The JoinPath() function returns the path to the resource specified in the
// arguments, rooted in the correct base path. Directories are not created by
// JoinPath(). That is the responsibility of whatever writes the file.
//
// For builds with the "release" build tag, the base path is the user's
// configuration directory. On modern Linux systems the full path would be
// something like:
//
//	/home/user/.config/lockstep/
//
// For non-release builds, the base path is rooted in the current working
// directory:
//
//	.lockstep
package resources
