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

// Package prefs implements typed preference values that can be persisted to
// disk and overridden from the command line.
//
// The Bool, String, Int and Float types store their values atomically and
// can be read from any goroutine. Hooks can be attached to run before and
// after a value changes. The Generic type wraps a pair of functions for
// values that cannot be represented by a single live value.
//
// Values are associated with a key by adding them to a Disk. Disk.Save()
// writes every value to the preferences file, one "key :: value" line per
// entry, preserving entries that belong to other Disk instances sharing the
// same file.
//
// Command line preferences are pushed onto a stack with
// PushCommandLineStack(). When a Disk is loaded, values on the top of the
// stack take precedence over values in the file.
package prefs
