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

package database

import "slices"

// SelectAll entries in the database. onSelect is called for every entry in
// key order. onSelect should return false if the selection should stop.
func (db *Session) SelectAll(onSelect func(key int, ent Entry) (bool, error)) error {
	return db.SelectKeys(onSelect)
}

// SelectKeys is like SelectAll but only entries with the listed keys are
// selected. An empty list selects every entry.
func (db *Session) SelectKeys(onSelect func(key int, ent Entry) (bool, error), keys ...int) error {
	for _, key := range db.SortedKeyList() {
		if len(keys) > 0 && !slices.Contains(keys, key) {
			continue
		}

		cont, err := onSelect(key, db.entries[key])
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return nil
}
