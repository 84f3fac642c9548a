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

import (
	"errors"
	"fmt"
)

// Entry represents the generic entry in the database.
type Entry interface {
	// ID returns the string that is used to identify the entry type in
	// the database
	ID() string

	// String should return information about the entry in a human readable
	// format. by contrast, machine readable representation is returned by the
	// Serialise function
	String() string

	// the fields of the entry. fields may not contain a comma or a newline
	Serialise() ([]string, error)

	// CleanUp is called when the entry is deleted from the database
	CleanUp() error
}

// Deserialiser creates an Entry from the stored fields.
type Deserialiser func(fields []string) (Entry, error)

// Sentinel errors returned by the database.
var (
	ErrNotAvailable       = errors.New("key not available")
	ErrMaxEntries         = errors.New("maximum entries exceeded")
	ErrReadOnly           = errors.New("database is read only")
	ErrUnknownEntryType   = errors.New("unknown entry type")
	ErrDuplicateEntryType = errors.New("duplicate entry type")
	ErrMalformed          = errors.New("malformed entry")
)

// RegisterEntryType tells the database how to deserialise an entry type.
func (db *Session) RegisterEntryType(id string, des Deserialiser) error {
	if _, ok := db.entryTypes[id]; ok {
		return fmt.Errorf("database: %w: %s", ErrDuplicateEntryType, id)
	}
	db.entryTypes[id] = des
	return nil
}
