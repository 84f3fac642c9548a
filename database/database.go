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
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const maxEntries = 1000

const (
	fieldSep = ","
	entrySep = "\n"
)

const (
	leaderFieldKey int = iota
	leaderFieldID
	numLeaderFields
)

// Activity is used to specify the type of activity that will be performed
// during the session.
type Activity int

// List of valid Activity values.
const (
	ActivityReading Activity = iota
	ActivityModifying
	ActivityCreating
)

// Session keeps track of a database session.
type Session struct {
	path     string
	activity Activity

	entries    map[int]Entry
	entryTypes map[string]Deserialiser
}

// StartSession starts a new database session. Entries are read from the
// file at path, if it exists.
func StartSession(path string, activity Activity, init func(*Session) error) (*Session, error) {
	db := &Session{
		path:       path,
		activity:   activity,
		entries:    make(map[int]Entry),
		entryTypes: make(map[string]Deserialiser),
	}

	if init != nil {
		if err := init(db); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return db, nil
		}
		return nil, fmt.Errorf("database: %w", err)
	}
	defer f.Close()

	if err := db.read(f); err != nil {
		return nil, err
	}

	return db, nil
}

func (db *Session) read(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}

		fields := strings.Split(scanner.Text(), fieldSep)
		if len(fields) < numLeaderFields {
			return fmt.Errorf("database: %w: line %d", ErrMalformed, line)
		}

		key, err := strconv.Atoi(fields[leaderFieldKey])
		if err != nil || key < 0 || key >= maxEntries {
			return fmt.Errorf("database: %w: bad key on line %d", ErrMalformed, line)
		}
		if _, ok := db.entries[key]; ok {
			return fmt.Errorf("database: %w: duplicate key on line %d", ErrMalformed, line)
		}

		des, ok := db.entryTypes[fields[leaderFieldID]]
		if !ok {
			return fmt.Errorf("database: %w: %s", ErrUnknownEntryType, fields[leaderFieldID])
		}

		ent, err := des(fields[numLeaderFields:])
		if err != nil {
			return fmt.Errorf("database: line %d: %w", line, err)
		}

		db.entries[key] = ent
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	return nil
}

// EndSession closes the session. The database is written to disk if commit
// is true and the session was not started with ActivityReading.
func (db *Session) EndSession(commit bool) error {
	if !commit || db.activity == ActivityReading {
		return nil
	}

	var b strings.Builder
	for _, key := range db.SortedKeyList() {
		ent := db.entries[key]
		fields, err := ent.Serialise()
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		for _, f := range fields {
			if strings.Contains(f, fieldSep) || strings.Contains(f, entrySep) {
				return fmt.Errorf("database: %w: field contains separator: %q", ErrMalformed, f)
			}
		}
		b.WriteString(strings.Join(append([]string{fmt.Sprintf("%03d", key), ent.ID()}, fields...), fieldSep))
		b.WriteString(entrySep)
	}

	if err := os.MkdirAll(filepath.Dir(db.path), 0o755); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := os.WriteFile(db.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	return nil
}

// NumEntries returns the number of entries in the database.
func (db *Session) NumEntries() int {
	return len(db.entries)
}

// SortedKeyList returns a sorted list of database keys.
func (db *Session) SortedKeyList() []int {
	keyList := make([]int, 0, len(db.entries))
	for k := range db.entries {
		keyList = append(keyList, k)
	}
	sort.Ints(keyList)
	return keyList
}

// List the entries in key order.
func (db *Session) List(output io.Writer) error {
	if db.NumEntries() == 0 {
		_, err := io.WriteString(output, "database is empty\n")
		return err
	}

	for _, key := range db.SortedKeyList() {
		if _, err := fmt.Fprintf(output, "%03d %s\n", key, db.entries[key]); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(output, "Total: %d\n", db.NumEntries())
	return err
}

// Get returns the entry with the key.
func (db *Session) Get(key int) (Entry, error) {
	ent, ok := db.entries[key]
	if !ok {
		return nil, fmt.Errorf("database: %w: %d", ErrNotAvailable, key)
	}
	return ent, nil
}

// Add an entry to the database. The key of the new entry is returned.
func (db *Session) Add(ent Entry) (int, error) {
	if db.activity == ActivityReading {
		return -1, fmt.Errorf("database: %w", ErrReadOnly)
	}

	if _, ok := db.entryTypes[ent.ID()]; !ok {
		return -1, fmt.Errorf("database: %w: %s", ErrUnknownEntryType, ent.ID())
	}

	// find spare key
	var key int
	for key = 0; key < maxEntries; key++ {
		if _, ok := db.entries[key]; !ok {
			break
		}
	}

	if key == maxEntries {
		return -1, fmt.Errorf("database: %w (max %d)", ErrMaxEntries, maxEntries)
	}

	db.entries[key] = ent

	return key, nil
}

// Delete the entry with the key. The entry's CleanUp() function is called.
func (db *Session) Delete(key int) error {
	if db.activity == ActivityReading {
		return fmt.Errorf("database: %w", ErrReadOnly)
	}

	ent, ok := db.entries[key]
	if !ok {
		return fmt.Errorf("database: %w: %d", ErrNotAvailable, key)
	}

	if err := ent.CleanUp(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	delete(db.entries, key)

	return nil
}
