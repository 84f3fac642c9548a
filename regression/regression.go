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

package regression

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/lockstep-emu/lockstep/database"
)

// ErrFailed is returned by RegressRun() if any test did not succeed.
var ErrFailed = errors.New("regression tests failed")

// when starting a database session we need to register what entries we will
// find in the database.
func initDBSession(db *database.Session) error {
	return db.RegisterEntryType(digestEntryID, deserialiseDigestEntry)
}

// RegressList displays all entries in the database.
func RegressList(output io.Writer, dbPath string) error {
	db, err := database.StartSession(dbPath, database.ActivityReading, initDBSession)
	if err != nil {
		return err
	}
	defer db.EndSession(false)

	return db.List(output)
}

// RegressAdd runs the regression for the first time and adds it to the
// database.
func RegressAdd(output io.Writer, dbPath string, reg *DigestRegression) (rerr error) {
	db, err := database.StartSession(dbPath, database.ActivityCreating, initDBSession)
	if err != nil {
		return err
	}

	commit := false
	defer func() {
		if err := db.EndSession(commit); err != nil && rerr == nil {
			rerr = err
		}
	}()

	if _, _, err := reg.regress(true); err != nil {
		return err
	}

	key, err := db.Add(reg)
	if err != nil {
		return err
	}
	commit = true

	fmt.Fprintf(output, "added: %03d %s\n", key, reg)

	return nil
}

// RegressDelete removes an entry from the regression database. The user is
// asked for confirmation via the confirmation reader.
func RegressDelete(output io.Writer, confirmation io.Reader, dbPath string, key string) (rerr error) {
	v, err := strconv.Atoi(key)
	if err != nil {
		return fmt.Errorf("regression: invalid key (%s)", key)
	}

	db, err := database.StartSession(dbPath, database.ActivityModifying, initDBSession)
	if err != nil {
		return err
	}

	commit := false
	defer func() {
		if err := db.EndSession(commit); err != nil && rerr == nil {
			rerr = err
		}
	}()

	ent, err := db.Get(v)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "%s\ndelete? (y/n): ", ent)

	confirm := make([]byte, 1)
	if _, err := io.ReadFull(confirmation, confirm); err != nil {
		return fmt.Errorf("regression: %w", err)
	}

	if confirm[0] != 'y' && confirm[0] != 'Y' {
		fmt.Fprintln(output)
		return nil
	}

	if err := db.Delete(v); err != nil {
		return err
	}
	commit = true

	fmt.Fprintf(output, "\ndeleted test #%03d from regression database\n", v)

	return nil
}

// RegressRun runs the tests in the regression database. The filterKeys list
// specifies which entries to test. An empty keys list means that every entry
// should be tested.
func RegressRun(output io.Writer, dbPath string, verbose bool, filterKeys []string) error {
	keys := make([]int, 0, len(filterKeys))
	for _, k := range filterKeys {
		v, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("regression: invalid key (%s)", k)
		}
		keys = append(keys, v)
	}

	db, err := database.StartSession(dbPath, database.ActivityReading, initDBSession)
	if err != nil {
		return err
	}
	defer db.EndSession(false)

	var numSucceed, numFail, numError int

	onSelect := func(key int, ent database.Entry) (bool, error) {
		reg, ok := ent.(*DigestRegression)
		if !ok {
			return false, fmt.Errorf("regression: database entry %03d is not a regression entry", key)
		}

		ok, fail, err := reg.regress(false)
		switch {
		case err != nil:
			numError++
			fmt.Fprintf(output, "  ERROR: %03d %s\n", key, reg)
			if verbose {
				fmt.Fprintf(output, "%s\n", err)
			}
		case !ok:
			numFail++
			fmt.Fprintf(output, "failure: %03d %s\n", key, reg)
			if verbose {
				fmt.Fprintf(output, "%s\n", fail)
			}
		default:
			numSucceed++
			fmt.Fprintf(output, "succeed: %03d %s\n", key, reg)
		}

		return true, nil
	}

	if err := db.SelectKeys(onSelect, keys...); err != nil {
		return err
	}

	fmt.Fprintf(output, "regression tests: %d succeed, %d fail", numSucceed, numFail)
	if numError > 0 {
		fmt.Fprintf(output, " [%d with errors]", numError)
	}
	fmt.Fprintln(output)

	if numFail > 0 || numError > 0 {
		return ErrFailed
	}
	return nil
}
