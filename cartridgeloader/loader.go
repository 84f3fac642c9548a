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
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/lockstep-emu/lockstep/hardware/memory/cartridge"
)

// Sentinel errors returned by Load().
var (
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	ErrHashMismatch      = errors.New("unexpected hash value")
	ErrNotLoaded         = errors.New("cartridge data has not been loaded")
)

// Loader is used to specify the cartridge to insert into a console.
type Loader struct {
	// filename or URL of the cartridge
	Filename string

	// "INES", "PLAIN" or the empty string. the empty string means the format
	// is sniffed from the data
	Format string

	// the platform suggested by the file extension. may be empty
	Platform string

	// expected hash of the loaded cartridge. empty string indicates that the
	// hash is unknown and need not be validated. after a load operation the
	// value will be the hash of the loaded data
	Hash string

	// the loaded data
	Data []byte
}

// NewLoader is the preferred method of initialisation for the Loader type.
//
// The format argument is used unless it is "AUTO" or the empty string, in
// which case the file extension may decide the format.
func NewLoader(filename string, format string) Loader {
	ext := lookupExtension(filename)

	cl := Loader{
		Filename: filename,
		Format:   ext.format,
		Platform: ext.platform,
	}

	format = strings.TrimSpace(strings.ToUpper(format))
	if format != "AUTO" && format != "" {
		cl.Format = format
	}

	return cl
}

// NewLoaderFromReader loads the cartridge data from the reader. The name is
// used in the same way as the filename argument to NewLoader().
func NewLoaderFromReader(name string, r io.Reader, format string) (Loader, error) {
	cl := NewLoader(name, format)
	d, err := io.ReadAll(r)
	if err != nil {
		return cl, fmt.Errorf("cartridgeloader: %w", err)
	}
	if err := cl.set(d); err != nil {
		return cl, err
	}
	return cl, nil
}

// ShortName returns the filename without the path or the extension.
func (cl Loader) ShortName() string {
	s := path.Base(cl.Filename)
	return strings.TrimSuffix(s, path.Ext(cl.Filename))
}

// HasLoaded returns true if Load() has been successfully called.
func (cl Loader) HasLoaded() bool {
	return len(cl.Data) > 0
}

// Load the cartridge data. Filenames with an http or https scheme are
// fetched over the network. Everything else is read from the local
// filesystem.
func (cl *Loader) Load() error {
	if cl.HasLoaded() {
		return nil
	}

	scheme := "file"
	if u, err := url.Parse(cl.Filename); err == nil && u.Scheme != "" {
		scheme = u.Scheme
	}

	var d []byte
	var err error

	switch scheme {
	case "http", "https":
		d, err = fetch(cl.Filename)
	case "file":
		d, err = os.ReadFile(strings.TrimPrefix(cl.Filename, "file://"))
	default:
		// a single letter scheme is a windows drive letter
		if len(scheme) == 1 {
			d, err = os.ReadFile(cl.Filename)
		} else {
			err = fmt.Errorf("%w (%s)", ErrUnsupportedScheme, scheme)
		}
	}
	if err != nil {
		return fmt.Errorf("cartridgeloader: %w", err)
	}

	return cl.set(d)
}

func fetch(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", url, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// set the data and check the hash.
func (cl *Loader) set(d []byte) error {
	hash := fmt.Sprintf("%x", sha1.Sum(d))
	if cl.Hash != "" && cl.Hash != hash {
		return fmt.Errorf("cartridgeloader: %w", ErrHashMismatch)
	}
	cl.Hash = hash
	cl.Data = d
	return nil
}

// Image parses the loaded data. The format is sniffed if the Format field
// is empty.
func (cl Loader) Image() (*cartridge.Image, error) {
	if !cl.HasLoaded() {
		return nil, fmt.Errorf("cartridgeloader: %w", ErrNotLoaded)
	}
	img, err := cartridge.NewImage(cl.Data, cl.Format)
	if err != nil {
		return nil, fmt.Errorf("cartridgeloader: %w", err)
	}
	return img, nil
}
