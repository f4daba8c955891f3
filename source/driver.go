package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/reoring/skema/schema"
)

// ErrUnsupportedFormat is returned when no driver is registered for a file
// extension.
var ErrUnsupportedFormat = errors.New("source: unsupported format")

// Driver decodes one document into the value model: nil, bool, string,
// numbers, []any and map[string]any.
type Driver interface {
	Decode(r io.Reader) (any, error)
	Name() string
}

var (
	driverMu sync.RWMutex
	drivers  = map[string]Driver{
		".json": JSON(),
		".yaml": YAML(),
		".yml":  YAML(),
	}
)

// Register maps a file extension (with leading dot) to d; nil values are
// ignored.
func Register(ext string, d Driver) {
	if d == nil {
		return
	}
	driverMu.Lock()
	drivers[strings.ToLower(ext)] = d
	driverMu.Unlock()
}

// ForPath returns the driver for name's extension.
func ForPath(name string) (Driver, error) {
	ext := strings.ToLower(filepath.Ext(name))
	driverMu.RLock()
	d, ok := drivers[ext]
	driverMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return d, nil
}

// Extensions lists the registered extensions.
func Extensions() []string {
	driverMu.RLock()
	defer driverMu.RUnlock()
	out := make([]string, 0, len(drivers))
	for ext := range drivers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Decode decodes data with the driver chosen by name's extension.
func Decode(name string, data []byte) (any, error) {
	d, err := ForPath(name)
	if err != nil {
		return nil, err
	}
	v, err := d.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("source: decode %s (%s): %w", name, d.Name(), err)
	}
	return v, nil
}

// ReadFile reads and decodes a document from disk.
func ReadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	return Decode(path, data)
}

// LoadSchema reads a schema document from disk.
func LoadSchema(path string) (*schema.Node, error) {
	v, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	n, err := schema.FromValue(v)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}
	return n, nil
}
