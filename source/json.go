package source

import (
	"errors"
	"io"

	"github.com/goccy/go-json"
)

// JSON returns the goccy/go-json backed driver. Numbers decode as
// json.Number so that integers keep their exact value.
func JSON() Driver { return jsonDriver{} }

type jsonDriver struct{}

func (jsonDriver) Name() string { return "go-json" }

func (jsonDriver) Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// A document is exactly one value.
	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}
