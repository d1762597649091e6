// Package codec turns step output values into bytes and back.
//
// A Codec must be reversible for the values it accepts: decoding the bytes
// produced by Encode(v) into a value of v's type yields a value equal to v.
// CBOR, JSON and YAML are also deterministic, including for maps. Gob is
// deterministic only for values without maps. CBOR is the default.
package codec

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCodec indicates a codec name has no registered implementation.
var ErrUnknownCodec = errors.New("unknown codec")

// Codec encodes values to bytes and decodes bytes into a target.
type Codec interface {
	// Name identifies the codec in configuration.
	Name() string

	// Encode serializes v.
	Encode(v any) ([]byte, error)

	// Decode deserializes data into target, which must be a non-nil pointer.
	Decode(data []byte, target any) error
}

// Standard codec names
const (
	NameGob  = "gob"
	NameJSON = "json"
	NameYAML = "yaml"
	NameCBOR = "cbor"
)

// Default is the codec used when none is configured.
var Default Codec = CBOR{}

var registry = map[string]Codec{
	NameGob:  Gob{},
	NameJSON: JSON{},
	NameYAML: YAML{},
	NameCBOR: CBOR{},
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// Names returns the registered codec names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
