package codec

import (
	"bytes"
	"encoding/gob"
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Gob encodes values with encoding/gob.
//
// Gob writes map entries in iteration order, so values containing maps do
// not encode to stable bytes. Structs, slices and scalars do.
type Gob struct{}

// Name implements Codec.
func (Gob) Name() string { return NameGob }

// Encode implements Codec.
func (Gob) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode implements Codec.
func (Gob) Decode(data []byte, target any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(target)
}

// JSON encodes values with encoding/json.
type JSON struct{}

// Name implements Codec.
func (JSON) Name() string { return NameJSON }

// Encode implements Codec.
func (JSON) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode implements Codec.
func (JSON) Decode(data []byte, target any) error {
	return json.Unmarshal(data, target)
}

// YAML encodes values with gopkg.in/yaml.v3.
type YAML struct{}

// Name implements Codec.
func (YAML) Name() string { return NameYAML }

// Encode implements Codec.
func (YAML) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Decode implements Codec.
func (YAML) Decode(data []byte, target any) error {
	return yaml.Unmarshal(data, target)
}

// cborEncMode sorts map keys and uses shortest-form integers and lengths
// (RFC 8949 core deterministic encoding).
var cborEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// CBOR encodes values as RFC 8949 core deterministic CBOR.
type CBOR struct{}

// Name implements Codec.
func (CBOR) Name() string { return NameCBOR }

// Encode implements Codec.
func (CBOR) Encode(v any) ([]byte, error) {
	return cborEncMode.Marshal(v)
}

// Decode implements Codec.
func (CBOR) Decode(data []byte, target any) error {
	return cbor.Unmarshal(data, target)
}
