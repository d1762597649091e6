package codec

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type sample struct {
	Name  string
	Count int
	Tags  []string
}

func allCodecs() []Codec {
	return []Codec{Gob{}, JSON{}, YAML{}, CBOR{}, Gzip(JSON{}, 0), Gzip(Gob{}, 9)}
}

func TestCodecs_RoundTripMap(t *testing.T) {
	for _, c := range allCodecs() {
		t.Run(c.Name(), func(t *testing.T) {
			in := map[string]int{"a": 1}
			data, err := c.Encode(in)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			var out map[string]int
			if err := c.Decode(data, &out); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(out, in) {
				t.Errorf("got %v, want %v", out, in)
			}
		})
	}
}

func TestCodecs_RoundTripSliceAndStruct(t *testing.T) {
	for _, c := range allCodecs() {
		t.Run(c.Name(), func(t *testing.T) {
			nums := []int{1, 2, 3}
			data, err := c.Encode(nums)
			if err != nil {
				t.Fatalf("Encode slice: %v", err)
			}
			var gotNums []int
			if err := c.Decode(data, &gotNums); err != nil {
				t.Fatalf("Decode slice: %v", err)
			}
			if !reflect.DeepEqual(gotNums, nums) {
				t.Errorf("slice = %v, want %v", gotNums, nums)
			}

			s := sample{Name: "orders", Count: 42, Tags: []string{"daily", "eu"}}
			data, err = c.Encode(s)
			if err != nil {
				t.Fatalf("Encode struct: %v", err)
			}
			var gotStruct sample
			if err := c.Decode(data, &gotStruct); err != nil {
				t.Fatalf("Decode struct: %v", err)
			}
			if !reflect.DeepEqual(gotStruct, s) {
				t.Errorf("struct = %+v, want %+v", gotStruct, s)
			}
		})
	}
}

func TestCodecs_Deterministic(t *testing.T) {
	for _, c := range allCodecs() {
		t.Run(c.Name(), func(t *testing.T) {
			v := sample{Name: "x", Count: 1}
			a, err := c.Encode(v)
			if err != nil {
				t.Fatal(err)
			}
			b, err := c.Encode(v)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(a, b) {
				t.Error("encoding the same value twice produced different bytes")
			}
		})
	}
}

func TestCodecs_DeterministicMaps(t *testing.T) {
	v := make(map[string]int, 20)
	for i := 0; i < 20; i++ {
		v[fmt.Sprintf("key-%02d", i)] = i
	}

	for _, c := range []Codec{CBOR{}, JSON{}, YAML{}, Gzip(CBOR{}, 0), Default} {
		t.Run(c.Name(), func(t *testing.T) {
			first, err := c.Encode(v)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 50; i++ {
				next, err := c.Encode(v)
				if err != nil {
					t.Fatal(err)
				}
				if !bytes.Equal(first, next) {
					t.Fatalf("encoding %d differs from the first", i+1)
				}
			}

			var got map[string]int
			if err := c.Decode(first, &got); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, v) {
				t.Errorf("round trip = %v, want %v", got, v)
			}
		})
	}
}

func TestCBOR_SortsMapKeys(t *testing.T) {
	data, err := CBOR{}.Encode(map[string]int{"b": 2, "a": 1})
	if err != nil {
		t.Fatal(err)
	}
	// map(2), "a", 1, "b", 2
	want := []byte{0xa2, 0x61, 'a', 0x01, 0x61, 'b', 0x02}
	if !bytes.Equal(data, want) {
		t.Errorf("encoded % x, want % x", data, want)
	}
}

func TestCodecs_DecodeGarbage(t *testing.T) {
	garbage := []byte("not an artifact")
	for _, c := range []Codec{Gob{}, JSON{}, CBOR{}, Gzip(JSON{}, 0)} {
		t.Run(c.Name(), func(t *testing.T) {
			var out map[string]int
			if err := c.Decode(garbage, &out); err == nil {
				t.Error("expected decode error for garbage input")
			}
		})
	}
}

func TestGzip_CompressesRepetitiveData(t *testing.T) {
	payload := strings.Repeat("Test content. ", 200)

	plain, err := JSON{}.Encode(payload)
	if err != nil {
		t.Fatal(err)
	}
	packed, err := Gzip(JSON{}, 0).Encode(payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(packed) >= len(plain) {
		t.Errorf("compressed size %d should be below plain size %d", len(packed), len(plain))
	}
	if got := Gzip(JSON{}, 0).Name(); got != "json+gzip" {
		t.Errorf("Name() = %q, want %q", got, "json+gzip")
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{NameGob, NameJSON, NameYAML, NameCBOR} {
		c, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if c.Name() != name {
			t.Errorf("Lookup(%q).Name() = %q", name, c.Name())
		}
	}

	if _, err := Lookup("pickle"); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("Lookup(pickle) error = %v, want ErrUnknownCodec", err)
	}
}

func TestNames_Sorted(t *testing.T) {
	want := []string{"cbor", "gob", "json", "yaml"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
