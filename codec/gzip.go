package codec

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// Compressed wraps a codec and gzips its output.
type Compressed struct {
	Inner Codec
	Level int
}

// Gzip returns inner wrapped with gzip compression at the given level.
// A zero level uses gzip.DefaultCompression.
func Gzip(inner Codec, level int) Compressed {
	if level == 0 {
		level = gzip.DefaultCompression
	}
	return Compressed{Inner: inner, Level: level}
}

// Name implements Codec.
func (c Compressed) Name() string {
	return c.Inner.Name() + "+gzip"
}

// Encode implements Codec.
func (c Compressed) Encode(v any) ([]byte, error) {
	raw, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, c.Level)
	if err != nil {
		return nil, fmt.Errorf("gzip writer: %w", err)
	}
	if _, err := gz.Write(raw); err != nil {
		gz.Close()
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode implements Codec.
func (c Compressed) Decode(data []byte, target any) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("gzip reader: %w", err)
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return fmt.Errorf("gzip read: %w", err)
	}
	return c.Inner.Decode(raw, target)
}
