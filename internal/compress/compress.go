package compress

import (
	"errors"
	"fmt"
)

var ErrUnknownCodec = errors.New("unknown compression codec")

// Compress encodes version content at rest. Name is persisted next to the
// payload so a record can be decoded after the configured codec changes.
type Compress interface {
	Name() string
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// ByName returns the codec registered under name. An empty name is the nop codec.
func ByName(name string) (Compress, error) {
	switch name {
	case "", NopName:
		return NewNop(), nil
	case GZipName:
		return NewGZip(), nil
	case BrotliName:
		return NewBrotli(), nil
	case LZ4Name:
		return NewLZ4(), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, name)
}
