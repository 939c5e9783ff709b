// Package script reads script bodies for the engines.
package script

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidEncoding is returned when a text resource is not valid UTF-8.
var ErrInvalidEncoding = errors.New("script is not valid UTF-8 text")

// ReadText reads r to the end and decodes it as UTF-8. A leading UTF-8 byte order mark is
// stripped, and a UTF-16 byte order mark switches decoding to UTF-16 of that endianness.
func ReadText(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, ErrContentNil
	}
	decoder := unicode.BOMOverride(encoding.UTF8Validator)
	body, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		if errors.Is(err, encoding.ErrInvalidUTF8) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
		}
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return body, nil
}

// ReadBinary reads r to the end without decoding.
func ReadBinary(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, ErrContentNil
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return body, nil
}
