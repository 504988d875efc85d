package barcode

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// LookupCharset resolves an IANA character set name such as "ISO-8859-1" or
// "Shift_JIS".
func LookupCharset(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("%w: unknown character set %q", ErrInvalidHint, name)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: character set %q is not supported", ErrInvalidHint, name)
	}
	return enc, nil
}

// Transcode converts UTF-8 text into the bytes of the named character set.
func Transcode(s, charset string) ([]byte, error) {
	enc, err := LookupCharset(charset)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: payload cannot be represented in %s: %v", ErrInvalidHint, charset, err)
	}
	return out, nil
}
