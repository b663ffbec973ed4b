// Package macaddr validates, parses and compares 48-bit MAC addresses.
//
// Only the two common textual forms are accepted, with a uniform separator:
//
//	AA:BB:CC:DD:EE:FF
//	aa-bb-cc-dd-ee-ff
//
// Comparison works on the parsed 6-byte value, so callers parse once and
// compare many times.
package macaddr

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidFormat is returned when text does not match the MAC grammar.
var ErrInvalidFormat = errors.New("invalid MAC address format")

// Len is the number of bytes in a MAC address.
const Len = 6

// Anchored on both ends; RE2 has no backreferences, so each separator gets its own branch.
var macPattern = regexp.MustCompile(
	`^(?:[0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$|^(?:[0-9A-Fa-f]{2}-){5}[0-9A-Fa-f]{2}$`,
)

// Addr is a canonical MAC address.
type Addr [Len]byte

// IsValidText reports whether b is exactly one MAC address in colon or
// hyphen notation.
func IsValidText(b []byte) bool {
	return macPattern.Match(b)
}

// Parse converts validated MAC text into an Addr.
func Parse(text string) (Addr, error) {
	var a Addr

	if !macPattern.MatchString(text) {
		return a, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}

	// Validated above: groups sit at offsets 0,3,6,9,12,15.
	for i := 0; i < Len; i++ {
		if _, err := hex.Decode(a[i:i+1], []byte(text[i*3:i*3+2])); err != nil {
			return Addr{}, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
		}
	}

	return a, nil
}

// MustParse is like Parse but panics on invalid input. Intended for tests
// and static tables.
func MustParse(text string) Addr {
	a, err := Parse(text)
	if err != nil {
		panic(err)
	}

	return a
}

// Equal reports whether a and b are the same address.
func Equal(a, b Addr) bool {
	return a == b
}

// IsZero reports whether a is the all-zero address.
func (a Addr) IsZero() bool {
	return a == Addr{}
}

// String formats a as upper-case, colon separated text.
func (a Addr) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

// MarshalText implements encoding.TextMarshaler.
func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Addr) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}
