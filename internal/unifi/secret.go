package unifi

import (
	"bytes"
	"encoding/json"
)

const redacted = "[redacted]"

// Secret holds credential bytes that can be wiped in place.
//
// Secret never prints or marshals its contents.
type Secret []byte

// NewSecret copies s into a new Secret.
func NewSecret(s string) Secret {
	return Secret(s)
}

// Wipe overwrites every byte with zero.
func (s Secret) Wipe() {
	clear(s)
}

// IsWiped reports whether every byte is zero.
func (s Secret) IsWiped() bool {
	for _, b := range s {
		if b != 0 {
			return false
		}
	}

	return true
}

func (Secret) String() string   { return redacted }
func (Secret) GoString() string { return redacted }

// MarshalJSON always emits a redaction marker.
func (Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// UnmarshalJSON copies a JSON string into the secret. Plain strings are
// copied straight out of data so no intermediate Go string is kept alive.
func (s *Secret) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		inner := data[1 : len(data)-1]
		if bytes.IndexByte(inner, '\\') < 0 {
			*s = append(Secret(nil), inner...)
			return nil
		}
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	*s = Secret(str)

	return nil
}

const hexDigits = "0123456789abcdef"

// appendJSONString appends b as a quoted JSON string.
func appendJSONString(dst, b []byte) []byte {
	dst = append(dst, '"')

	for _, c := range b {
		switch {
		case c == '"' || c == '\\':
			dst = append(dst, '\\', c)
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\t':
			dst = append(dst, '\\', 't')
		case c < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		default:
			dst = append(dst, c)
		}
	}

	return append(dst, '"')
}

// encodeLogin builds {"username":...,"password":...} into a buffer owned by
// the caller, who must wipe it after use. The buffer is sized for the worst
// case escape so append never leaves a stale copy behind.
func encodeLogin(username, password Secret) []byte {
	buf := make([]byte, 0, (len(username)+len(password))*6+32)
	buf = append(buf, `{"username":`...)
	buf = appendJSONString(buf, username)
	buf = append(buf, `,"password":`...)
	buf = appendJSONString(buf, password)

	return append(buf, '}')
}
