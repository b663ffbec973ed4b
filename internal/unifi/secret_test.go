package unifi

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretNeverPrints(t *testing.T) {
	s := NewSecret("hunter2")

	assert.Equal(t, redacted, s.String())
	assert.Equal(t, redacted, fmt.Sprintf("%v", s))
	assert.Equal(t, redacted, fmt.Sprintf("%#v", s))

	out, err := json.Marshal(struct {
		Password Secret `json:"password"`
	}{Password: s})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hunter2")
}

func TestSecretUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `"p4ss"`, want: "p4ss"},
		{name: "escaped", in: `"a\"b\\c\né"`, want: "a\"b\\c\né"},
		{name: "empty", in: `""`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Secret
			require.NoError(t, json.Unmarshal([]byte(tt.in), &s))
			assert.Equal(t, tt.want, string(s))
		})
	}

	var s Secret
	assert.Error(t, json.Unmarshal([]byte(`123`), &s))
}

func TestSecretUnmarshalDoesNotAliasInput(t *testing.T) {
	data := []byte(`{"password":"p4ss"}`)

	var v struct {
		Password Secret `json:"password"`
	}
	require.NoError(t, json.Unmarshal(data, &v))

	v.Password.Wipe()
	assert.True(t, v.Password.IsWiped())
	assert.Equal(t, `{"password":"p4ss"}`, string(data))
}

func TestEncodeLogin(t *testing.T) {
	user := NewSecret("admin")
	pass := NewSecret("q\"uo\\te\x01\ttab\r\n")

	body := encodeLogin(user, pass)
	require.True(t, json.Valid(body), string(body))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "admin", decoded["username"])
	assert.Equal(t, "q\"uo\\te\x01\ttab\r\n", decoded["password"])

	clear(body)
	assert.True(t, Secret(body).IsWiped())
}

func TestSecretWipe(t *testing.T) {
	s := NewSecret("secret")
	assert.False(t, s.IsWiped())

	s.Wipe()
	assert.True(t, s.IsWiped())
	assert.Len(t, s, 6)
}
