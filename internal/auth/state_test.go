package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_SessionID(t *testing.T) {
	s := NewSigner([]byte("k1"))
	v := s.EncodeSessionID("abc")
	id, err := s.DecodeSessionID(v)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	_, err = NewSigner([]byte("k2")).DecodeSessionID(v)
	assert.ErrorIs(t, err, ErrInvalidCookie)
	_, err = s.DecodeSessionID("abc")
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func TestSigner_StateExpires(t *testing.T) {
	s := NewSigner([]byte("k"))
	now := time.Now()
	v, err := s.EncodeState(LoginState{State: "st", Verifier: "v", ReturnTo: "/", Expires: now.Add(time.Minute)})
	require.NoError(t, err)

	ls, err := s.DecodeState(v, now)
	require.NoError(t, err)
	assert.Equal(t, "st", ls.State)

	_, err = s.DecodeState(v, now.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func TestSafeReturnTo(t *testing.T) {
	assert.Equal(t, "/cart", SafeReturnTo("/cart"))
	assert.Equal(t, "/", SafeReturnTo(""))
	assert.Equal(t, "/", SafeReturnTo("https://evil.example"))
	assert.Equal(t, "/", SafeReturnTo("//evil.example"))
	assert.Equal(t, "/", SafeReturnTo(`/\evil.example`))
}
