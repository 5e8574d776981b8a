package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealerOpen(t *testing.T) {
	s, err := NewSealer("correct horse battery staple")
	require.NoError(t, err)

	sealed, err := s.Seal("eyJhbGciOi.token")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "token")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOi.token", plain)
}

func TestSealerWrongPassphrase(t *testing.T) {
	a, err := NewSealer("one")
	require.NoError(t, err)
	b, err := NewSealer("two")
	require.NoError(t, err)

	sealed, err := a.Seal("secret")
	require.NoError(t, err)
	_, err = b.Open(sealed)
	assert.Error(t, err)
}

func TestEncryptAESKeySize(t *testing.T) {
	_, err := EncryptAES([]byte("short"), []byte("x"))
	assert.Error(t, err)

	_, err = DecryptAES(make([]byte, 32), []byte{1, 2})
	assert.Error(t, err)
}

func TestDeriveKeyEmpty(t *testing.T) {
	_, err := DeriveKey("")
	assert.Error(t, err)
}
