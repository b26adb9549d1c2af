package secure

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func testSecret(t *testing.T) []byte {
	t.Helper()
	secret := make([]byte, SecretLength)
	_, err := rand.Read(secret)
	require.NoError(t, err)
	return secret
}

func TestCodec(t *testing.T) {
	t.Run(`secret must be exactly 64 bytes`, func(t *testing.T) {
		_, err := NewCodec(make([]byte, 32))
		require.ErrorIs(t, err, ErrBadSecret)
		_, err = NewCodec(make([]byte, 65))
		require.ErrorIs(t, err, ErrBadSecret)
		_, err = NewCodec(testSecret(t))
		require.NoError(t, err)
	})

	t.Run(`encrypt then decrypt round-trips`, func(t *testing.T) {
		codec, err := NewCodec(testSecret(t))
		require.NoError(t, err)

		plain := []byte(`{"requests":[{"id":"abc","method":"POST","url":"/shifts/1"}]}`)
		sealed, err := codec.Encrypt(plain)
		require.NoError(t, err)
		require.NotEqual(t, plain, sealed)

		got, err := codec.Decrypt(sealed)
		require.NoError(t, err)
		require.Equal(t, plain, got)
	})

	t.Run(`same plaintext seals differently each time`, func(t *testing.T) {
		codec, err := NewCodec(testSecret(t))
		require.NoError(t, err)

		plain := []byte("the same payload")
		first, err := codec.Encrypt(plain)
		require.NoError(t, err)
		second, err := codec.Encrypt(plain)
		require.NoError(t, err)
		require.False(t, bytes.Equal(first, second))
	})

	t.Run(`any flipped bit fails closed`, func(t *testing.T) {
		codec, err := NewCodec(testSecret(t))
		require.NoError(t, err)

		sealed, err := codec.Encrypt([]byte("tamper target"))
		require.NoError(t, err)

		for _, pos := range []int{0, len(sealed) / 2, len(sealed) - 1} {
			broken := append([]byte(nil), sealed...)
			broken[pos] ^= 0x01
			_, err = codec.Decrypt(broken)
			require.ErrorIs(t, err, ErrBadPayload)
		}
	})

	t.Run(`wrong secret cannot open the payload`, func(t *testing.T) {
		sender, err := NewCodec(testSecret(t))
		require.NoError(t, err)
		receiver, err := NewCodec(testSecret(t))
		require.NoError(t, err)

		sealed, err := sender.Encrypt([]byte("cross-tenant payload"))
		require.NoError(t, err)
		_, err = receiver.Decrypt(sealed)
		require.ErrorIs(t, err, ErrBadPayload)
	})

	t.Run(`truncated payload is rejected`, func(t *testing.T) {
		codec, err := NewCodec(testSecret(t))
		require.NoError(t, err)

		sealed, err := codec.Encrypt([]byte("short me"))
		require.NoError(t, err)
		_, err = codec.Decrypt(sealed[:len(sealed)-1])
		require.ErrorIs(t, err, ErrBadPayload)
		_, err = codec.Decrypt(nil)
		require.ErrorIs(t, err, ErrBadPayload)
	})
}
