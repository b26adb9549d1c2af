package secure

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"

	"github.com/pkg/errors"
)

// The webhook payload envelope is AES-256-CBC with an HMAC-SHA256 tag in
// encrypt-then-MAC order. The 64-byte shared secret from the integration
// registration is split in half: the first 32 bytes key the MAC, the last
// 32 bytes key the cipher. Wire layout: IV(16) | ciphertext | tag(32),
// with the tag computed over IV|ciphertext.
// SecretLength is the size of the per-registration shared secret.
const SecretLength = 64

const (
	ivLen  = aes.BlockSize
	tagLen = sha256.Size
)

var (
	ErrBadSecret  = errors.New("shared secret must be 64 bytes")
	ErrBadPayload = errors.New("payload is malformed or tampered")
)

type Codec struct {
	macKey []byte
	encKey []byte
}

func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) != SecretLength {
		return nil, ErrBadSecret
	}
	return &Codec{
		macKey: secret[:SecretLength/2],
		encKey: secret[SecretLength/2:],
	}, nil
}

// Decrypt verifies the tag before touching the ciphertext and fails closed
// on any mismatch, so a wrong key or a tampered body can never yield
// plaintext garbage.
func (c *Codec) Decrypt(payload []byte) ([]byte, error) {
	if len(payload) < ivLen+aes.BlockSize+tagLen {
		return nil, ErrBadPayload
	}
	body := payload[:len(payload)-tagLen]
	tag := payload[len(payload)-tagLen:]

	mac := hmac.New(sha256.New, c.macKey)
	mac.Write(body)
	if !hmac.Equal(tag, mac.Sum(nil)) {
		return nil, ErrBadPayload
	}

	iv := body[:ivLen]
	ciphertext := body[ivLen:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrBadPayload
	}

	block, err := aes.NewCipher(c.encKey)
	if err != nil {
		return nil, errors.Wrap(err, "cipher init failed")
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return stripPadding(plaintext)
}

// Encrypt is the inverse envelope, used by tests and the outbound path.
func (c *Codec) Encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(c.encKey)
	if err != nil {
		return nil, errors.Wrap(err, "cipher init failed")
	}
	padded := applyPadding(plaintext)

	out := make([]byte, ivLen+len(padded)+tagLen)
	iv := out[:ivLen]
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "iv generation failed")
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[ivLen:ivLen+len(padded)], padded)

	mac := hmac.New(sha256.New, c.macKey)
	mac.Write(out[:ivLen+len(padded)])
	copy(out[ivLen+len(padded):], mac.Sum(nil))
	return out, nil
}

func applyPadding(in []byte) []byte {
	n := aes.BlockSize - len(in)%aes.BlockSize
	return append(append([]byte{}, in...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func stripPadding(in []byte) ([]byte, error) {
	if len(in) == 0 {
		return nil, ErrBadPayload
	}
	n := int(in[len(in)-1])
	if n == 0 || n > aes.BlockSize || n > len(in) {
		return nil, ErrBadPayload
	}
	for _, b := range in[len(in)-n:] {
		if int(b) != n {
			return nil, ErrBadPayload
		}
	}
	return in[:len(in)-n], nil
}
