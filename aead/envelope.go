package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/frostnet/tss-core/errs"
)

// fernetVersion is the single supported Fernet token version (spec §4.1).
const fernetVersion = 0x80

const (
	ivLength      = 16
	macLength     = 32
	headerLength  = 1 + 8 + ivLength // version || timestamp || iv
	blockSize     = aes.BlockSize
	signingKeyLen = 16
)

// Clock abstracts token timestamping so tests can pin a deterministic value;
// production code uses realClock.
type Clock interface {
	UnixNow() uint64
}

type realClock struct{}

func (realClock) UnixNow() uint64 { return uint64(nowUnix()) }

// Encrypt produces a Fernet v1 authenticated envelope over plaintext, keyed
// by a 32-byte HKDF-derived key (16-byte signing key || 16-byte AES-128
// key), base64-url encoded as spec §4.1 requires for wire compatibility
// with the Python reference (`cryptography.fernet.Fernet`).
func Encrypt(key []byte, plaintext []byte) (string, error) {
	return encryptWithClock(realClock{}, key, plaintext)
}

func encryptWithClock(clock Clock, key []byte, plaintext []byte) (string, error) {
	if len(key) != KeySize {
		return "", fmt.Errorf("aead: key must be %d bytes, got %d", KeySize, len(key))
	}
	signingKey := key[:signingKeyLen]
	encryptionKey := key[signingKeyLen:]

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("aead: read iv: %w", err)
	}

	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return "", fmt.Errorf("aead: new cipher: %w", err)
	}
	padded := pkcs7Pad(plaintext, blockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	body := make([]byte, 0, headerLength+len(ciphertext))
	body = append(body, fernetVersion)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], clock.UnixNow())
	body = append(body, ts[:]...)
	body = append(body, iv...)
	body = append(body, ciphertext...)

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(body)
	token := append(body, mac.Sum(nil)...)

	return base64.URLEncoding.EncodeToString(token), nil
}

// Decrypt authenticates and decrypts a Fernet v1 token produced by Encrypt.
// It returns errs.ErrDecryptAuth on MAC mismatch or version mismatch, per
// spec §7.
func Decrypt(key []byte, token string) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("aead: key must be %d bytes, got %d", KeySize, len(key))
	}
	signingKey := key[:signingKeyLen]
	encryptionKey := key[signingKeyLen:]

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("aead: base64 decode: %w", err)
	}
	if len(raw) < headerLength+macLength {
		return nil, errs.ErrDecryptAuth
	}

	body, tag := raw[:len(raw)-macLength], raw[len(raw)-macLength:]

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(body)
	expected := mac.Sum(nil)
	if !hmac.Equal(expected, tag) {
		return nil, errs.ErrDecryptAuth
	}

	if body[0] != fernetVersion {
		return nil, errs.ErrDecryptAuth
	}

	iv := body[9:headerLength]
	ciphertext := body[headerLength:]
	if len(ciphertext) == 0 || len(ciphertext)%blockSize != 0 {
		return nil, errs.ErrDecryptAuth
	}

	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("aead: new cipher: %w", err)
	}
	plainPadded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plainPadded, ciphertext)

	return pkcs7Unpad(plainPadded)
}

func pkcs7Pad(data []byte, size int) []byte {
	padLen := size - len(data)%size
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errs.ErrDecryptAuth
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) || padLen > blockSize {
		return nil, errs.ErrDecryptAuth
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, errs.ErrDecryptAuth
		}
	}
	return data[:len(data)-padLen], nil
}
