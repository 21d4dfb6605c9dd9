package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// prefix marks values sealed by EncryptString, so rows written before a key
// was configured still read back as plaintext.
const prefix = "enc:v1:"

func newGCM(key []byte) (cipher.AEAD, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)

	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}

func EncryptAES(plainText []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)

	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())

	// Random nonce
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plainText, nil), nil
}

func DecryptAES(cipherText []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)

	if err != nil {
		return nil, err
	}

	if len(cipherText) < gcm.NonceSize() {
		return nil, ErrCiphertextTooShort
	}

	nonce, sealed := cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():]

	return gcm.Open(nil, nonce, sealed, nil)
}

func GenerateKey() ([]byte, error) {
	key := make([]byte, 32)

	_, err := rand.Read(key)

	if err != nil {
		return nil, fmt.Errorf("generate random aes key: %w", err)
	}

	return key, nil
}

// EncryptString seals value and returns it base64 encoded and prefixed.
// Empty values stay empty.
func EncryptString(value string, key []byte) (string, error) {
	if value == "" {
		return "", nil
	}

	sealed, err := EncryptAES([]byte(value), key)

	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncrypt, err)
	}

	return prefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString. Values without the prefix are
// returned unchanged.
func DecryptString(value string, key []byte) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}

	sealed, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, prefix))

	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecodeCiphertext, err)
	}

	plain, err := DecryptAES(sealed, key)

	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecrypt, err)
	}

	return string(plain), nil
}

func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, prefix)
}
