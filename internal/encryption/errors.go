package encryption

import "fmt"

// Common encryption errors
var (
	ErrInvalidKeySize     = fmt.Errorf("aes key must be 16, 24 or 32 bytes")
	ErrCiphertextTooShort = fmt.Errorf("ciphertext too short")
	ErrDecodeCiphertext   = fmt.Errorf("failed to decode ciphertext")
	ErrDecrypt            = fmt.Errorf("failed to decrypt value")
	ErrEncrypt            = fmt.Errorf("failed to encrypt value")
	ErrUnsupportedType    = fmt.Errorf("secret fields must be strings")
)
