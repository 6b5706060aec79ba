package secret

import (
	"bytes"
	"crypto/aes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	apperr "linkhut/internal/pkg/errors"
)

const (
	staticSalt = "88b3a2e13"
	// Prefix marks an environment value as encrypted.
	Prefix = "aes:"
)

// deriveKey turns a passphrase into a 16-byte AES key: the first 16 hex
// characters of sha256(salt + passphrase), used as ASCII bytes.
func deriveKey(passphrase string) []byte {
	hash := sha256.Sum256([]byte(staticSalt + passphrase))
	return []byte(hex.EncodeToString(hash[:])[:16])
}

// Decrypt decrypts a base64 AES-128-ECB ciphertext produced by Encrypt.
func Decrypt(encryptedB64 string, passphrase string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encryptedB64)
	if err != nil {
		return "", fmt.Errorf("failed to base64 decode ciphertext: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(passphrase))
	if err != nil {
		return "", fmt.Errorf("failed to create AES cipher: %w", err)
	}

	blockSize := block.BlockSize()
	if len(ciphertext) == 0 || len(ciphertext)%blockSize != 0 {
		return "", fmt.Errorf("ciphertext is not a multiple of the block size")
	}

	plaintext := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += blockSize {
		block.Decrypt(plaintext[i:i+blockSize], ciphertext[i:i+blockSize])
	}

	unpadded, err := pkcs7Unpad(plaintext, blockSize)
	if err != nil {
		return "", fmt.Errorf("failed to unpad plaintext: %w", err)
	}
	return string(unpadded), nil
}

// Encrypt is the inverse of Decrypt; output matches `openssl enc -aes-128-ecb -base64`.
func Encrypt(plaintext string, passphrase string) (string, error) {
	block, err := aes.NewCipher(deriveKey(passphrase))
	if err != nil {
		return "", fmt.Errorf("failed to create AES cipher: %w", err)
	}

	blockSize := block.BlockSize()
	padded := pkcs7Pad([]byte(plaintext), blockSize)

	ciphertext := make([]byte, len(padded))
	for i := 0; i < len(padded); i += blockSize {
		block.Encrypt(ciphertext[i:i+blockSize], padded[i:i+blockSize])
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data)%blockSize != 0 || len(data) == 0 {
		return nil, fmt.Errorf("invalid PKCS7 padded data")
	}
	paddingLen := int(data[len(data)-1])
	if paddingLen == 0 || paddingLen > blockSize {
		return nil, fmt.Errorf("invalid PKCS7 padding length")
	}
	for i := 0; i < paddingLen; i++ {
		if data[len(data)-1-i] != byte(paddingLen) {
			return nil, fmt.Errorf("invalid PKCS7 padding")
		}
	}
	return data[:len(data)-paddingLen], nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - (len(data) % blockSize)
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

// Source returns a secret on demand.
type Source func() (string, error)

// Env returns a Source reading the variable name on every call. A value
// carrying Prefix is decrypted with the passphrase found in keyEnv.
func Env(name, keyEnv string) Source {
	return func() (string, error) {
		value := strings.TrimSpace(os.Getenv(name))
		if value == "" {
			return "", fmt.Errorf("%w: %s environment variable not set", apperr.ErrMissingSecret, name)
		}
		if !strings.HasPrefix(value, Prefix) {
			return value, nil
		}
		passphrase := os.Getenv(keyEnv)
		if keyEnv == "" || passphrase == "" {
			return "", fmt.Errorf("%w: %s is encrypted but %s is not set", apperr.ErrMissingSecret, name, keyEnv)
		}
		plain, err := Decrypt(strings.TrimPrefix(value, Prefix), passphrase)
		if err != nil {
			return "", fmt.Errorf("%w: failed to decrypt %s: %v", apperr.ErrMissingSecret, name, err)
		}
		return plain, nil
	}
}

// Static returns a Source that always yields value.
func Static(value string) Source {
	return func() (string, error) {
		if value == "" {
			return "", fmt.Errorf("%w: empty secret", apperr.ErrMissingSecret)
		}
		return value, nil
	}
}
