package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/marketplace/backend/internal/domain/messaging"
	"go.uber.org/zap"
)

const (
	// KeySize is the required symmetric key length in bytes (AES-256)
	KeySize = 32

	nonceSize = 16
	tagSize   = 16
)

var (
	// ErrKeyMissing means no encryption key was configured. Startup must
	// fail on this; silently falling back to an ephemeral key would make
	// every stored message permanently undecryptable after a restart.
	ErrKeyMissing = errors.New("messaging encryption key is not configured")

	// ErrKeySize means the configured key does not decode to 32 bytes
	ErrKeySize = errors.New("messaging encryption key must be 64 hex characters (32 bytes)")

	// ErrUndecryptable covers every decryption failure: malformed
	// envelope, bad hex, truncated segments, or tag verification failure
	ErrUndecryptable = errors.New("message body cannot be decrypted")
)

// Codec is the AEAD codec for message bodies: AES-256-GCM with a fresh
// 16-byte random nonce per encryption. The envelope is the canonical
// 3-part form nonce:tag:ciphertext, each segment hex-encoded.
//
// The key is injected at construction and read-only afterwards, so one
// Codec is safe for concurrent use.
type Codec struct {
	aead   cipher.AEAD
	logger *zap.Logger
}

// NewCodec builds a codec from a 64-hex-character key
func NewCodec(hexKey string, logger *zap.Logger) (*Codec, error) {
	if hexKey == "" {
		return nil, ErrKeyMissing
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, ErrKeySize
	}
	if len(key) != KeySize {
		return nil, ErrKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{aead: aead, logger: logger}, nil
}

// Encrypt seals the plaintext under a fresh random nonce and returns the
// hex envelope. GCM appends the authentication tag to the ciphertext;
// the codec splits it back out so the stored form is always 3-part.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(tag) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt opens a 3-part envelope. Every failure mode returns an error
// wrapping ErrUndecryptable; this never panics on malformed input.
func (c *Codec) Decrypt(envelope string) (string, error) {
	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: envelope has %d segments, want 3", ErrUndecryptable, len(parts))
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != nonceSize {
		return "", fmt.Errorf("%w: bad nonce segment", ErrUndecryptable)
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != tagSize {
		return "", fmt.Errorf("%w: bad tag segment", ErrUndecryptable)
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext segment", ErrUndecryptable)
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", ErrUndecryptable)
	}
	return string(plaintext), nil
}

// DecryptOrSentinel is the response-boundary form of Decrypt: any
// failure is logged and replaced with the fixed sentinel so a corrupted
// row degrades to a placeholder instead of failing the whole read.
func (c *Codec) DecryptOrSentinel(envelope string) string {
	plaintext, err := c.Decrypt(envelope)
	if err != nil {
		c.logger.Warn("message body decryption failed", zap.Error(err))
		return messaging.Sentinel
	}
	return plaintext
}
