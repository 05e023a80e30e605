package crypto

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/marketplace/backend/internal/domain/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(testKey, zap.NewNop())
	require.NoError(t, err)
	return codec
}

func TestNewCodec(t *testing.T) {
	t.Run("rejects a missing key", func(t *testing.T) {
		_, err := NewCodec("", zap.NewNop())
		assert.ErrorIs(t, err, ErrKeyMissing)
	})

	t.Run("rejects a short key", func(t *testing.T) {
		_, err := NewCodec("abcd", zap.NewNop())
		assert.ErrorIs(t, err, ErrKeySize)
	})

	t.Run("rejects non-hex input", func(t *testing.T) {
		_, err := NewCodec(strings.Repeat("zz", 32), zap.NewNop())
		assert.ErrorIs(t, err, ErrKeySize)
	})

	t.Run("accepts a 64-hex-char key with nil logger", func(t *testing.T) {
		codec, err := NewCodec(testKey, nil)
		require.NoError(t, err)
		assert.NotNil(t, codec)
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	cases := []string{
		"",
		"Hello",
		"with spaces and punctuation!?",
		"multi-byte 消息本文 текст 🙂",
		strings.Repeat("a", 500),
		strings.Repeat("你", 500),
	}

	for _, plaintext := range cases {
		envelope, err := codec.Encrypt(plaintext)
		require.NoError(t, err)

		decrypted, err := codec.Decrypt(envelope)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestCodec_EnvelopeShape(t *testing.T) {
	codec := newTestCodec(t)

	envelope, err := codec.Encrypt("shape check")
	require.NoError(t, err)

	parts := strings.Split(envelope, ":")
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], 32) // 16-byte nonce
	assert.Len(t, parts[1], 32) // 16-byte tag
	assert.Equal(t, 0, len(parts[2])%2)

	for _, part := range parts {
		_, err := hex.DecodeString(part)
		assert.NoError(t, err)
	}
}

func TestCodec_NonceFreshness(t *testing.T) {
	codec := newTestCodec(t)

	first, err := codec.Encrypt("same plaintext")
	require.NoError(t, err)
	second, err := codec.Encrypt("same plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, strings.Split(first, ":")[0], strings.Split(second, ":")[0])
}

// flipHexChar flips one hex character at the given offset of a segment
func flipHexChar(s string, i int) string {
	b := []byte(s)
	if b[i] == '0' {
		b[i] = '1'
	} else {
		b[i] = '0'
	}
	return string(b)
}

func TestCodec_TamperTolerance(t *testing.T) {
	codec := newTestCodec(t)

	envelope, err := codec.Encrypt("tamper me")
	require.NoError(t, err)
	parts := strings.Split(envelope, ":")

	t.Run("any flipped tag character fails authentication", func(t *testing.T) {
		for i := 0; i < len(parts[1]); i++ {
			tampered := parts[0] + ":" + flipHexChar(parts[1], i) + ":" + parts[2]
			_, err := codec.Decrypt(tampered)
			assert.ErrorIs(t, err, ErrUndecryptable)
			assert.Equal(t, messaging.Sentinel, codec.DecryptOrSentinel(tampered))
		}
	})

	t.Run("any flipped ciphertext character fails authentication", func(t *testing.T) {
		for i := 0; i < len(parts[2]); i++ {
			tampered := parts[0] + ":" + parts[1] + ":" + flipHexChar(parts[2], i)
			_, err := codec.Decrypt(tampered)
			assert.ErrorIs(t, err, ErrUndecryptable)
		}
	})

	t.Run("flipped nonce fails authentication", func(t *testing.T) {
		tampered := flipHexChar(parts[0], 0) + ":" + parts[1] + ":" + parts[2]
		_, err := codec.Decrypt(tampered)
		assert.ErrorIs(t, err, ErrUndecryptable)
	})
}

func TestCodec_MalformedEnvelopes(t *testing.T) {
	codec := newTestCodec(t)

	cases := []string{
		"",
		"plaintext row from before encryption",
		"aa:bb",
		"aa:bb:cc:dd",
		"zz:bb:cc",
		"aabb:" + strings.Repeat("ab", 16) + ":cc", // short nonce
		strings.Repeat("ab", 16) + ":aabb:cc",      // short tag
		strings.Repeat("ab", 16) + ":" + strings.Repeat("ab", 16) + ":xyz",
	}

	for _, envelope := range cases {
		_, err := codec.Decrypt(envelope)
		assert.ErrorIs(t, err, ErrUndecryptable, "envelope %q", envelope)
		assert.Equal(t, messaging.Sentinel, codec.DecryptOrSentinel(envelope))
	}
}

func TestCodec_DifferentKeyDegradesToSentinel(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec(strings.Repeat("ef", 32), zap.NewNop())
	require.NoError(t, err)

	envelope, err := codec.Encrypt("written under the old key")
	require.NoError(t, err)

	_, err = other.Decrypt(envelope)
	assert.ErrorIs(t, err, ErrUndecryptable)
	assert.Equal(t, messaging.Sentinel, other.DecryptOrSentinel(envelope))
}
