package messaging

// Sentinel is the fixed placeholder substituted for a message body that
// cannot be decrypted. Corrupted or differently-keyed rows degrade to
// this value instead of failing the whole read.
const Sentinel = "[Encrypted Message]"

// BodyCodec encrypts and decrypts message bodies.
//
// Decrypt returns a typed error so tests and callers can distinguish
// "decoded fine" from "recovered from failure"; DecryptOrSentinel is the
// response-boundary form that converts any failure into Sentinel and
// never fails.
type BodyCodec interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(envelope string) (string, error)
	DecryptOrSentinel(envelope string) string
}
