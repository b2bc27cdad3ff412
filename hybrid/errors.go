package hybrid

import "errors"

var (
	// ErrPublicKeyLength is returned when the recipient public key blob is
	// not exactly PublicKeyLength bytes.
	ErrPublicKeyLength = errors.New("public key must be 68 bytes")

	// ErrPointLength is returned when a serialized curve point is not
	// exactly 64 bytes.
	ErrPointLength = errors.New("serialized point must be 64 bytes")

	// ErrPointRange is returned when a deserialized coordinate is outside
	// the P-256 field.
	ErrPointRange = errors.New("point coordinate out of field range")

	// ErrNotOnCurve is returned when a deserialized (x, y) pair does not
	// satisfy the P-256 curve equation.
	ErrNotOnCurve = errors.New("point is not on the curve")

	// ErrKeyAgreement is returned when ECDH produces an invalid shared
	// point. This indicates a malformed key or an arithmetic fault and is
	// never retriable.
	ErrKeyAgreement = errors.New("key agreement produced an invalid point")

	// ErrIntegerTooLarge is returned when a value does not fit the
	// requested fixed-width encoding.
	ErrIntegerTooLarge = errors.New("integer does not fit requested width")

	// ErrKDFLength is returned when more output is requested from the KDF
	// than RFC 5869 allows (255 blocks of the hash length).
	ErrKDFLength = errors.New("requested KDF output length too large")
)
