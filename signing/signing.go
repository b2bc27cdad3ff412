// Package signing produces the detached signature that optionally
// accompanies an exported ciphertext, letting the receiving side verify who
// performed the export. Signatures are SHA-512 with RSA (PKCS#1 v1.5); keys
// of any other type are rejected.
package signing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"errors"
	"fmt"
)

// ErrUnsupportedAlgorithm is returned when the signing key is not an RSA
// key. The verifying side only accepts SHA512withRSA.
var ErrUnsupportedAlgorithm = errors.New("signing key uses an unsupported algorithm, only RSA is supported")

// Sign returns a detached SHA-512 RSA signature over payload.
func Sign(payload []byte, key crypto.PrivateKey) ([]byte, error) {
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrUnsupportedAlgorithm, key)
	}
	digest := sha512.Sum512(payload)
	signature, err := rsa.SignPKCS1v15(rand.Reader, rsaKey, crypto.SHA512, digest[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}
	return signature, nil
}
