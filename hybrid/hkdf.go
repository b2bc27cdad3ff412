package hybrid

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// maxKDFOutput is the RFC 5869 hard limit: at most 255 blocks of the hash
// output length per expand invocation.
const maxKDFOutput = 255 * sha256.Size

// deriveKey runs HKDF-HMAC-SHA256 extract-and-expand over ikm and returns
// length bytes of output key material. A nil salt selects the RFC 5869
// default, a zero-filled buffer of the hash length; callers wanting salt to
// contribute entropy must supply their own. The length is validated against
// the RFC 5869 limit before any HMAC computation.
func deriveKey(ikm, salt, info []byte, length int) ([]byte, error) {
	if length > maxKDFOutput {
		return nil, fmt.Errorf("%w: %d > %d", ErrKDFLength, length, maxKDFOutput)
	}
	okm := make([]byte, length)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, salt, info), okm); err != nil {
		return nil, fmt.Errorf("hkdf expand: %w", err)
	}
	return okm, nil
}
