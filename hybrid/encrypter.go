package hybrid

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"

	"go.uber.org/atomic"
)

const (
	// Version is the wire format version byte, the first byte of every
	// ciphertext.
	Version byte = 0

	// KeyIDLength is the length of the opaque key identity prefixed to the
	// recipient public key and copied into every ciphertext.
	KeyIDLength = 4

	// PublicKeyLength is the exact length of a recipient public key blob:
	// key identity followed by a serialized P-256 point.
	PublicKeyLength = KeyIDLength + pointLength

	// Overhead is the number of bytes a ciphertext adds on top of the
	// plaintext length.
	Overhead = 1 + KeyIDLength + pointLength + nonceLength + tagLength

	demKeyLength = 16
	nonceLength  = 12
	tagLength    = 16
)

// kdfInfo is the fixed application tag bound into the key derivation. It must
// match the decrypting side byte for byte.
var kdfInfo = []byte("GOOGLE_KEYMASTER")

// Encrypter is an encryption session bound to one recipient public key. The
// ephemeral key exchange and key derivation happen once, at construction;
// every Encrypt call shares the derived key and differs only by nonce.
// Safe for concurrent use.
type Encrypter struct {
	keyID    [KeyIDLength]byte
	kemToken []byte // serialized ephemeral public point, 64 bytes
	demKey   []byte // derived AES key, 16 bytes

	messages atomic.Int64
}

// NewEncrypter creates an encryption session from a serialized recipient
// public key: a 4-byte key identity followed by a 64-byte P-256 point. The
// point is validated against the curve equation before any key agreement.
func NewEncrypter(publicKey []byte) (*Encrypter, error) {
	if len(publicKey) != PublicKeyLength {
		return nil, fmt.Errorf("%w: got %d bytes", ErrPublicKeyLength, len(publicKey))
	}

	recipient, err := deserializePoint(publicKey[KeyIDLength:])
	if err != nil {
		return nil, fmt.Errorf("recipient point: %w", err)
	}

	ephemeral, err := ecdsa.GenerateKey(p256, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
	}

	kemToken, err := serializePoint(point{x: ephemeral.X, y: ephemeral.Y})
	if err != nil {
		return nil, fmt.Errorf("ephemeral point: %w", err)
	}

	shared, err := ecdh(ephemeral, recipient)
	if err != nil {
		return nil, err
	}

	ikm := make([]byte, 0, len(kemToken)+len(shared))
	ikm = append(ikm, kemToken...)
	ikm = append(ikm, shared...)

	// nil salt selects the RFC 5869 zero-filled default. The derived key is
	// 16 bytes (AES-128-GCM); the decrypting side expects exactly this.
	demKey, err := deriveKey(ikm, nil, kdfInfo, demKeyLength)
	if err != nil {
		return nil, err
	}

	enc := &Encrypter{
		kemToken: kemToken,
		demKey:   demKey,
	}
	copy(enc.keyID[:], publicKey[:KeyIDLength])
	return enc, nil
}

// Encrypt performs hybrid encryption on the plaintext. The result is the
// version byte, the 4-byte key identity, the session's 64-byte ephemeral
// point, a fresh random 12-byte nonce, and the AES-GCM ciphertext with its
// 16-byte tag, for a total of Overhead + len(plaintext) bytes.
func (e *Encrypter) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed, err := demEncrypt(e.demKey, nonce, plaintext)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, Overhead+len(plaintext))
	out = append(out, Version)
	out = append(out, e.keyID[:]...)
	out = append(out, e.kemToken...)
	out = append(out, nonce...)
	out = append(out, sealed...)

	e.messages.Inc()
	return out, nil
}

// KeyID returns the 4-byte key identity this session encrypts for.
func (e *Encrypter) KeyID() []byte {
	id := make([]byte, KeyIDLength)
	copy(id, e.keyID[:])
	return id
}

// Messages returns the number of ciphertexts produced by this session.
func (e *Encrypter) Messages() int64 {
	return e.messages.Load()
}

// ecdh computes the Diffie-Hellman shared secret between the ephemeral
// private key and the recipient's public point: the x coordinate of the
// product, serialized as a 32-byte big-endian unsigned integer.
func ecdh(priv *ecdsa.PrivateKey, pub point) ([]byte, error) {
	x, y := p256.ScalarMult(pub.x, pub.y, priv.D.Bytes())
	if x == nil || (x.Sign() == 0 && y.Sign() == 0) {
		return nil, ErrKeyAgreement
	}
	shared, err := encodeUint(x, fieldLength)
	if err != nil {
		return nil, fmt.Errorf("shared secret: %w", err)
	}
	return shared, nil
}

// demEncrypt seals the plaintext under the derived key with AES-GCM and a
// 16-byte tag, no associated data. The output is len(plaintext)+16 bytes.
func demEncrypt(key, nonce, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead.Seal(nil, nonce, plaintext, nil), nil
}
