// Package hybrid implements the hybrid public-key encryption scheme used to
// protect exported private keys in transit.
//
// The scheme is a KEM/DEM construction over NIST P-256 (a modernized variant
// of Shoup's ISO proposal):
//
//   - Elliptic curve (NIST P-256) with explicit point validation
//   - ECDH against the recipient's static public point (KEM)
//   - HKDF-HMAC-SHA256 for key derivation
//   - AES-GCM with a 128-bit key and 16-byte tag (DEM)
//   - A fresh ephemeral key pair per Encrypter, a fresh nonce per message
//
// # Public key format
//
// The recipient public key is a 68-byte blob: a 4-byte opaque key identity
// followed by a 64-byte P-256 point. The point is the juxtaposition of the
// affine x and y coordinates, each serialized as a 32-byte big-endian
// unsigned integer. The point is checked to be on the curve before any key
// agreement takes place.
//
// # Ciphertext format
//
// Every ciphertext is laid out as:
//
//	[version (1 byte, 0x00)][key identity (4 bytes)][ephemeral point (64 bytes)][nonce (12 bytes)][ciphertext+tag]
//
// for a total of 97 + len(plaintext) bytes. The key identity is copied
// verbatim from the input public key so the decrypting side can select the
// matching private key.
//
// # Sessions
//
// An Encrypter performs point validation, ephemeral key generation, ECDH and
// key derivation once, at construction. Every Encrypt call reuses the derived
// key and differs only by its random 12-byte nonce, which is acceptable under
// GCM as long as nonces never repeat. Encrypter is safe for concurrent use:
// all key material is read-only after construction and nonces are drawn from
// crypto/rand.
package hybrid
