// Package export orchestrates the private-key export pipeline: it reads a
// key from a PEM keystore, serializes it as PKCS#8 PEM, encrypts it with the
// hybrid scheme for the configured recipient public key, optionally signs
// the ciphertext with a secondary key, and writes either the raw ciphertext
// or a zip archive.
//
// The zip archive layout matches the receiving side's expectations:
//
//	encryptedPrivateKeySignature  (only when a signing key is configured)
//	encryptedPrivateKey
//	certificate.pem
//
// The recipient public key arrives as a hex string (two characters per
// byte); ParseRecipientKey rejects odd-length input before decoding.
package export
