// Command keyexport extracts a private key from a PEM keystore and encrypts
// it with hybrid public-key encryption for secure transfer. Optionally the
// ciphertext is signed with a secondary key and packaged in a zip archive
// together with the key's certificate.
package main
