// Package keystore reads private-key material for the export tool.
//
// The Java origin of this tool read JKS keystores; the Go port works on PEM
// files, which is what the tool emits inside its ciphertext anyway. A key
// reference is a path plus an optional alias: when the path is a directory
// the alias selects "<alias>.pem" inside it, otherwise the path names the
// PEM file directly.
//
// Supported private-key blocks are PKCS#8 ("PRIVATE KEY"), passphrase
// protected PKCS#8 ("ENCRYPTED PRIVATE KEY"), SEC 1 ("EC PRIVATE KEY") and
// PKCS#1 ("RSA PRIVATE KEY"). Passphrases are requested lazily through a
// PasswordFunc, so nothing prompts unless an encrypted key is actually
// encountered. Certificates are read from "CERTIFICATE" blocks in the same
// file.
package keystore
