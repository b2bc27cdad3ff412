package keystore

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/youmark/pkcs8"
	"golang.org/x/term"
)

var (
	// ErrNoPrivateKey is returned when the keystore file contains no
	// private-key PEM block.
	ErrNoPrivateKey = errors.New("no private key found in keystore")

	// ErrNoCertificate is returned when a certificate is requested but the
	// keystore file contains no CERTIFICATE block.
	ErrNoCertificate = errors.New("no certificate found in keystore")
)

// PasswordFunc supplies the passphrase for an encrypted private key. It is
// only invoked when one is needed.
type PasswordFunc func(prompt string) ([]byte, error)

// TerminalPassword prompts for a passphrase on the controlling terminal
// without echoing it.
func TerminalPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)
	return term.ReadPassword(int(os.Stdin.Fd()))
}

// Key identifies a private key held in a PEM keystore. When Path is a
// directory, Alias selects "<Alias>.pem" within it.
type Key struct {
	Path  string
	Alias string
}

func (k Key) file() (string, error) {
	info, err := os.Stat(k.Path)
	if err != nil {
		return "", fmt.Errorf("keystore %s: %w", k.Path, err)
	}
	if !info.IsDir() {
		return k.Path, nil
	}
	if k.Alias == "" {
		return "", fmt.Errorf("keystore %s is a directory and no alias was given", k.Path)
	}
	return filepath.Join(k.Path, k.Alias+".pem"), nil
}

// LoadPrivateKey reads and parses the private key identified by k. The
// password function is consulted only for ENCRYPTED PRIVATE KEY blocks; a
// nil password function defaults to a terminal prompt.
func LoadPrivateKey(k Key, password PasswordFunc) (crypto.PrivateKey, error) {
	if password == nil {
		password = TerminalPassword
	}

	path, err := k.file()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}

	for block, rest := pem.Decode(data); block != nil; block, rest = pem.Decode(rest) {
		switch block.Type {
		case "ENCRYPTED PRIVATE KEY":
			pass, err := password(fmt.Sprintf("Enter password for key '%s': ", filepath.Base(path)))
			if err != nil {
				return nil, fmt.Errorf("failed to read password: %w", err)
			}
			key, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, pass)
			if err != nil {
				return nil, fmt.Errorf("failed to decrypt private key: %w", err)
			}
			return key, nil
		case "PRIVATE KEY":
			key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("failed to parse PKCS#8 private key: %w", err)
			}
			return key, nil
		case "EC PRIVATE KEY":
			key, err := x509.ParseECPrivateKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("failed to parse EC private key: %w", err)
			}
			return key, nil
		case "RSA PRIVATE KEY":
			key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
			}
			return key, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoPrivateKey, path)
}

// LoadCertificate reads the first certificate stored alongside the key.
func LoadCertificate(k Key) (*x509.Certificate, error) {
	path, err := k.file()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}

	for block, rest := pem.Decode(data); block != nil; block, rest = pem.Decode(rest) {
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate: %w", err)
		}
		return cert, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoCertificate, path)
}

// PrivateKeyToPEM serializes a private key as an unencrypted PKCS#8 PEM
// block. This is the plaintext the export tool encrypts.
func PrivateKeyToPEM(key crypto.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// CertificateToPEM serializes a certificate as a PEM block.
func CertificateToPEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}
