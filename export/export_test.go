package export

import (
	"archive/zip"
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"encoding/pem"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/keymaestro/keyexport/hybrid"
	"github.com/keymaestro/keyexport/keystore"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/hkdf"
)

// newRecipient generates a recipient key pair and returns the private key
// together with the hex-encoded 68-byte public key blob the CLI would take.
func newRecipient(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	blob := make([]byte, 0, hybrid.PublicKeyLength)
	blob = append(blob, 0xde, 0xad, 0xbe, 0xef)
	blob = append(blob, key.X.FillBytes(make([]byte, 32))...)
	blob = append(blob, key.Y.FillBytes(make([]byte, 32))...)
	return key, hex.EncodeToString(blob)
}

// decryptExport reverses the hybrid scheme with the recipient private key,
// from primitives, independent of the hybrid package internals.
func decryptExport(t *testing.T, recipient *ecdsa.PrivateKey, ciphertext []byte) []byte {
	t.Helper()
	require.Greater(t, len(ciphertext), 97)
	require.Equal(t, byte(0), ciphertext[0])

	ephemeral := ciphertext[5:69]
	nonce := ciphertext[69:81]
	sealed := ciphertext[81:]

	x := new(big.Int).SetBytes(ephemeral[:32])
	y := new(big.Int).SetBytes(ephemeral[32:])
	sharedX, _ := elliptic.P256().ScalarMult(x, y, recipient.D.Bytes())

	ikm := append(append([]byte{}, ephemeral...), sharedX.FillBytes(make([]byte, 32))...)
	key := make([]byte, 16)
	_, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, []byte("GOOGLE_KEYMASTER")), key)
	require.NoError(t, err)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	aead, err := cipher.NewGCM(block)
	require.NoError(t, err)
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	require.NoError(t, err)
	return plaintext
}

// writeExportKeystore writes a PEM keystore with a fresh EC key and a
// matching self-signed certificate, returning the path and the key.
func writeExportKeystore(t *testing.T) (string, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "exported key"},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(time.Hour),
	}
	certDER, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	data := append(
		pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}),
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})...,
	)
	path := filepath.Join(t.TempDir(), "keystore.pem")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path, key
}

func TestParseRecipientKey(t *testing.T) {
	blob, err := ParseRecipientKey("0a0b0c")
	require.NoError(t, err)
	require.Equal(t, []byte{0x0a, 0x0b, 0x0c}, blob)

	_, err = ParseRecipientKey("0a0b0")
	require.ErrorIs(t, err, ErrOddLengthHex)

	_, err = ParseRecipientKey("zz")
	require.Error(t, err)
}

func TestRunRawOutput(t *testing.T) {
	recipient, recipientHex := newRecipient(t)
	keystorePath, exported := writeExportKeystore(t)
	outputPath := filepath.Join(t.TempDir(), "encrypted.bin")

	exporter := New(&Config{
		Key:             keystore.Key{Path: keystorePath},
		RecipientKeyHex: recipientHex,
		OutputPath:      outputPath,
	})
	require.NoError(t, exporter.Run())

	ciphertext, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, ciphertext[1:5])

	plaintext := decryptExport(t, recipient, ciphertext)
	block, _ := pem.Decode(plaintext)
	require.NotNil(t, block)
	require.Equal(t, "PRIVATE KEY", block.Type)

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)
	require.Equal(t, 0, exported.D.Cmp(parsed.(*ecdsa.PrivateKey).D))
}

func TestRunSignedZipOutput(t *testing.T) {
	recipient, recipientHex := newRecipient(t)
	keystorePath, _ := writeExportKeystore(t)

	signingKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signingPath := filepath.Join(t.TempDir(), "signing.pem")
	signingPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(signingKey),
	})
	require.NoError(t, os.WriteFile(signingPath, signingPEM, 0o600))

	outputPath := filepath.Join(t.TempDir(), "export.zip")
	exporter := New(&Config{
		Key:             keystore.Key{Path: keystorePath},
		SigningKey:      &keystore.Key{Path: signingPath},
		RecipientKeyHex: recipientHex,
		OutputPath:      outputPath,
	})
	require.NoError(t, exporter.Run())

	archive, err := zip.OpenReader(outputPath)
	require.NoError(t, err)
	defer archive.Close()

	entries := map[string][]byte{}
	for _, f := range archive.File {
		r, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		entries[f.Name] = data
	}
	require.Len(t, entries, 3)

	ciphertext := entries["encryptedPrivateKey"]
	require.NotEmpty(t, ciphertext)
	decryptExport(t, recipient, ciphertext)

	digest := sha512.Sum512(ciphertext)
	require.NoError(t, rsa.VerifyPKCS1v15(
		&signingKey.PublicKey, crypto.SHA512, digest[:], entries["encryptedPrivateKeySignature"]))

	certBlock, _ := pem.Decode(entries["certificate.pem"])
	require.NotNil(t, certBlock)
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	require.NoError(t, err)
	require.Equal(t, "exported key", cert.Subject.CommonName)
}

func TestRunIncludeCertificateWithoutSigning(t *testing.T) {
	_, recipientHex := newRecipient(t)
	keystorePath, _ := writeExportKeystore(t)
	outputPath := filepath.Join(t.TempDir(), "export.zip")

	exporter := New(&Config{
		Key:                keystore.Key{Path: keystorePath},
		RecipientKeyHex:    recipientHex,
		OutputPath:         outputPath,
		IncludeCertificate: true,
	})
	require.NoError(t, exporter.Run())

	archive, err := zip.OpenReader(outputPath)
	require.NoError(t, err)
	defer archive.Close()

	names := make([]string, 0, len(archive.File))
	for _, f := range archive.File {
		names = append(names, f.Name)
	}
	require.ElementsMatch(t, []string{"encryptedPrivateKey", "certificate.pem"}, names)
}

func TestRunRejectsBadRecipientKey(t *testing.T) {
	keystorePath, _ := writeExportKeystore(t)

	testCases := []struct {
		name string
		hex  string
	}{
		{"odd length", "abc"},
		{"not hex", "zz"},
		{"wrong length", "0102"},
		{"not on curve", hex.EncodeToString(make([]byte, hybrid.PublicKeyLength))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			exporter := New(&Config{
				Key:             keystore.Key{Path: keystorePath},
				RecipientKeyHex: tc.hex,
				OutputPath:      filepath.Join(t.TempDir(), "out"),
			})
			require.Error(t, exporter.Run())
		})
	}
}
