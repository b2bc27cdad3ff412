package export

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/keymaestro/keyexport/hybrid"
	"github.com/keymaestro/keyexport/keystore"
	"github.com/keymaestro/keyexport/signing"
)

// ErrOddLengthHex is returned when the recipient public key hex string has
// an odd number of characters.
var ErrOddLengthHex = errors.New("hex encoded public key must have even length")

// ParseRecipientKey decodes the hex-encoded recipient public key supplied on
// the command line. Length validation of the decoded blob is left to
// hybrid.NewEncrypter.
func ParseRecipientKey(hexKey string) ([]byte, error) {
	if len(hexKey)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d characters", ErrOddLengthHex, len(hexKey))
	}
	blob, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid hex encoded public key: %w", err)
	}
	return blob, nil
}

// Config collects everything one export run needs.
type Config struct {
	Log *slog.Logger

	// Key is the private key to export.
	Key keystore.Key

	// SigningKey optionally signs the ciphertext. When set, the output is a
	// zip archive containing the signature, the ciphertext and the exported
	// key's certificate.
	SigningKey *keystore.Key

	// RecipientKeyHex is the hex-encoded 68-byte recipient public key.
	RecipientKeyHex string

	// OutputPath receives the ciphertext, or the zip archive when signing
	// or certificate inclusion is requested.
	OutputPath string

	// IncludeCertificate forces zip output with the certificate even
	// without a signing key.
	IncludeCertificate bool

	// Password supplies keystore passphrases. Nil means terminal prompt.
	Password keystore.PasswordFunc
}

// Exporter runs the export pipeline.
type Exporter struct {
	cfg *Config
	log *slog.Logger
}

// New creates an Exporter for the given configuration.
func New(cfg *Config) *Exporter {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{cfg: cfg, log: log}
}

// Run performs one export: load, encrypt, optionally sign, write.
func (e *Exporter) Run() error {
	recipientKey, err := ParseRecipientKey(e.cfg.RecipientKeyHex)
	if err != nil {
		return err
	}

	encrypter, err := hybrid.NewEncrypter(recipientKey)
	if err != nil {
		return fmt.Errorf("invalid encryption key: %w", err)
	}
	e.log.Debug("encryption session established", "keyID", fmt.Sprintf("%x", encrypter.KeyID()))

	privateKey, err := keystore.LoadPrivateKey(e.cfg.Key, e.cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to load key to export: %w", err)
	}
	plaintext, err := keystore.PrivateKeyToPEM(privateKey)
	if err != nil {
		return err
	}

	ciphertext, err := encrypter.Encrypt(plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt private key: %w", err)
	}
	e.log.Info("private key encrypted", "ciphertextBytes", len(ciphertext))

	if e.cfg.SigningKey == nil && !e.cfg.IncludeCertificate {
		if err := os.WriteFile(e.cfg.OutputPath, ciphertext, 0o600); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		e.log.Info("wrote encrypted private key", "path", e.cfg.OutputPath)
		return nil
	}

	cert, err := keystore.LoadCertificate(e.cfg.Key)
	if err != nil {
		return fmt.Errorf("failed to load certificate for exported key: %w", err)
	}

	var signature []byte
	if e.cfg.SigningKey != nil {
		signingKey, err := keystore.LoadPrivateKey(*e.cfg.SigningKey, e.cfg.Password)
		if err != nil {
			return fmt.Errorf("failed to load signing key: %w", err)
		}
		signature, err = signing.Sign(ciphertext, signingKey)
		if err != nil {
			return err
		}
		e.log.Info("ciphertext signed", "signatureBytes", len(signature))
	}

	if err := writeZip(e.cfg.OutputPath, signature, ciphertext, keystore.CertificateToPEM(cert)); err != nil {
		return err
	}
	e.log.Info("wrote export archive", "path", e.cfg.OutputPath)
	return nil
}
