package export

import (
	"archive/zip"
	"fmt"
	"os"
)

// Zip entry names expected by the receiving side.
const (
	zipEntrySignature   = "encryptedPrivateKeySignature"
	zipEntryCiphertext  = "encryptedPrivateKey"
	zipEntryCertificate = "certificate.pem"
)

// writeZip assembles the export archive. The signature entry is omitted when
// signature is nil.
func writeZip(path string, signature, ciphertext, certPEM []byte) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	archive := zip.NewWriter(out)
	entries := []struct {
		name string
		data []byte
	}{
		{zipEntrySignature, signature},
		{zipEntryCiphertext, ciphertext},
		{zipEntryCertificate, certPEM},
	}
	for _, entry := range entries {
		if entry.name == zipEntrySignature && signature == nil {
			continue
		}
		w, err := archive.Create(entry.name)
		if err != nil {
			return fmt.Errorf("failed to create zip entry %s: %w", entry.name, err)
		}
		if _, err := w.Write(entry.data); err != nil {
			return fmt.Errorf("failed to write zip entry %s: %w", entry.name, err)
		}
	}
	if err := archive.Close(); err != nil {
		return fmt.Errorf("failed to finalize zip archive: %w", err)
	}
	return out.Close()
}
