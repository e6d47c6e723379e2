// Package snapshot packages a session's ledger and budget into a
// passphrase-encrypted file the user can download and later restore. The
// server never stores snapshots; the user holds the file.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"filippo.io/age"

	"expensedash/internal/models"
)

// ageHeader is the prefix of Age-encrypted files
const ageHeader = "age-encryption.org"

// MIMEType for snapshot downloads
const MIMEType = "application/octet-stream"

// Payload is the snapshot content: the raw ledger and budget as of SavedAt
type Payload struct {
	Ledger  []models.ExpenseRecord `json:"ledger"`
	Budget  float64                `json:"budget"`
	SavedAt time.Time              `json:"saved_at"`
}

// Filename embeds the generation timestamp
func Filename(now time.Time) string {
	return fmt.Sprintf("expense_session_%s.age", now.Format("20060102_150405"))
}

// Encrypt serializes the payload and encrypts it with the passphrase
func Encrypt(p *Payload, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase is required")
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipient: %w", err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decrypt decrypts and decodes a snapshot with the passphrase
func Decrypt(data []byte, passphrase string) (*Payload, error) {
	if !isAgeEncrypted(data) {
		return nil, fmt.Errorf("not a snapshot file")
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, fmt.Errorf("incorrect passphrase")
	}

	decrypted, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("incorrect passphrase")
	}

	var p Payload
	if err := json.Unmarshal(decrypted, &p); err != nil {
		return nil, fmt.Errorf("invalid snapshot content: %w", err)
	}
	return &p, nil
}

// isAgeEncrypted checks if data starts with the Age encryption header
func isAgeEncrypted(data []byte) bool {
	return len(data) > len(ageHeader) && string(data[:len(ageHeader)]) == ageHeader
}
