package binary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ReceiptFileName is the install receipt written next to the binary.
const ReceiptFileName = "ghgrab.receipt.toml"

// Receipt records the last successful provision. It is informational only;
// the launcher never reads it.
type Receipt struct {
	Version     string    `toml:"version"`
	Platform    string    `toml:"platform"`
	URL         string    `toml:"url"`
	SHA256      string    `toml:"sha256"`
	Verified    string    `toml:"verified"`
	InstalledAt time.Time `toml:"installed_at"`
}

// ReceiptPath returns the receipt location for installDir.
func ReceiptPath(installDir string) string {
	return filepath.Join(installDir, ReceiptFileName)
}

// WriteReceipt atomically replaces the receipt in installDir.
func WriteReceipt(installDir string, r Receipt) error {
	data, err := toml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}

	tmp, err := os.CreateTemp(installDir, ".ghgrab-receipt-*")
	if err != nil {
		return fmt.Errorf("create temp receipt: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write receipt: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close receipt: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod receipt: %w", err)
	}
	if err := os.Rename(tmpPath, ReceiptPath(installDir)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename receipt: %w", err)
	}
	return nil
}

// ReadReceipt loads the receipt from installDir. It returns ErrNoReceipt when
// none has been written.
func ReadReceipt(installDir string) (*Receipt, error) {
	data, err := os.ReadFile(ReceiptPath(installDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoReceipt
		}
		return nil, fmt.Errorf("read receipt: %w", err)
	}

	var r Receipt
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}
	return &r, nil
}
