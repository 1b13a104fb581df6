package binary

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// VerifyOptions enables optional integrity checks on a downloaded asset.
type VerifyOptions struct {
	// SHA256 maps platform tags to expected hex digests.
	SHA256 map[string]string
	// PublicKeyFile is an OpenPGP public key (armored or binary). When set,
	// <asset-url>.sig must be a valid detached signature by that key.
	PublicKeyFile string
}

// Enabled reports whether any check is configured for tag.
func (o VerifyOptions) Enabled(tag string) bool {
	return o.PublicKeyFile != "" || o.SHA256[tag] != ""
}

// Verifier checks downloaded assets before they are moved into place.
type Verifier struct {
	opts       VerifyOptions
	downloader *Downloader
}

// NewVerifier creates a verifier. The downloader fetches signature files.
func NewVerifier(opts VerifyOptions, downloader *Downloader) *Verifier {
	return &Verifier{opts: opts, downloader: downloader}
}

// Verify runs every configured check against the temp file and returns the
// strongest method that passed.
func (v *Verifier) Verify(ctx context.Context, file *TempFile, assetURL, tag string) (VerificationMethod, error) {
	method := VerificationNone

	if want := v.opts.SHA256[tag]; want != "" {
		if err := verifyDigest(file.SHA256, want); err != nil {
			return VerificationNone, err
		}
		method = VerificationSHA256
	}

	if v.opts.PublicKeyFile != "" {
		if err := v.verifySignature(ctx, file.Path, SignatureURL(assetURL)); err != nil {
			return VerificationNone, err
		}
		method = VerificationGPG
	}

	return method, nil
}

func verifyDigest(actual, expected string) error {
	expected = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(expected, "sha256:")))
	if actual != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}

func (v *Verifier) verifySignature(ctx context.Context, binaryPath, sigURL string) error {
	keyring, err := loadKeyring(v.opts.PublicKeyFile)
	if err != nil {
		return fmt.Errorf("load keyring: %w", err)
	}

	var sig bytes.Buffer
	if _, err := v.downloader.Fetch(ctx, sigURL, &sig); err != nil {
		return fmt.Errorf("download signature: %w", err)
	}

	binaryFile, err := os.Open(binaryPath)
	if err != nil {
		return fmt.Errorf("open binary: %w", err)
	}
	defer binaryFile.Close()

	// Try armored first, then binary.
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, binaryFile, bytes.NewReader(sig.Bytes()), nil)
	if err != nil {
		if _, seekErr := binaryFile.Seek(0, io.SeekStart); seekErr != nil {
			return fmt.Errorf("rewind binary: %w", seekErr)
		}
		_, err = openpgp.CheckDetachedSignature(keyring, binaryFile, bytes.NewReader(sig.Bytes()), nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	return nil
}

// loadKeyring reads an armored or binary OpenPGP public key file.
func loadKeyring(path string) (openpgp.EntityList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}

	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		keyring, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
	}
	if len(keyring) == 0 {
		return nil, fmt.Errorf("no keys found in %s", path)
	}
	return keyring, nil
}
