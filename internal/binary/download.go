package binary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/schollz/progressbar/v3"
)

const (
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "ghgrab-bootstrap/1.0"
	// MaxRedirects bounds how many redirects a release download may follow.
	MaxRedirects = 10
)

// Downloader fetches release assets over HTTP. It makes exactly one attempt
// per call; retrying is left to whoever invoked provisioning.
type Downloader struct {
	client    *http.Client
	userAgent string
	// progress receives a progress bar while a download runs; nil disables it.
	progress io.Writer
}

// NewHTTPClient returns the client used for release downloads. A zero timeout
// means no timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
}

// NewDownloader creates a downloader. A nil client gets NewHTTPClient(0).
func NewDownloader(client *http.Client, progress io.Writer) *Downloader {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &Downloader{
		client:    client,
		userAgent: DefaultUserAgent,
		progress:  progress,
	}
}

// Fetch streams the body of url into dst and returns the number of bytes written.
func (d *Downloader) Fetch(ctx context.Context, url string, dst io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("GET %s: release asset not found (HTTP 404)", url)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("GET %s: unexpected status code: %d", url, resp.StatusCode)
	}

	w := dst
	var bar *progressbar.ProgressBar
	if d.progress != nil {
		bar = progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(d.progress),
			progressbar.OptionSetDescription("downloading "+path.Base(url)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		w = io.MultiWriter(dst, bar)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("copy response body: %w", err)
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		return n, fmt.Errorf("short body: got %d of %d bytes", n, resp.ContentLength)
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return n, nil
}

// TempFile is a fully written download that has not been moved into place.
type TempFile struct {
	Path   string
	Size   int64
	SHA256 string
}

// Remove deletes the temporary file. Safe to call after it was renamed.
func (t *TempFile) Remove() {
	if t == nil || t.Path == "" {
		return
	}
	_ = os.Remove(t.Path)
}

// DownloadToTemp fetches url into a new temporary file in dir. On any error
// the temporary file is removed and nothing is left behind in dir.
func (d *Downloader) DownloadToTemp(ctx context.Context, url, dir string) (*TempFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create dest dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ghgrab-download-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	hasher := sha256.New()
	n, err := d.Fetch(ctx, url, io.MultiWriter(tmp, hasher))
	if err != nil {
		return nil, err
	}

	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	cleanupNeeded = false
	return &TempFile{
		Path:   tmpPath,
		Size:   n,
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}
