package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/oshokin/vscode-installer/internal/logger"
)

const (
	// DefaultFilename is used when the final URL has no usable last path segment.
	DefaultFilename = "vscode.deb"

	// directoryPermissions is applied to destination directories created on demand.
	directoryPermissions = 0o755
)

var (
	// ErrBadHTTPStatus is returned for responses outside the 2xx range.
	ErrBadHTTPStatus = errors.New("unexpected http status")
	// ErrIncompleteBody is returned when the body length differs from Content-Length.
	ErrIncompleteBody = errors.New("response body does not match content length")
)

// Fetcher downloads artifacts with a preconfigured HTTP client.
type Fetcher struct {
	client   *http.Client
	progress io.Writer
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithProgress renders a progress bar to w while the body is streamed.
// Nothing is rendered unless w is a terminal.
func WithProgress(w io.Writer) Option {
	return func(f *Fetcher) {
		f.progress = w
	}
}

// NewClient returns an HTTP client whose connection establishment is bounded
// by connectTimeout. The transfer itself has no deadline.
func NewClient(connectTimeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport.
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = connectTimeout

	return &http.Client{Transport: transport}
}

// New creates a Fetcher. A nil client falls back to http.DefaultClient.
func New(client *http.Client, opts ...Option) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}

	f := &Fetcher{client: client}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch downloads rawURL into dir and returns the path of the written file.
// An existing file with the same name is overwritten. The file is closed
// before Fetch returns.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	response, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", rawURL, err)
	}

	defer response.Body.Close() //nolint:errcheck // Body is fully consumed or abandoned on error.

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%s, %s: %w", response.Request.URL, response.Status, ErrBadHTTPStatus)
	}

	finalURL := response.Request.URL
	logger.DebugKV(ctx, "Response received",
		"url", finalURL.String(),
		"status", response.Status,
		"content_length", response.ContentLength)

	if err = os.MkdirAll(dir, directoryPermissions); err != nil {
		return "", fmt.Errorf("create destination directory: %w", err)
	}

	destination := filepath.Join(dir, DestinationName(finalURL))

	written, err := f.writeFile(destination, response.Body, response.ContentLength)
	if err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Downloaded file", "path", destination, "bytes", written)

	return destination, nil
}

// writeFile streams body into path and closes the file before returning.
func (f *Fetcher) writeFile(path string, body io.Reader, size int64) (written int64, err error) {
	outputFile, err := os.Create(filepath.Clean(path))
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	defer func() {
		if closeErr := outputFile.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close %s: %w", path, closeErr))
		}
	}()

	reader, finish := progress(f.progress, body, size)
	written, err = io.Copy(outputFile, reader)

	finish()

	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return written, fmt.Errorf("%d of %d bytes: %w: %w", written, size, ErrIncompleteBody, err)
	case err != nil:
		return written, fmt.Errorf("download into %s: %w", path, err)
	}

	if size >= 0 && written != size {
		return written, fmt.Errorf("%d of %d bytes: %w", written, size, ErrIncompleteBody)
	}

	return written, nil
}

// DestinationName returns the last path segment of u, or DefaultFilename
// when that segment is missing, empty or a relative directory reference.
func DestinationName(u *url.URL) string {
	if u == nil {
		return DefaultFilename
	}

	segments := strings.Split(u.Path, "/")
	name := segments[len(segments)-1]

	switch name {
	case "", ".", "..":
		return DefaultFilename
	default:
		return name
	}
}
