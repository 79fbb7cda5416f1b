package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Download failure classes. Every error returned by Fetch wraps exactly one
// of them, or the context error when the caller cancelled.
// 404 and 410 are ErrNotFound; any other non-200 response is ErrStatus.
var (
	ErrNetwork  = errors.New("network error")
	ErrTimeout  = errors.New("timeout")
	ErrNotFound = errors.New("not found")
	ErrStatus   = errors.New("unexpected status")
)

// Client wraps HTTP operations with fomu-specific configuration.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - In-memory download with progress tracking
//   - Error classification (see ErrNotFound and friends)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client with the given overall request timeout.
// A zero timeout falls back to 60 seconds.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "fomu",
	}
}

// ProgressWriter wraps a writer to track download progress.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Fetch downloads url and returns the body.
//
// onProgress, if non-nil, is called as bytes arrive with (written, total);
// total is -1 when the server sends no Content-Length.
func (c *Client) Fetch(ctx context.Context, url string, onProgress func(written, total int64)) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("%w: HTTP %d for %s", ErrNotFound, resp.StatusCode, url)
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		return nil, fmt.Errorf("%w: HTTP %d for %s", ErrTimeout, resp.StatusCode, url)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: HTTP %d for %s", ErrStatus, resp.StatusCode, url)
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}

	var writer io.Writer = &buf
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   &buf,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return nil, classify(ctx, err)
	}
	if resp.ContentLength > 0 && int64(buf.Len()) != resp.ContentLength {
		return nil, fmt.Errorf("%w: short body for %s (%d of %d bytes)", ErrNetwork, url, buf.Len(), resp.ContentLength)
	}

	return buf.Bytes(), nil
}

func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
		return ctxErr
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
