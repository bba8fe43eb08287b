package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flipyap/ptdl/pkg/common"
	"github.com/flipyap/ptdl/pkg/progress"
)

const (
	// DefaultSizeLimit bounds how much a single download may write to disk,
	// declared or observed. A hostile or misconfigured host must not be able
	// to fill the disk.
	DefaultSizeLimit uint64 = 500 * 1024 * 1024

	// DefaultTimeout covers the whole transfer, not just the connect
	DefaultTimeout = 5 * time.Minute

	chunkSize = 32 * 1024
)

// ErrTooLarge - the remote declared, or actually sent, more bytes than the
// configured size limit allows
var ErrTooLarge = errors.New("download exceeds size limit")

// StatusError is a non-2xx response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: %s", e.Status)
}

// PublishError - the transfer completed but the temporary file could not be
// flushed or renamed into place
type PublishError struct {
	Op  string
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to publish download (%s): %v", e.Op, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Downloader performs bounded, observable HTTP transfers. One call is one
// attempt: retry policy belongs to the caller, which keeps fallback
// behavior out of the transfer path.
type Downloader struct {
	Client    *http.Client
	SizeLimit uint64
}

func New() *Downloader {
	return &Downloader{
		Client:    &http.Client{Timeout: DefaultTimeout},
		SizeLimit: DefaultSizeLimit,
	}
}

// Fetch streams url into dest via a temporary sibling file, emitting a
// progress event after every chunk, and atomically renames the temp file
// over dest once the body is fully consumed. On any failure the temp file
// is removed and dest is left untouched.
func (d *Downloader) Fetch(ctx context.Context, url, dest, item string, sink progress.Sink) error {
	if sink == nil {
		sink = progress.Nop()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	req.Header.Set("User-Agent", common.UserAgent())

	logrus.Tracef("GET %s", url)

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var total uint64
	if resp.ContentLength > 0 {
		total = uint64(resp.ContentLength)
	}
	if total > d.SizeLimit {
		return fmt.Errorf("%w: remote declares %d bytes", ErrTooLarge, total)
	}

	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	fail := func(err error) error {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}

	var downloaded uint64
	buf := make([]byte, chunkSize)

	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			downloaded += uint64(n)
			if downloaded > d.SizeLimit {
				// the server lied about its content length, or never sent one
				return fail(fmt.Errorf("%w: received %d bytes", ErrTooLarge, downloaded))
			}

			if _, werr := f.Write(buf[:n]); werr != nil {
				return fail(fmt.Errorf("write error: %w", werr))
			}

			sink.Emit(progress.Event{
				Item:       item,
				Percent:    percent(downloaded, total),
				Downloaded: downloaded,
				Total:      total,
				Status:     "Downloading...",
			})
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fail(fmt.Errorf("download error: %w", rerr))
		}
	}

	if err := f.Sync(); err != nil {
		return fail(&PublishError{Op: "flush", Err: err})
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return &PublishError{Op: "close", Err: err}
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return &PublishError{Op: "rename", Err: err}
	}

	logrus.Debugf("downloaded %d bytes to %s", downloaded, dest)

	return nil
}

// percent is 0 when the total is unknown, that is a valid terminal value
// for the field, not an error
func percent(downloaded, total uint64) int {
	if total == 0 {
		return 0
	}
	return int(float64(downloaded) / float64(total) * 100.0)
}
