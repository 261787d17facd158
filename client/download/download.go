package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Skip reports whether optFns ask to skip existing files and destPath
// already exists. Callers check it before sending a request so an existing
// file costs no transfer.
func Skip(destPath string, optFns ...Option) (bool, error) {
	opts, err := resolve(optFns)
	if err != nil {
		return false, err
	}
	if !opts.skipExisting {
		return false, nil
	}

	_, err = os.Stat(destPath)
	return err == nil, nil
}

func resolve(optFns []Option) (options, error) {
	opts := options{perm: 0o644}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return options{}, fmt.Errorf("applying option: %w", err)
		}
	}
	return opts, nil
}

// ToFile streams body into destPath, creating parent directories as
// needed. contentLength < 0 means unknown and skips the length check.
func ToFile(ctx context.Context, body io.Reader, contentLength int64, destPath string, logger *slog.Logger, optFns ...Option) error {
	opts, err := resolve(optFns)
	if err != nil {
		return err
	}

	if opts.skipExisting {
		if _, err := os.Stat(destPath); err == nil {
			logger.Debug("skipping existing file", "path", destPath)
			return nil
		}
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}

	file, err := os.CreateTemp(dir, ".tmdb-dl-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing temp file", "error", err)
		}
		if !successful {
			if err := os.Remove(file.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
				logger.Error("failed to remove temp file", "error", err)
			}
		}
	}()

	var w io.Writer = file
	if opts.progress {
		w = &progressWriter{
			w:       file,
			logger:  logger,
			path:    destPath,
			total:   contentLength,
			started: time.Now(),
		}
	}

	n, err := io.Copy(w, &contextReader{ctx: ctx, r: body})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrDownloadCancelled, err)
		}

		return fmt.Errorf("copying body: %w", err)
	}

	if contentLength >= 0 && n != contentLength {
		return &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("expected %d bytes, got %d", contentLength, n),
		}
	}

	if err := file.Chmod(opts.perm); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(file.Name(), destPath); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	successful = true

	return nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
