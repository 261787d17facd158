package cache

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Dir is a Store keeping one file per entry below a root directory.
// Each file starts with the expiry as unix nanoseconds on its own line.
// Writes go to a temp file that is renamed into place.
type Dir struct {
	root string
	now  func() time.Time
}

// NewDir creates root if needed and returns a Dir store on it.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		return nil, errors.New("cache dir must not be empty")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving cache dir: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	return &Dir{root: abs, now: time.Now}, nil
}

// Path returns the root directory.
func (d *Dir) Path() string {
	return d.root
}

func (d *Dir) file(key string) string {
	return filepath.Join(d.root, key[:2], key)
}

func (d *Dir) Get(_ context.Context, key string) ([]byte, bool, error) {
	if !validKey(key) {
		return nil, false, ErrInvalidKey
	}

	raw, err := os.ReadFile(d.file(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	br := bufio.NewReader(bytes.NewReader(raw))
	line, err := br.ReadString('\n')
	if err != nil {
		return nil, false, fmt.Errorf("reading cache header: %w", err)
	}

	expires, err := strconv.ParseInt(line[:len(line)-1], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("parsing cache header: %w", err)
	}

	if d.now().UnixNano() >= expires {
		_ = os.Remove(d.file(key))
		return nil, false, nil
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return nil, false, fmt.Errorf("reading cache body: %w", err)
	}

	return data, true, nil
}

func (d *Dir) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if !validKey(key) {
		return ErrInvalidKey
	}

	dest := d.file(key)
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache shard: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmdb-cache-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool
	defer func() {
		if !successful {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	header := strconv.FormatInt(d.now().Add(ttl).UnixNano(), 10) + "\n"
	if _, err := io.WriteString(tmp, header); err != nil {
		return fmt.Errorf("writing cache header: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing cache body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	successful = true

	return nil
}

func (d *Dir) Delete(_ context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}

	if err := os.Remove(d.file(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing cache entry: %w", err)
	}

	return nil
}
