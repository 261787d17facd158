package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/adamwoolhether/tmdb/client"
	"github.com/adamwoolhether/tmdb/client/download"
)

// DefaultImageBaseURL serves images until a configuration is loaded.
const DefaultImageBaseURL = "https://image.tmdb.org/t/p/"

// SizeOriginal is the untouched upload of an image.
const SizeOriginal = "original"

// ErrUnknownSize is returned for an image size the configuration does
// not list.
var ErrUnknownSize = errors.New("unknown image size")

// ImagesService resolves image paths such as "/kqjL17yufvn9OVLyXYpvtyrFfak.jpg"
// to URLs and downloads them. Sizes come from the API configuration,
// loaded once on first use.
type ImagesService struct {
	client *Client

	mu     sync.Mutex
	config *ImagesConfiguration
}

// Configure fetches the image configuration, replacing any loaded one.
func (s *ImagesService) Configure(ctx context.Context) (ImagesConfiguration, error) {
	cfg, err := s.client.Configuration.Load(ctx)
	if err != nil {
		return ImagesConfiguration{}, fmt.Errorf("loading image configuration: %w", err)
	}

	s.mu.Lock()
	s.config = &cfg.Images
	s.mu.Unlock()

	return cfg.Images, nil
}

func (s *ImagesService) configuration(ctx context.Context) (ImagesConfiguration, error) {
	s.mu.Lock()
	cfg := s.config
	s.mu.Unlock()

	if cfg != nil {
		return *cfg, nil
	}

	return s.Configure(ctx)
}

// URL resolves path at size, e.g. URL("/abc.jpg", "w500"). It uses the
// loaded configuration, or DefaultImageBaseURL before one is loaded.
func (s *ImagesService) URL(path, size string) string {
	base := DefaultImageBaseURL

	s.mu.Lock()
	if s.config != nil {
		switch {
		case s.client.Options().Secure && s.config.SecureBaseURL != "":
			base = s.config.SecureBaseURL
		case s.config.BaseURL != "":
			base = s.config.BaseURL
		}
	}
	s.mu.Unlock()

	if size == "" {
		size = SizeOriginal
	}

	return strings.TrimSuffix(base, "/") + "/" + size + "/" + strings.TrimPrefix(path, "/")
}

// Download stores the image at path in size as dest. The configuration
// is loaded first if needed and size must be one it lists.
func (s *ImagesService) Download(ctx context.Context, path, size, dest string, opts ...download.Option) error {
	if path == "" {
		return errors.New("image path must not be empty")
	}

	cfg, err := s.configuration(ctx)
	if err != nil {
		return err
	}
	if size == "" {
		size = SizeOriginal
	}
	if sizes := cfg.Sizes(); len(sizes) > 0 && !slices.Contains(sizes, size) {
		return fmt.Errorf("%w: %q", ErrUnknownSize, size)
	}

	u, err := url.Parse(s.URL(path, size))
	if err != nil {
		return fmt.Errorf("parsing image url: %w", err)
	}

	// Images are large and immutable; keep them out of the response cache.
	req, err := s.client.http.Request(ctx, u, http.MethodGet, client.WithHeaders(map[string][]string{
		"Cache-Control": {"no-store"},
	}))
	if err != nil {
		return err
	}

	return s.client.http.Download(req, http.StatusOK, dest, opts...)
}

// ImageRequest names one image for DownloadAll.
type ImageRequest struct {
	Path string
	Size string
	// Dest defaults to the base name of Path below the target directory.
	Dest string
}

// DownloadAll fetches images into dir with at most limit transfers in
// flight. Existing files are kept. The first failure cancels the rest.
func (s *ImagesService) DownloadAll(ctx context.Context, dir string, images []ImageRequest, limit int) error {
	if limit < 1 {
		limit = DefaultLoadManyLimit
	}

	if _, err := s.configuration(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, img := range images {
		dest := img.Dest
		if dest == "" {
			dest = filepath.Base(img.Path)
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(dir, dest)
		}

		g.Go(func() error {
			if err := s.Download(ctx, img.Path, img.Size, dest, download.WithSkipExisting()); err != nil {
				return fmt.Errorf("image %s: %w", img.Path, err)
			}
			return nil
		})
	}

	return g.Wait()
}
