package download

import "os"

// Option defines optional settings for downloading files.
type Option func(*options) error

type options struct {
	progress     bool
	skipExisting bool
	perm         os.FileMode
}

// WithProgress logs transfer progress at most once per second.
func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}

// WithSkipExisting returns early when the destination already exists.
func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}

// WithPerm sets the mode of the written file. Defaults to 0o644.
func WithPerm(perm os.FileMode) Option {
	return func(opts *options) error {
		opts.perm = perm
		return nil
	}
}
