// Package download streams HTTP response bodies to disk. Files are
// written to a temporary sibling and renamed into place, so a reader
// never sees a partially written image.
package download
