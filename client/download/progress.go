package download

import (
	"io"
	"log/slog"
	"time"
)

// progressWriter logs transfer progress at most once per second.
type progressWriter struct {
	w           io.Writer
	logger      *slog.Logger
	path        string
	transferred int64
	total       int64
	started     time.Time
	lastLog     time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.transferred += int64(n)

	switch {
	case pw.total >= 0 && pw.transferred == pw.total:
		pw.log("download complete")
	case time.Since(pw.lastLog) >= time.Second:
		pw.lastLog = time.Now()
		pw.log("downloading")
	}

	return n, err
}

func (pw *progressWriter) log(msg string) {
	attrs := []any{
		"path", pw.path,
		"transferred", pw.transferred,
		"total", pw.total,
		"elapsed", time.Since(pw.started).Round(time.Millisecond),
	}
	if pw.total > 0 {
		attrs = append(attrs, "percent", float64(pw.transferred)/float64(pw.total)*100)
	}
	pw.logger.Info(msg, attrs...)
}
