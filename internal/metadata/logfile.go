package metadata

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/distcrawl/distcrawl/pkg/fileutil"
)

// newFileLogger opens path for append, creating parent directories as
// needed, and wraps it in a zerolog.ConsoleWriter so the output stays
// plain timestamped lines rather than raw JSON.
func newFileLogger(path string) (zerolog.Logger, func() error, error) {
	dir := filepath.Dir(path)
	if err := fileutil.EnsureDir(dir); err != nil {
		return zerolog.Logger{}, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}
	writer := zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: "2006-01-02T15:04:05.000Z07:00"}
	logger := zerolog.New(writer).With().Timestamp().Logger()
	return logger, f.Close, nil
}
