package lib

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Logger builds the zerolog logger used by command line tools. Output goes
// to stderr, or is appended to logFilePath when one is given.
func Logger(logFilePath string, verbose bool) (zerolog.Logger, io.Closer, error) {
	var target io.WriteCloser = nopCloser{os.Stderr}

	if logFilePath != "" {
		path := logFilePath
		if filepath.Ext(logFilePath) == "" {
			path = logFilePath + time.Now().Format("-2006-01-02") + ".log"
		}
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		target = file
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(target).Level(level).With().Timestamp().Logger(), target, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
