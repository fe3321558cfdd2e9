package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how verbosely the service logs.
type Options struct {
	Dir   string // empty disables the rotating file
	Level string
}

// New builds the JSON logger shared by services, jobs and middleware.
func New(opts Options) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})

	level, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	var out io.Writer = os.Stdout
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			log.WithError(err).Warn("log dir unavailable, logging to stdout only")
		} else {
			out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
				Filename:   filepath.Join(opts.Dir, "hotel-backoffice.log"),
				MaxSize:    20, // megabytes
				MaxBackups: 5,
				MaxAge:     28, // days
				Compress:   true,
			})
		}
	}
	log.SetOutput(out)
	return log
}
