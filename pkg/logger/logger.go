// Package logger owns the process-wide zerolog logger of the posts API.
// main builds it from LOG_LEVEL, LOG_PRETTY and LOG_FILE; everything else
// receives it by injection or calls Get.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options mirrors the LOG_* settings.
type Options struct {
	// Level is trace, debug, info, warn or error; anything else means info.
	Level string
	// Pretty switches stdout to the coloured console format for local runs.
	Pretty bool
	// Output replaces os.Stdout, mostly in tests.
	Output io.Writer
	// FilePath adds a rotated JSON file next to stdout.
	FilePath string
}

const (
	fileMaxSizeMB  = 100
	fileMaxBackups = 5
	fileMaxAgeDays = 14
)

var (
	instance    zerolog.Logger
	once        sync.Once
	initialized bool
)

// Init builds the shared logger. Later calls return the first one unchanged.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}
		if opts.FilePath != "" {
			// the file always gets JSON, whatever the console format
			out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
				Filename:   opts.FilePath,
				MaxSize:    fileMaxSizeMB,
				MaxBackups: fileMaxBackups,
				MaxAge:     fileMaxAgeDays,
				Compress:   true,
			})
		}

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		instance = zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Caller().
			Logger()

		initialized = true
	})
	return instance
}

// Get returns the logger built by Init and panics when Init never ran.
func Get() zerolog.Logger {
	if !initialized {
		panic("logger: Get() called before Init()")
	}
	return instance
}

// Reset forgets the shared logger so tests can call Init again.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	initialized = false
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
