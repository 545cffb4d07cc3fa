package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"duo-casino/internal/config"
)

var (
	mu     sync.RWMutex
	raw    io.Writer = os.Stdout
	closer io.Closer
)

// Init installs the global zerolog logger. When cfg.File is set every line
// is also written to a size-capped file.
func Init(cfg config.LogConfig) error {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var sink io.Writer = os.Stdout
	var console io.Writer = os.Stdout
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	var fileCloser io.Closer
	if cfg.File != "" {
		fw, err := newSizeLimitedWriter(cfg.File, cfg.MaxMB)
		if err != nil {
			return err
		}
		fileCloser = fw
		sink = io.MultiWriter(os.Stdout, fw)
		console = zerolog.MultiLevelWriter(console, fw)
	}

	mu.Lock()
	if closer != nil {
		_ = closer.Close()
	}
	raw, closer = sink, fileCloser
	mu.Unlock()

	zerolog.SetGlobalLevel(level)
	ctx := zerolog.New(console).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	logger := ctx.Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	return nil
}

// Writer is the plain output (stdout plus the log file) for loggers that
// format their own lines, such as the HTTP access log.
func Writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return raw
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	raw = os.Stdout
	return err
}
