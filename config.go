package advscan

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Mode selects where and how records are written.
type Mode string

const (
	// ModeStdoutTSV writes tab-separated lines to standard output.
	ModeStdoutTSV Mode = "stdout-tsv"
	// ModeStdoutJSON writes JSON lines to standard output.
	ModeStdoutJSON Mode = "stdout-json"
	// ModeFileAppendJSON appends JSON payloads to Config.OutputPath.
	ModeFileAppendJSON Mode = "file-append-json"
	// ModeFileAppendJSONTee appends JSON payloads to Config.OutputPath and
	// also writes them as JSON lines to standard output.
	ModeFileAppendJSONTee Mode = "file-append-json+stdout"
)

const (
	// DefaultOutputPath is the file written by the file-append modes.
	DefaultOutputPath = "out.json"
	// DefaultBackoff is the fixed wait before retrying a scan on an adapter
	// that is not ready.
	DefaultBackoff = 10 * time.Second
)

// ErrUnknownMode is returned for a Config with an unsupported Mode.
var ErrUnknownMode = errors.New("advscan: unknown output mode")

// Config holds the settings of a capture process. There are no flags,
// environment variables or config files: the command fills it from
// compile-time values.
type Config struct {
	Mode       Mode
	OutputPath string

	// Window is the duration of a single scan; 0 scans until stopped.
	Window time.Duration
	// Backoff is the wait before retrying on an adapter that is not ready.
	Backoff time.Duration
	// Retry keeps scanning forever, retrying when the adapter isn't ready.
	// Without it a single scan pass is made.
	Retry bool
	// Newline terminates every payload appended to OutputPath with a newline.
	Newline bool
}

// DefaultConfig returns the configuration of the long-running capture
// process: JSON appended to out.json, scanning until stopped.
func DefaultConfig() Config {
	return Config{
		Mode:       ModeFileAppendJSON,
		OutputPath: DefaultOutputPath,
		Window:     0,
		Backoff:    DefaultBackoff,
		Retry:      true,
		Newline:    true,
	}
}

// Validate reports whether the configuration can be used.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeStdoutTSV, ModeStdoutJSON:
	case ModeFileAppendJSON, ModeFileAppendJSONTee:
		if c.OutputPath == "" {
			return fmt.Errorf("advscan: mode %s needs an output path", c.Mode)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, c.Mode)
	}
	if c.Window < 0 {
		return fmt.Errorf("advscan: negative scan window %s", c.Window)
	}
	if c.Backoff <= 0 {
		return fmt.Errorf("advscan: backoff must be positive, got %s", c.Backoff)
	}
	return nil
}

// NewSink returns the sink selected by cfg.Mode. stdout is used by the
// stdout modes.
func NewSink(cfg Config, stdout io.Writer) (Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Mode {
	case ModeStdoutTSV:
		return NewTSVSink(stdout), nil
	case ModeStdoutJSON:
		return NewJSONSink(stdout), nil
	case ModeFileAppendJSON:
		return NewFileAppendSink(cfg.OutputPath, cfg.Newline), nil
	default: // ModeFileAppendJSONTee
		return TeeSink{
			NewFileAppendSink(cfg.OutputPath, cfg.Newline),
			NewJSONSink(stdout),
		}, nil
	}
}
