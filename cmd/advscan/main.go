// Command advscan captures BLE advertisements until it is stopped.
//
// There are no flags. The output settings below are compile-time values and
// can only be changed at link time, for example:
//
//	go build -ldflags="-X main.Mode=stdout-tsv" ./cmd/advscan
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/advscan/advscan"
	"github.com/sirupsen/logrus"
)

var (
	// Mode is one of stdout-tsv, stdout-json, file-append-json and
	// file-append-json+stdout.
	Mode = string(advscan.ModeFileAppendJSON)
	// OutputPath is the file written by the file-append modes.
	OutputPath = advscan.DefaultOutputPath
	// ScanWindow is the duration of one scan; 0s scans until stopped.
	ScanWindow = "0s"
	// SinglePass makes one scan pass without retrying instead of running
	// forever.
	SinglePass = "false"
	// Newline terminates every payload appended to OutputPath with a newline.
	Newline = "true"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// The BlueZ binding logs through the standard logger; keep it quiet.
	logrus.SetLevel(logrus.WarnLevel)

	cfg, err := config()
	must(log, "read configuration", err)

	if err := run(log, cfg); err != nil {
		log.WithError(err).Fatal("capture stopped")
	}
}

func config() (advscan.Config, error) {
	cfg := advscan.DefaultConfig()
	cfg.Mode = advscan.Mode(Mode)
	cfg.OutputPath = OutputPath

	window, err := time.ParseDuration(ScanWindow)
	if err != nil {
		return cfg, fmt.Errorf("scan window: %w", err)
	}
	cfg.Window = window

	single, err := strconv.ParseBool(SinglePass)
	if err != nil {
		return cfg, fmt.Errorf("single pass: %w", err)
	}
	cfg.Retry = !single

	if cfg.Newline, err = strconv.ParseBool(Newline); err != nil {
		return cfg, fmt.Errorf("newline: %w", err)
	}
	return cfg, cfg.Validate()
}

func run(log *logrus.Logger, cfg advscan.Config) error {
	sink, err := advscan.NewSink(cfg, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := advscan.NewBlueZScanner(log)
	defer scanner.Close()

	capture := advscan.NewCapture(scanner,
		advscan.WithLogger(log),
		advscan.WithBackoff(cfg.Backoff),
	)

	log.WithFields(logrus.Fields{
		"mode":   cfg.Mode,
		"window": cfg.Window,
	}).Info("scanning...")
	if !cfg.Retry {
		return capture.RunOnce(ctx, cfg.Window, sink)
	}
	return capture.RunForever(ctx, cfg.Window, sink)
}

func must(log logrus.FieldLogger, action string, err error) {
	if err != nil {
		log.WithError(err).Fatal("failed to " + action)
	}
}
