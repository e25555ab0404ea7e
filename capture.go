package advscan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Capture turns the discoveries of a Scanner into records for a Sink.
//
// The Scanner is owned by the caller; Capture never opens or closes it.
type Capture struct {
	scanner Scanner
	clock   clock.Clock
	log     logrus.FieldLogger
	backoff time.Duration
}

// Option configures a Capture.
type Option func(*Capture)

// WithClock sets the clock used for record timestamps and for the retry
// backoff.
func WithClock(c clock.Clock) Option {
	return func(capture *Capture) {
		capture.clock = c
	}
}

// WithLogger sets the logger for retry notifications.
func WithLogger(l logrus.FieldLogger) Option {
	return func(capture *Capture) {
		capture.log = l
	}
}

// WithBackoff sets the wait before retrying on an adapter that is not ready.
func WithBackoff(d time.Duration) Option {
	return func(capture *Capture) {
		capture.backoff = d
	}
}

// NewCapture returns a Capture reading from scanner.
func NewCapture(scanner Scanner, opts ...Option) *Capture {
	c := &Capture{
		scanner: scanner,
		clock:   clock.RealClock{},
		log:     logrus.StandardLogger(),
		backoff: DefaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunForever scans until ctx is done, passing every discovery to sink.
//
// When the scanner reports ErrAdapterNotReady, RunForever waits for the
// backoff and scans again, without limit. Any other scanner error and any
// sink error is returned. It returns nil once ctx is done.
func (c *Capture) RunForever(ctx context.Context, window time.Duration, sink Sink) error {
	for {
		emitErr, err := c.scan(ctx, window, sink)
		if emitErr != nil {
			return emitErr
		}
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrAdapterNotReady) {
			return err
		}

		c.log.WithError(err).Warnf("adapter not ready, retry after %s", c.backoff)
		select {
		case <-ctx.Done():
			return nil
		case <-c.clock.After(c.backoff):
		}
	}
}

// RunOnce makes a single scan pass. ErrAdapterNotReady is returned like any
// other error.
func (c *Capture) RunOnce(ctx context.Context, window time.Duration, sink Sink) error {
	emitErr, err := c.scan(ctx, window, sink)
	if emitErr != nil {
		return emitErr
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// scan runs one scan. A sink error is reported apart from the scanner error
// so that it is never mistaken for the end of ctx.
func (c *Capture) scan(ctx context.Context, window time.Duration, sink Sink) (emitErr, err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	err = c.scanner.Scan(ctx, window, func(d Discovery) {
		if emitErr != nil {
			return
		}
		r := Record{
			Time:    c.clock.Now().UTC(),
			Addr:    d.Address,
			Structs: d.Structures,
		}
		if err := sink.Emit(r); err != nil {
			emitErr = fmt.Errorf("emit record of %s: %w", d.Address, err)
			cancel()
		}
	})
	if emitErr != nil {
		return emitErr, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	c.log.Debug("scan window finished")
	return nil, nil
}
