package advscan

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAdapterNotReady is returned (wrapped) by a Scanner when the Bluetooth
	// hardware or stack has not finished initializing. It is the only error a
	// Capture retries.
	ErrAdapterNotReady = errors.New("advscan: adapter not ready")

	errScanning      = errors.New("advscan: a scan is already in progress")
	errNotScanning   = errors.New("advscan: there is no scan in progress")
	errScannerClosed = errors.New("advscan: scanner is closed")
)

// Scanner is a BLE adapter in scanning mode.
//
// Scan blocks for window (or until ctx is done when window is 0) and calls
// callback once per received advertisement, on the calling goroutine. It
// returns nil when the window ends or ctx is done.
type Scanner interface {
	Scan(ctx context.Context, window time.Duration, callback func(Discovery)) error
}
