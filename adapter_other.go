//go:build !linux

package advscan

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

var errUnsupported = errors.New("advscan: BLE scanning through BlueZ is only supported on Linux")

// BlueZScanner is not available on this platform; Scan always fails.
type BlueZScanner struct{}

// NewBlueZScanner returns a scanner that fails every Scan with an unsupported
// platform error.
func NewBlueZScanner(log logrus.FieldLogger) *BlueZScanner {
	return &BlueZScanner{}
}

// Scan returns an error: BlueZ is only available on Linux.
func (s *BlueZScanner) Scan(ctx context.Context, window time.Duration, callback func(Discovery)) error {
	return errUnsupported
}

// StopScan always reports that no scan is in progress.
func (s *BlueZScanner) StopScan() error {
	return errNotScanning
}

// Close does nothing.
func (s *BlueZScanner) Close() error {
	return nil
}
