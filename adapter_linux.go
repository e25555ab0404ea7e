// Some documentation for the BlueZ D-Bus interface:
// https://git.kernel.org/pub/scm/bluetooth/bluez.git/tree/doc

package advscan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/muka/go-bluetooth/api"
	"github.com/muka/go-bluetooth/bluez/profile/adapter"
	"github.com/sirupsen/logrus"
)

// BlueZScanner scans through the default BlueZ adapter.
//
// The adapter is acquired lazily by the first Scan, so a scanner can be
// created before bluetoothd or the controller are up. Close releases it; the
// scanner can't be used afterwards.
type BlueZScanner struct {
	adapter *adapter.Adapter1
	id      string
	log     logrus.FieldLogger
	closed  bool

	scanning bool
	stopScan context.CancelFunc
}

// NewBlueZScanner returns a scanner for the default adapter on the system,
// which on Linux is the first adapter available.
func NewBlueZScanner(log logrus.FieldLogger) *BlueZScanner {
	return &BlueZScanner{log: log}
}

// enable acquires the default adapter if that hasn't happened yet.
func (s *BlueZScanner) enable() error {
	if s.closed {
		return errScannerClosed
	}
	if s.id != "" {
		return nil
	}
	a, err := api.GetDefaultAdapter()
	if err != nil {
		// The binding reports a controller that isn't registered yet with a
		// plain "adapter hci0 not found" error.
		if strings.HasSuffix(err.Error(), "not found") {
			return fmt.Errorf("get default adapter: %w: %w", ErrAdapterNotReady, err)
		}
		return classifyError("get default adapter", err)
	}
	// The binding caches the adapter for every later GetDefaultAdapter call,
	// so it stays open here even when it isn't usable yet.
	id, err := a.GetAdapterID()
	if err != nil {
		return classifyError("get adapter id", err)
	}
	s.adapter, s.id = a, id
	s.log.WithField("adapter", id).Info("acquired bluetooth adapter")
	return nil
}

// powered returns an ErrAdapterNotReady error when the adapter is off.
func (s *BlueZScanner) powered() error {
	on, err := s.adapter.GetPowered()
	if err != nil {
		return classifyError("read powered state", err)
	}
	if !on {
		return fmt.Errorf("%w: adapter %s is powered off", ErrAdapterNotReady, s.id)
	}
	return nil
}

// Close releases the adapter. The binding caches adapters process wide, so a
// closed scanner is not reused; Scan returns an error afterwards.
func (s *BlueZScanner) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.adapter == nil {
		return nil
	}
	s.adapter.Close()
	s.adapter, s.id = nil, ""
	return nil
}

// D-Bus error names that mean the adapter will show up or become usable on
// its own, given some time.
var notReadyErrorNames = map[string]bool{
	"org.bluez.Error.NotReady":                  true,
	"org.freedesktop.DBus.Error.ServiceUnknown": true,
	"org.freedesktop.DBus.Error.UnknownObject":  true,
}

func isNotReady(err error) bool {
	var dbusErr dbus.Error
	if errors.As(err, &dbusErr) {
		return notReadyErrorNames[dbusErr.Name]
	}
	var dbusErrPtr *dbus.Error
	if errors.As(err, &dbusErrPtr) && dbusErrPtr != nil {
		return notReadyErrorNames[dbusErrPtr.Name]
	}
	return false
}

// classifyError adds context to a BlueZ error and marks it with
// ErrAdapterNotReady when it is worth retrying.
func classifyError(op string, err error) error {
	if isNotReady(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrAdapterNotReady, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
