package advscan

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/muka/go-bluetooth/bluez/profile/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meterProperties() *device.Device1Properties {
	return &device.Device1Properties{
		Address:          "XY:96:43:12:61:5B",
		Name:             "WoMeter",
		AdvertisingFlags: []byte{0x06},
		UUIDs: []string{
			"cba20d00-224d-11e6-9fb8-0002a5d5c51b",
			"0000fd3d-0000-1000-8000-00805f9b34fb",
		},
		ServiceData: map[string]interface{}{
			"00000d00-0000-1000-8000-00805f9b34fb": dbus.MakeVariant([]byte{0x54, 0x00, 0x64, 0x00, 0x9b, 0x4c}),
		},
		ManufacturerData: map[uint16]interface{}{
			0x0059: []byte{0xed, 0x96, 0x43, 0x12, 0x61, 0x5b},
		},
	}
}

func TestStructuresFromProperties(t *testing.T) {
	assert.Equal(t, []Structure{
		{Type: 1, Desc: "Flags", Value: "06"},
		{Type: 3, Desc: "Complete 16b Services", Value: "0000fd3d-0000-1000-8000-00805f9b34fb"},
		{Type: 7, Desc: "Complete 128b Services", Value: "cba20d00-224d-11e6-9fb8-0002a5d5c51b"},
		{Type: 9, Desc: "Complete Local Name", Value: "WoMeter"},
		{Type: 22, Desc: "16b Service Data", Value: "000d540064009b4c"},
		{Type: 255, Desc: "Manufacturer", Value: "5900ed964312615b"},
	}, structuresFromProperties(meterProperties()))
}

func TestStructuresFromAdvertisingData(t *testing.T) {
	props := meterProperties()
	props.AdvertisingData = map[string]interface{}{
		"38":   dbus.MakeVariant([]byte{0x01, 0x02}), // transport discovery data
		"0x30": []byte{0xaa},
		"9":    dbus.MakeVariant([]byte("Shadowed")),
		"name": []byte{0x00},
		"10":   "not bytes",
	}
	assert.Equal(t, []Structure{
		{Type: 1, Desc: "Flags", Value: "06"},
		{Type: 3, Desc: "Complete 16b Services", Value: "0000fd3d-0000-1000-8000-00805f9b34fb"},
		{Type: 7, Desc: "Complete 128b Services", Value: "cba20d00-224d-11e6-9fb8-0002a5d5c51b"},
		{Type: 9, Desc: "Complete Local Name", Value: "WoMeter"},
		{Type: 22, Desc: "16b Service Data", Value: "000d540064009b4c"},
		{Type: 38, Desc: "0x26", Value: "0102"},
		{Type: 48, Desc: "0x30", Value: "aa"},
		{Type: 255, Desc: "Manufacturer", Value: "5900ed964312615b"},
	}, structuresFromProperties(props))
}

func TestADTypeFromKey(t *testing.T) {
	tests := []struct {
		key string
		typ ADType
		ok  bool
	}{
		{"38", 0x26, true},
		{"0x26", 0x26, true},
		{"\x26", 0x26, true},
		{"255", 0xff, true},
		{"256", 0, false},
		{"name", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		typ, ok := adTypeFromKey(tc.key)
		if ok != tc.ok || typ != tc.typ {
			t.Errorf("key %q: expected (%d, %v) but got (%d, %v)", tc.key, tc.typ, tc.ok, typ, ok)
		}
	}
}

func TestMakeDiscovery(t *testing.T) {
	props := &device.Device1Properties{Address: "AA:BB:CC:DD:EE:FF", TxPower: -12}
	d := makeDiscovery(props)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", d.Address)
	assert.Equal(t, []Structure{{Type: 10, Desc: "Tx Power", Value: "f4"}}, d.Structures)

	// Addresses BlueZ reports in an unexpected shape are passed through.
	props.Address = "/org/bluez/hci0/dev_x"
	assert.Equal(t, "/org/bluez/hci0/dev_x", makeDiscovery(props).Address)
}

func TestMakeDiscoveryConcurrentUpdates(t *testing.T) {
	props := meterProperties()
	names := []string{"WoMeter", "WoHand", "WoCurtain"}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// The binding stores changed values under the properties lock.
		for i := 0; i < 200; i++ {
			props.Lock()
			props.Name = names[i%len(names)]
			props.ManufacturerData = map[uint16]interface{}{0x0059: []byte{byte(i)}}
			props.Unlock()
		}
	}()

	for i := 0; i < 200; i++ {
		d := makeDiscovery(props)
		require.Len(t, d.Structures, 6)
		assert.Contains(t, names, d.Structures[3].Value)
	}
	<-done
}

func TestScanAfterClose(t *testing.T) {
	s := NewBlueZScanner(nil)
	require.NoError(t, s.Close())
	err := s.Scan(context.Background(), 0, func(Discovery) {})
	assert.ErrorIs(t, err, errScannerClosed)
	assert.NoError(t, s.Close())
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err      error
		notReady bool
	}{
		{dbus.Error{Name: "org.bluez.Error.NotReady"}, true},
		{&dbus.Error{Name: "org.freedesktop.DBus.Error.ServiceUnknown"}, true},
		{fmt.Errorf("wrapped: %w", dbus.Error{Name: "org.freedesktop.DBus.Error.UnknownObject"}), true},
		{dbus.Error{Name: "org.bluez.Error.Failed"}, false},
		{errors.New("org.bluez.Error.NotReady"), false},
	}
	for _, tc := range tests {
		err := classifyError("start discovery", tc.err)
		assert.Equal(t, tc.notReady, errors.Is(err, ErrAdapterNotReady), "%v", tc.err)
		assert.ErrorIs(t, err, tc.err)
	}
}

func TestStopScanWithoutScan(t *testing.T) {
	s := NewBlueZScanner(nil)
	assert.ErrorIs(t, s.StopScan(), errNotScanning)
	assert.NoError(t, s.Close())
}
