package advscan

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/muka/go-bluetooth/bluez"
	"github.com/muka/go-bluetooth/bluez/profile/adapter"
	"github.com/muka/go-bluetooth/bluez/profile/device"
)

type watchedDevice struct {
	dev *device.Device1
	ch  chan *bluez.PropertyChanged
}

// Scan starts a BLE scan and blocks until window has passed, ctx is done or
// StopScan is called from the callback.
//
// On Linux with BlueZ, incoming packets cannot be observed directly. Instead,
// existing devices are watched for property changes. This closely simulates the
// behavior as if the actual packets were observed, but it has flaws: it is
// possible some events are missed and perhaps even possible that some events
// are duplicated. Every change is reported; nothing is deduplicated.
func (s *BlueZScanner) Scan(ctx context.Context, window time.Duration, callback func(Discovery)) error {
	if s.scanning {
		return errScanning
	}
	if err := s.enable(); err != nil {
		return err
	}
	if err := s.powered(); err != nil {
		return err
	}
	s.scanning = true
	defer func() { s.scanning = false }()

	watched := make(map[dbus.ObjectPath]watchedDevice)
	defer s.unwatchAll(watched)

	if window > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, window)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.stopScan = cancel
	defer func() { s.stopScan = nil }()

	// This appears to be necessary to receive any BLE discovery results at all.
	defer s.adapter.SetDiscoveryFilter(nil)
	err := s.adapter.SetDiscoveryFilter(map[string]interface{}{
		"Transport": "le",
	})
	if err != nil {
		return classifyError("set discovery filter", err)
	}

	// Instruct BlueZ to start discovering.
	if err := s.adapter.StartDiscovery(); err != nil {
		return classifyError("start discovery", err)
	}
	defer s.adapter.StopDiscovery()

	// Listen for newly found devices.
	discovered, cancelDiscovered, err := s.adapter.OnDeviceDiscovered()
	if err != nil {
		return classifyError("watch discovered devices", err)
	}
	defer cancelDiscovered()

	// BlueZ won't show advertisement data as it is discovered. Instead, it
	// caches all the data and only produces events for changes. When any
	// value changes, you can be sure a new advertisement packet has been
	// received, so cached devices are watched too.
	changes := make(chan *device.Device1)
	devices, err := s.adapter.GetDevices()
	if err != nil {
		return classifyError("list cached devices", err)
	}
	for _, dev := range devices {
		s.watch(ctx, dev, changes, watched)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case result, ok := <-discovered:
			if !ok {
				return nil
			}
			if result == nil || result.Type != adapter.DeviceAdded {
				continue
			}
			if _, ok := watched[result.Path]; ok {
				continue
			}

			// We only got a DBus object path, so turn that into a Device1 object.
			dev, err := device.NewDevice1(result.Path)
			if err != nil || dev == nil || dev.Properties == nil {
				continue
			}
			callback(makeDiscovery(dev.Properties))
			s.watch(ctx, dev, changes, watched)
		case dev := <-changes:
			callback(makeDiscovery(dev.Properties))
		}
	}
}

// StopScan stops the in-progress scan. It may only be called from within a
// Scan callback. If no scan is in progress, an error will be returned.
func (s *BlueZScanner) StopScan() error {
	if s.stopScan == nil {
		return errNotScanning
	}
	s.stopScan()
	return nil
}

// watch reports dev on changes every time one of its properties changes. The
// binding has already stored the new value in dev.Properties by then. Errors
// are ignored (for example, if the device disappeared in the meantime).
func (s *BlueZScanner) watch(ctx context.Context, dev *device.Device1, changes chan<- *device.Device1, watched map[dbus.ObjectPath]watchedDevice) {
	if dev == nil || dev.Properties == nil {
		return
	}
	ch, err := dev.WatchProperties()
	if err != nil {
		s.log.WithError(err).WithField("device", dev.Path()).Debug("can't watch device")
		return
	}
	watched[dev.Path()] = watchedDevice{dev: dev, ch: ch}

	go func() {
		// Keep draining after ctx is done until the watch is released, so
		// the binding never blocks on this channel.
		for change := range ch {
			if change == nil {
				return
			}
			select {
			case changes <- dev:
			case <-ctx.Done():
			}
		}
	}()
}

func (s *BlueZScanner) unwatchAll(watched map[dbus.ObjectPath]watchedDevice) {
	for path, w := range watched {
		if err := w.dev.UnwatchProperties(w.ch); err != nil {
			s.log.WithError(err).WithField("device", path).Debug("can't unwatch device")
		}
	}
}

// makeDiscovery creates a Discovery from the cached properties of a device.
// The binding updates them from its own goroutine, so they are read under the
// properties lock.
func makeDiscovery(props *device.Device1Properties) Discovery {
	props.Lock()
	defer props.Unlock()

	addr := props.Address
	if mac, err := ParseMAC(addr); err == nil {
		addr = mac.lowerString()
	}
	return Discovery{
		Address:    addr,
		Structures: structuresFromProperties(props),
	}
}

// structuresFromProperties turns the cached advertisement of a device into
// structures ordered by type code. BlueZ parses most elements itself and only
// passes the remaining ones through AdvertisingData, so both are merged.
func structuresFromProperties(props *device.Device1Properties) []Structure {
	var structs []Structure
	if len(props.AdvertisingFlags) > 0 {
		structs = append(structs, NewStructure(ADFlags, props.AdvertisingFlags))
	}

	var uuid16, uuid32, uuid128 []byte
	for _, s := range props.UUIDs {
		uuid, err := ParseUUID(s)
		if err != nil {
			continue
		}
		switch {
		case uuid.Is16Bit():
			uuid16 = uuid.appendLittleEndian(uuid16)
		case uuid.Is32Bit():
			uuid32 = uuid.appendLittleEndian(uuid32)
		default:
			uuid128 = uuid.appendLittleEndian(uuid128)
		}
	}
	if len(uuid16) > 0 {
		structs = append(structs, NewStructure(ADAllUUID16, uuid16))
	}
	if len(uuid32) > 0 {
		structs = append(structs, NewStructure(ADAllUUID32, uuid32))
	}
	if len(uuid128) > 0 {
		structs = append(structs, NewStructure(ADAllUUID128, uuid128))
	}

	if props.Name != "" {
		structs = append(structs, NewStructure(ADCompleteName, []byte(props.Name)))
	}
	// BlueZ leaves TxPower at zero when it wasn't advertised.
	if props.TxPower != 0 {
		structs = append(structs, NewStructure(ADTxPower, []byte{byte(int8(props.TxPower))}))
	}

	var serviceData []Structure
	keys := make([]string, 0, len(props.ServiceData))
	for k := range props.ServiceData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		data, ok := variantBytes(props.ServiceData[k])
		if !ok {
			continue
		}
		uuid, err := ParseUUID(k)
		if err != nil {
			continue
		}
		t := ADServiceData128
		switch {
		case uuid.Is16Bit():
			t = ADServiceData16
		case uuid.Is32Bit():
			t = ADServiceData32
		}
		serviceData = append(serviceData, NewStructure(t, append(uuid.appendLittleEndian(nil), data...)))
	}
	sort.SliceStable(serviceData, func(i, j int) bool { return serviceData[i].Type < serviceData[j].Type })
	structs = append(structs, serviceData...)

	companies := make([]int, 0, len(props.ManufacturerData))
	for id := range props.ManufacturerData {
		companies = append(companies, int(id))
	}
	sort.Ints(companies)
	for _, id := range companies {
		data, ok := variantBytes(props.ManufacturerData[uint16(id)])
		if !ok {
			continue
		}
		raw := append([]byte{byte(id), byte(id >> 8)}, data...)
		structs = append(structs, NewStructure(ADManufacturerData, raw))
	}

	present := make(map[ADType]bool, len(structs))
	for _, st := range structs {
		present[st.Type] = true
	}
	for _, st := range advertisingData(props.AdvertisingData).Structures() {
		if !present[st.Type] {
			structs = append(structs, st)
		}
	}
	sort.SliceStable(structs, func(i, j int) bool { return structs[i].Type < structs[j].Type })
	return structs
}

// advertisingData packs the raw elements BlueZ passes through into a Packet,
// ordered by type. Keys that don't hold an AD type are skipped.
func advertisingData(m map[string]interface{}) Packet {
	types := make([]int, 0, len(m))
	data := make(map[ADType][]byte, len(m))
	for k, v := range m {
		t, ok := adTypeFromKey(k)
		if _, dup := data[t]; !ok || dup {
			continue
		}
		b, ok := variantBytes(v)
		if !ok || len(b) > 0xfe {
			continue
		}
		types = append(types, int(t))
		data[t] = b
	}
	sort.Ints(types)

	var p Packet
	for _, t := range types {
		b := data[ADType(t)]
		p = append(p, byte(len(b)+1), byte(t))
		p = append(p, b...)
	}
	return p
}

// adTypeFromKey decodes the AD type of an AdvertisingData key. The type is
// normally written as a number, but a key holding the raw type byte is
// accepted too.
func adTypeFromKey(k string) (ADType, bool) {
	if n, err := strconv.ParseUint(k, 0, 8); err == nil {
		return ADType(n), true
	}
	if len(k) == 1 {
		return ADType(k[0]), true
	}
	return 0, false
}

// variantBytes unwraps a value that can be either a variant or just a byte
// slice.
func variantBytes(v interface{}) ([]byte, bool) {
	switch val := v.(type) {
	case dbus.Variant:
		b, ok := val.Value().([]byte)
		return b, ok
	case *dbus.Variant:
		if val == nil {
			return nil, false
		}
		b, ok := val.Value().([]byte)
		return b, ok
	case []byte:
		return val, true
	}
	return nil, false
}
