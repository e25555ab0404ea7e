package advscan

import (
	"testing"
)

func TestPacketStructures(t *testing.T) {
	type testCase struct {
		raw    string
		parsed []Structure
	}
	tests := []testCase{
		{
			raw: "\x02\x01\x06", // flags
			parsed: []Structure{
				{Type: 1, Desc: "Flags", Value: "06"},
			},
		},
		{
			raw: "\x02\x01\x06" + // flags
				"\x07\x09foobar" + // local name
				"\x03\x03\x0d\x18", // service UUID
			parsed: []Structure{
				{Type: 1, Desc: "Flags", Value: "06"},
				{Type: 9, Desc: "Complete Local Name", Value: "foobar"},
				{Type: 3, Desc: "Complete 16b Services", Value: "0000180d-0000-1000-8000-00805f9b34fb"},
			},
		},
		{
			raw: "\x05\x03\x0d\x18\x0f\x18", // heart rate and battery service UUIDs
			parsed: []Structure{
				{Type: 3, Desc: "Complete 16b Services", Value: "0000180d-0000-1000-8000-00805f9b34fb,0000180f-0000-1000-8000-00805f9b34fb"},
			},
		},
		{
			raw: "\x11\x07\x1b\xc5\xd5\xa5\x02\x00\xb8\x9f\xe6\x11\x4d\x22\x00\x0d\xa2\xcb", // 128-bit service UUID
			parsed: []Structure{
				{Type: 7, Desc: "Complete 128b Services", Value: "cba20d00-224d-11e6-9fb8-0002a5d5c51b"},
			},
		},
		{
			raw: "\x0B\x09\x44\x49\x59\x2D\x73\x65\x6E\x73\x6F\x72" + // local name
				"\x0A\x16\xD2\xFC\x40\x02\xC4\x09\x03\xBF\x13", // service data
			parsed: []Structure{
				{Type: 9, Desc: "Complete Local Name", Value: "DIY-sensor"},
				{Type: 22, Desc: "16b Service Data", Value: "d2fc4002c40903bf13"},
			},
		},
		{
			raw: "\x09\xff\x59\x00\xed\x96\x43\x12\x61\x5b", // manufacturer data
			parsed: []Structure{
				{Type: 255, Desc: "Manufacturer", Value: "5900ed964312615b"},
			},
		},
		{
			raw: "\x02\x0a\xf4" + // tx power
				"\x03\x40\x01\x02", // unassigned type
			parsed: []Structure{
				{Type: 10, Desc: "Tx Power", Value: "f4"},
				{Type: 0x40, Desc: "0x40", Value: "0102"},
			},
		},
		{
			// A service UUID list of the wrong size is kept as hex.
			raw: "\x04\x03\x0d\x18\x0f",
			parsed: []Structure{
				{Type: 3, Desc: "Complete 16b Services", Value: "0d180f"},
			},
		},
		{
			raw: "\x02\x01\x06" + // flags
				"\x07\x09foo", // truncated local name
			parsed: []Structure{
				{Type: 1, Desc: "Flags", Value: "06"},
			},
		},
		{
			raw: "\x02\x01\x06\x00\x00\x00", // zero padding
			parsed: []Structure{
				{Type: 1, Desc: "Flags", Value: "06"},
			},
		},
		{
			raw:    "",
			parsed: nil,
		},
	}
	for _, tc := range tests {
		structs := Packet(tc.raw).Structures()
		if len(structs) != len(tc.parsed) {
			t.Errorf("error when parsing %#v\nexpected: %#v\nactual:   %#v\n", tc.raw, tc.parsed, structs)
			continue
		}
		for i := range structs {
			if structs[i] != tc.parsed[i] {
				t.Errorf("error when parsing %#v\nexpected: %#v\nactual:   %#v\n", tc.raw, tc.parsed[i], structs[i])
			}
		}
	}
}

func TestADTypeLabel(t *testing.T) {
	checks := map[ADType]string{
		ADFlags:            "Flags",
		ADCompleteName:     "Complete Local Name",
		ADServiceData16:    "16b Service Data",
		ADManufacturerData: "Manufacturer",
		ADClassOfDevice:    "0xd",
		ADLERole:           "0x1c",
		0x30:               "0x30",
	}
	for typ, label := range checks {
		if typ.Label() != label {
			t.Errorf("expected label %q for type %d but got %q", label, typ, typ.Label())
		}
	}
}
