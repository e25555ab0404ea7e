package advscan

// This file implements 16-bit, 32-bit and 128-bit UUIDs as defined in the
// Bluetooth specification.

import "errors"

// UUID is a single UUID as used in the Bluetooth stack. It is represented as a
// [4]uint32 instead of a [16]byte for efficiency. uuid[3] holds the most
// significant word.
type UUID [4]uint32

var errInvalidUUID = errors.New("advscan: failed to parse UUID")

// NewUUID returns a new UUID based on the 128-bit (16-byte) input, in big
// endian (textual) order.
func NewUUID(uuid [16]byte) UUID {
	u := UUID{}
	u[0] = uint32(uuid[15]) | uint32(uuid[14])<<8 | uint32(uuid[13])<<16 | uint32(uuid[12])<<24
	u[1] = uint32(uuid[11]) | uint32(uuid[10])<<8 | uint32(uuid[9])<<16 | uint32(uuid[8])<<24
	u[2] = uint32(uuid[7]) | uint32(uuid[6])<<8 | uint32(uuid[5])<<16 | uint32(uuid[4])<<24
	u[3] = uint32(uuid[3]) | uint32(uuid[2])<<8 | uint32(uuid[1])<<16 | uint32(uuid[0])<<24
	return u
}

// New16BitUUID returns a new 128-bit UUID based on a 16-bit UUID.
//
// Note: only use registered UUIDs. See
// https://www.bluetooth.com/specifications/gatt/services/ for a list.
func New16BitUUID(shortUUID uint16) UUID {
	// https://stackoverflow.com/questions/36212020/how-can-i-convert-a-bluetooth-16-bit-service-uuid-into-a-128-bit-uuid
	return New32BitUUID(uint32(shortUUID))
}

// New32BitUUID returns a new 128-bit UUID based on a 32-bit UUID.
func New32BitUUID(shortUUID uint32) UUID {
	var uuid UUID
	uuid[0] = 0x5F9B34FB
	uuid[1] = 0x80000080
	uuid[2] = 0x00001000
	uuid[3] = shortUUID
	return uuid
}

// uuidFromLittleEndian converts a UUID as it appears inside an advertisement
// (least significant byte first) into a UUID. Only 2, 4 and 16 byte inputs are
// valid.
func uuidFromLittleEndian(b []byte) (UUID, bool) {
	switch len(b) {
	case 2:
		return New16BitUUID(uint16(b[0]) | uint16(b[1])<<8), true
	case 4:
		return New32BitUUID(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24), true
	case 16:
		var be [16]byte
		for i := range b {
			be[15-i] = b[i]
		}
		return NewUUID(be), true
	}
	return UUID{}, false
}

// Is16Bit returns whether this UUID is a 16-bit BLE UUID.
func (uuid UUID) Is16Bit() bool {
	return uuid.Is32Bit() && uuid[3] == uint32(uint16(uuid[3]))
}

// Is32Bit returns whether this UUID is a 32-bit BLE UUID.
func (uuid UUID) Is32Bit() bool {
	return uuid[0] == 0x5F9B34FB && uuid[1] == 0x80000080 && uuid[2] == 0x00001000
}

// appendLittleEndian appends the shortest on-air form of the UUID: 2 bytes
// for 16-bit UUIDs, 4 for 32-bit UUIDs and 16 otherwise.
func (uuid UUID) appendLittleEndian(b []byte) []byte {
	switch {
	case uuid.Is16Bit():
		return append(b, byte(uuid[3]), byte(uuid[3]>>8))
	case uuid.Is32Bit():
		return append(b, byte(uuid[3]), byte(uuid[3]>>8), byte(uuid[3]>>16), byte(uuid[3]>>24))
	}
	for _, word := range uuid {
		b = append(b, byte(word), byte(word>>8), byte(word>>16), byte(word>>24))
	}
	return b
}

// ParseUUID parses the given UUID, which must be in
// 00001234-0000-1000-8000-00805f9b34fb format. Both upper and lower case hex
// digits are accepted. If it cannot be parsed, an error is returned.
func ParseUUID(s string) (UUID, error) {
	if len(s) != 36 {
		return UUID{}, errInvalidUUID
	}
	var be [16]byte
	j := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i == 8 || i == 13 || i == 18 || i == 23 {
			if c != '-' {
				return UUID{}, errInvalidUUID
			}
			continue
		}
		nibble, ok := hexNibble(c)
		if !ok {
			return UUID{}, errInvalidUUID
		}
		if j%2 == 0 {
			be[j/2] = nibble << 4
		} else {
			be[j/2] |= nibble
		}
		j++
	}
	return NewUUID(be), nil
}

// String returns a human-readable version of this UUID, such as
// 00001234-0000-1000-8000-00805f9b34fb.
func (uuid UUID) String() string {
	var buf [36]byte
	words := [4]uint32{uuid[3], uuid[2], uuid[1], uuid[0]}
	j := 0
	for i, word := range words {
		for shift := 28; shift >= 0; shift -= 4 {
			// Dashes sit after 8, 12, 16 and 20 hex digits.
			if n := i*8 + (28-shift)/4; n == 8 || n == 12 || n == 16 || n == 20 {
				buf[j] = '-'
				j++
			}
			buf[j] = lowerHex[(word>>uint(shift))&0xf]
			j++
		}
	}
	return string(buf[:])
}

const (
	lowerHex = "0123456789abcdef"
	upperHex = "0123456789ABCDEF"
)

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 0xA, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 0xA, true
	}
	return 0, false
}
