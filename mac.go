package advscan

import "errors"

// MAC represents a MAC address, in little endian format.
type MAC [6]byte

var errInvalidMAC = errors.New("advscan: failed to parse MAC address")

// ParseMAC parses the given MAC address, which must be in 11:22:33:AA:BB:CC
// format. Lower case hex digits are accepted too. If it cannot be parsed, an
// error is returned.
func ParseMAC(s string) (mac MAC, err error) {
	macIndex := 11
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ':' {
			continue
		}
		nibble, ok := hexNibble(c)
		if !ok || macIndex < 0 {
			err = errInvalidMAC
			return
		}
		if macIndex%2 == 0 {
			mac[macIndex/2] |= nibble
		} else {
			mac[macIndex/2] |= nibble << 4
		}
		macIndex--
	}
	if macIndex != -1 {
		err = errInvalidMAC
	}
	return
}

// String returns a human-readable version of this MAC address, such as
// 11:22:33:AA:BB:CC.
func (mac MAC) String() string {
	return mac.format(upperHex)
}

// lowerString returns the MAC address with lower case hex digits, the way
// addresses were written by the scanner this tool replaces.
func (mac MAC) lowerString() string {
	return mac.format(lowerHex)
}

func (mac MAC) format(digits string) string {
	buf := make([]byte, 0, 17)
	for i := 5; i >= 0; i-- {
		if i != 5 {
			buf = append(buf, ':')
		}
		buf = append(buf, digits[mac[i]>>4], digits[mac[i]&0x0f])
	}
	return string(buf)
}
