package advscan

import (
	"encoding/hex"
	"strings"
)

// Packet is a raw advertising payload: a sequence of length, type and data
// elements.
type Packet []byte

// Structures decodes every element of the packet, in packet order. Decoding
// stops at the first zero length element (padding) or at a truncated
// element.
func (p Packet) Structures() []Structure {
	var structs []Structure
	for b := p; len(b) >= 2; {
		l, t := int(b[0]), ADType(b[1])
		if l == 0 || len(b) < 1+l {
			break
		}
		structs = append(structs, NewStructure(t, b[2:1+l]))
		b = b[1+l:]
	}
	return structs
}

// NewStructure builds a structure from the raw data of one advertisement
// element. Local names are kept as text, service UUID lists become comma
// separated UUID strings and everything else is hex encoded.
func NewStructure(t ADType, data []byte) Structure {
	return Structure{
		Type:  t,
		Desc:  t.Label(),
		Value: valueText(t, data),
	}
}

func valueText(t ADType, data []byte) string {
	switch t {
	case ADShortName, ADCompleteName:
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	if w := t.uuidWidth(); w > 0 && len(data)%w == 0 {
		uuids := make([]string, 0, len(data)/w)
		for ; len(data) > 0; data = data[w:] {
			uuid, _ := uuidFromLittleEndian(data[:w])
			uuids = append(uuids, uuid.String())
		}
		return strings.Join(uuids, ",")
	}
	return hex.EncodeToString(data)
}
