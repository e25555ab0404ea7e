package advscan

import "strconv"

// ADType is the type code of a single advertisement data element.
// Refer to Supplement to Bluetooth Core Specification | CSSv6, Part A.
type ADType uint8

// Advertising data types.
const (
	ADFlags            ADType = 0x01 // Flags
	ADSomeUUID16       ADType = 0x02 // Incomplete List of 16-bit Service Class UUIDs
	ADAllUUID16        ADType = 0x03 // Complete List of 16-bit Service Class UUIDs
	ADSomeUUID32       ADType = 0x04 // Incomplete List of 32-bit Service Class UUIDs
	ADAllUUID32        ADType = 0x05 // Complete List of 32-bit Service Class UUIDs
	ADSomeUUID128      ADType = 0x06 // Incomplete List of 128-bit Service Class UUIDs
	ADAllUUID128       ADType = 0x07 // Complete List of 128-bit Service Class UUIDs
	ADShortName        ADType = 0x08 // Shortened Local Name
	ADCompleteName     ADType = 0x09 // Complete Local Name
	ADTxPower          ADType = 0x0A // Tx Power Level
	ADClassOfDevice    ADType = 0x0D // Class of Device
	ADSlaveConnInt     ADType = 0x12 // Slave Connection Interval Range
	ADServiceSol16     ADType = 0x14 // List of 16-bit Service Solicitation UUIDs
	ADServiceSol128    ADType = 0x15 // List of 128-bit Service Solicitation UUIDs
	ADServiceData16    ADType = 0x16 // Service Data - 16-bit UUID
	ADPubTargetAddr    ADType = 0x17 // Public Target Address
	ADRandTargetAddr   ADType = 0x18 // Random Target Address
	ADAppearance       ADType = 0x19 // Appearance
	ADAdvInterval      ADType = 0x1A // Advertising Interval
	ADLEDeviceAddr     ADType = 0x1B // LE Bluetooth Device Address
	ADLERole           ADType = 0x1C // LE Role
	ADServiceSol32     ADType = 0x1F // List of 32-bit Service Solicitation UUIDs
	ADServiceData32    ADType = 0x20 // Service Data - 32-bit UUID
	ADServiceData128   ADType = 0x21 // Service Data - 128-bit UUID
	ADManufacturerData ADType = 0xFF // Manufacturer Specific Data
)

// Labels are fixed strings: downstream consumers match on them, so they must
// not change between releases. Codes without a label are written as a hex
// literal, like 0xd.
var adTypeLabels = map[ADType]string{
	ADFlags:            "Flags",
	ADSomeUUID16:       "Incomplete 16b Services",
	ADAllUUID16:        "Complete 16b Services",
	ADSomeUUID32:       "Incomplete 32b Services",
	ADAllUUID32:        "Complete 32b Services",
	ADSomeUUID128:      "Incomplete 128b Services",
	ADAllUUID128:       "Complete 128b Services",
	ADShortName:        "Short Local Name",
	ADCompleteName:     "Complete Local Name",
	ADTxPower:          "Tx Power",
	ADServiceSol16:     "16b Service Solicitation",
	ADServiceSol128:    "128b Service Solicitation",
	ADServiceData16:    "16b Service Data",
	ADAppearance:       "Appearance",
	ADAdvInterval:      "Advertising Interval",
	ADServiceSol32:     "32b Service Solicitation",
	ADServiceData32:    "32b Service Data",
	ADServiceData128:   "128b Service Data",
	ADManufacturerData: "Manufacturer",
}

// Label returns the human-readable description of the type code. It carries
// no information beyond the code itself.
func (t ADType) Label() string {
	if label, ok := adTypeLabels[t]; ok {
		return label
	}
	return "0x" + strconv.FormatUint(uint64(t), 16)
}

// String returns the decimal type code, as written in tab-separated output.
func (t ADType) String() string {
	return strconv.Itoa(int(t))
}

// uuidWidth returns the byte width of the UUIDs listed by a service UUID list
// element, or 0 for all other types.
func (t ADType) uuidWidth() int {
	switch t {
	case ADSomeUUID16, ADAllUUID16:
		return 2
	case ADSomeUUID32, ADAllUUID32:
		return 4
	case ADSomeUUID128, ADAllUUID128:
		return 16
	}
	return 0
}
