package advscan

import (
	"encoding/json"
	"time"
)

// Structure is one advertisement data element of a discovery.
type Structure struct {
	Type  ADType `json:"adtype"`
	Desc  string `json:"desc"`
	Value string `json:"value"`
}

// Record is a single discovery event, written once and then forgotten.
type Record struct {
	Time    time.Time   `json:"time"`
	Addr    string      `json:"addr"`
	Structs []Structure `json:"structs"`
}

// MarshalJSON writes the record with a UTC timestamp and an empty (never null)
// structs list.
func (r Record) MarshalJSON() ([]byte, error) {
	type record Record
	out := record(r)
	out.Time = out.Time.UTC()
	if out.Structs == nil {
		out.Structs = []Structure{}
	}
	return json.Marshal(out)
}

// Discovery is what a Scanner reports for one received advertisement.
type Discovery struct {
	Address    string
	Structures []Structure
}
