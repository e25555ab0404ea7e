// Package advscan captures Bluetooth Low Energy advertisements and writes
// every discovery out as a line of tab-separated text or as a JSON object.
//
// A Capture drives a Scanner (BlueZ over D-Bus on Linux) and hands each
// discovered advertisement to a Sink. The only error it recovers from is an
// adapter that is not ready yet, which is common right after boot.
package advscan // import "github.com/advscan/advscan"
