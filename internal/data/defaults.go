package data

import (
	"embed"
	"io/fs"
	"time"
)

//go:embed defaults
var defaultFS embed.FS

// DefaultFS returns the built-in tables, rooted so that dataset names resolve
// directly (rates/fha.json, location/property_tax.json, ...).
func DefaultFS() fs.FS {
	sub, err := fs.Sub(defaultFS, "defaults")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewDefaultProvider returns an FSProvider over the built-in tables.
func NewDefaultProvider() (*FSProvider, error) {
	return NewFSProvider(DefaultFS(), time.Duration(0))
}
