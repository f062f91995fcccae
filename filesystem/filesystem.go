// Package filesystem holds the afero backend every package reads and writes through.
// Tests swap it for an in-memory one.
package filesystem

import "github.com/spf13/afero"

var backend = osBackend()

func osBackend() afero.Afero {
	return afero.Afero{Fs: afero.NewOsFs()}
}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// SetOsFs switches back to the disk.
func SetOsFs() {
	backend = osBackend()
}

// SetMemMapFs switches to an empty in-memory filesystem.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
