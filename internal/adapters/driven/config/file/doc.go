// Package file provides the TOML configuration store.
//
// Keys use dot notation ("embedding.provider") in memory and are written
// as nested tables on disk.
package file
