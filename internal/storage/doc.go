// Package storage persists nosh state as JSON files in a per-user data
// directory, one file per named slot. The Cell type layers a typed,
// default-falling read/write binding on top of the raw byte store.
package storage
