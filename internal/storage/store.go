package storage

import (
	"errors"
	"fmt"
)

const (
	// ReportsDir holds the benchmark reports.
	ReportsDir = "reports"
)

var (
	DefaultDir = "bench-results"
)

// Shard creates a new storage implementation for the given shard.
type Shard func(shard string) (Persistence, error)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key of a benchmark artifact.
type Key struct {
	Run      string `json:"run"`
	Pipeline string `json:"pipeline"`
	Label    string `json:"label"`
}

// Path returns the file name for the key.
func (k Key) Path() string {
	return fmt.Sprintf("%s_%s_%s", k.Pipeline, k.Run, k.Label)
}

type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}
