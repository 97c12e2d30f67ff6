package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/drakos74/face-bench/internal/storage"
	"github.com/rs/zerolog/log"
)

// BlobStorage stores every key as a json file under <path>/<table>/<shard>.
type BlobStorage struct {
	path  string
	table string
	shard string
	debug bool
}

// BlobShard creates file backed shards of the given table under the root path.
func BlobShard(root, table string) storage.Shard {
	return func(shard string) (storage.Persistence, error) {
		return NewJsonBlob(root, table, shard, false), nil
	}
}

func (s BlobStorage) Store(k storage.Key, value interface{}) error {
	p := filepath.Join(s.path, s.table, s.shard)
	err := Save(p, k.Path(), value)
	if err == nil && s.debug {
		log.Info().Str("path", p).Str("file", k.Path()).Msg("stored json file")
	}
	return err
}

func (s BlobStorage) Load(k storage.Key, value interface{}) error {
	return Load(filepath.Join(s.path, s.table, s.shard), k.Path(), value)
}

// NewJsonBlob creates a blob storage.
// table has the same schema
// shard is a logical split
func NewJsonBlob(root, table, shard string, debug bool) *BlobStorage {
	if root == "" {
		root = storage.DefaultDir
	}
	return &BlobStorage{
		table: table,
		shard: shard,
		path:  root,
		debug: debug,
	}
}

// Save saves the given json struct into the given path with the provided filename.
func Save(filePath string, fileName string, value interface{}) error {
	// check if filepath exists
	info, err := os.Stat(filePath)
	if err != nil {
		err := os.MkdirAll(filePath, os.ModePerm)
		if err != nil {
			return fmt.Errorf("could not make dir: %s: %w", filePath, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s", filePath)
	}

	b, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal '%s': %w", fileName, err)
	}

	p := filepath.Join(filePath, fmt.Sprintf("%s.json", fileName))
	if err := ioutil.WriteFile(p, b, 0644); err != nil {
		return fmt.Errorf("could not write file '%s': %w", p, err)
	}
	return nil
}

// Load loads the payload from the given filePath and fileName.
func Load(filePath string, fileName string, value interface{}) error {
	p := filepath.Join(filePath, fmt.Sprintf("%s.json", fileName))
	data, err := ioutil.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not read file '%s': %w", p, storage.NotFoundErr)
	}
	if err != nil {
		return fmt.Errorf("could not read file '%s': %v: %w", p, err, storage.CouldNotLoadErr)
	}

	err = json.Unmarshal(data, value)
	if err != nil {
		return fmt.Errorf("could not unmarshal key for '%s': '%v': %w", fileName, err, storage.CouldNotLoadErr)
	}
	return nil
}
