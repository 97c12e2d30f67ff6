package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const path = "infra/config"

// Load reads the json file at the given path into v.
// Fields missing from the file keep the values v already holds.
func Load(file string, v interface{}) error {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return fmt.Errorf("could not load config '%s': %w", file, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("could not unmarshal config '%s': %w", file, err)
	}
	log.Info().Str("file", file).Msg("loaded config")
	return nil
}

// MustLoad loads the default config for the given key
func MustLoad(key string, v interface{}) {
	if err := Load(filepath.Join(path, fmt.Sprintf("%s.json", key)), v); err != nil {
		panic(err.Error())
	}
}
