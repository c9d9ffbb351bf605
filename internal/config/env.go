package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFiles are tried in order when no explicit env file is given.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped. It
// returns the files that were loaded.
func LoadEnvFiles(paths ...string) ([]string, error) {
	if len(paths) == 0 {
		paths = DefaultEnvFiles
	}
	var loaded []string
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, err
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}
