package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file from dir into the process environment.
// A missing file is not an error; variables already set are not overridden.
func LoadDotEnv(dir string) error {
	file := filepath.Join(dir, ".env")
	if err := godotenv.Load(file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
