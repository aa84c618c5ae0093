package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env files into the process environment. Missing files are
// skipped and variables that are already set are never overwritten.
func LoadEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if fi, err := os.Stat(p); err != nil || fi.IsDir() {
			continue
		}
		existing = append(existing, p)
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// LoadDefaultEnv loads ./.env and then the .env in the default config dir.
func LoadDefaultEnv() error {
	return LoadEnv(".env", filepath.Join(DefaultConfigDir(), ".env"))
}
