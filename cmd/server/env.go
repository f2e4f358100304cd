package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
)

// loadEnvFiles reads each file in order, skipping missing ones. Variables
// already set, including those from an earlier file, are not overridden.
func loadEnvFiles(logger *log.Logger, files ...string) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Printf("env: skip %s: %v", f, err)
		}
	}
}
