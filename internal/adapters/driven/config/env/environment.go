// Package env provides the Environment adapter: process environment
// variables backed by an optional .env file.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driven"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/logger"
)

// Ensure Environment implements the interface.
var _ driven.Environment = (*Environment)(nil)

// DefaultDotEnv is the file read from the working directory.
const DefaultDotEnv = ".env"

// Environment resolves variables from the process first and the .env
// file second. The process environment is never modified.
type Environment struct {
	dotenv map[string]string
	lookup func(string) (string, bool)
}

// NewEnvironment reads the given .env files. Missing files are skipped.
func NewEnvironment(files ...string) (*Environment, error) {
	e := &Environment{
		dotenv: make(map[string]string),
		lookup: os.LookupEnv,
	}

	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		logger.Debug("Loaded %d variables from %s", len(values), file)
		for k, v := range values {
			if _, seen := e.dotenv[k]; !seen {
				e.dotenv[k] = v
			}
		}
	}

	return e, nil
}

// Lookup returns the value of key.
func (e *Environment) Lookup(key string) (string, bool) {
	if v, ok := e.lookup(key); ok {
		return v, true
	}
	v, ok := e.dotenv[key]
	return v, ok
}
