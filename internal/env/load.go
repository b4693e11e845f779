// Package env loads settings from the process environment and an optional .env file.
package env

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads the given .env files (".env" when none are named) into the
// environment. Variables that are already set keep their value.
func LoadEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		if len(filenames) == 0 && os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// Get returns the value of key, or def when it is unset or blank.
func Get(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return val
	}
	return def
}

// Bool reports whether key holds a true value; def is used when it is unset
// or unparsable.
func Bool(key string, def bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		log.Printf("env: ignoring %s=%q: %v", key, val, err)
		return def
	}
	return b
}
