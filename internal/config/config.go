// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the application.
type Options struct {
	// StorePath is the path of the SQLite database backing the record store.
	StorePath string

	// KeyPath is the path of the device key file used to seal stored values.
	KeyPath string

	// LogLevel is the minimum structured-logging level.
	LogLevel string

	// AutoLockSeconds is the idle interval after which the vault re-locks.
	AutoLockSeconds int

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.StorePath, "store", "passkeeper.db", "path to the record store database")
	flag.StringVar(&options.KeyPath, "keyfile", "passkeeper.key", "path to the device key file")
	flag.StringVar(&options.LogLevel, "loglevel", "info", "log level (debug, info, warn, error)")
	flag.IntVar(&options.AutoLockSeconds, "autolock", 60, "idle seconds before the vault re-locks")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if storePath := os.Getenv("PASSKEEPER_STORE"); storePath != "" {
		options.StorePath = storePath
	}
	if keyPath := os.Getenv("PASSKEEPER_KEYFILE"); keyPath != "" {
		options.KeyPath = keyPath
	}
	if level := os.Getenv("PASSKEEPER_LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}

	return options
}
