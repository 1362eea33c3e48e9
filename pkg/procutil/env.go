package procutil

import (
	"os"
	"strings"
)

type EnvVar string

const (
	// AUTOLOAD_CONFIG names the config file used when no flag is given.
	AUTOLOAD_CONFIG = EnvVar("AUTOLOAD_CONFIG")
	// AUTOLOAD_EAGER overrides the eager setting of a config.
	AUTOLOAD_EAGER = EnvVar("AUTOLOAD_EAGER")
	// AUTOLOAD_TAG overrides the log tag of a config.
	AUTOLOAD_TAG = EnvVar("AUTOLOAD_TAG")
)

func LookupBoolEnv(name EnvVar, defaultValue bool) bool {
	if val, ok := os.LookupEnv(string(name)); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultValue
}

func LookupEnv(name EnvVar) (string, bool) {
	return os.LookupEnv(string(name))
}
