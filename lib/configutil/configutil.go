package configutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// readLayer decodes one config file into out. A missing or empty file
// reports found as false without an error.
func readLayer[T any](path string, out *T) (bool, error) {
	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(buf) == 0 {
		return false, nil
	}
	return true, json5.Unmarshal(buf, out)
}

// localName derives the override path for a config file, config.json5
// becomes config.local.json5.
func localName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

// ReadConfig reads <name> and merges an optional .local counterpart on top
// of it, override values win. When neither file exists the error is
// os.ErrNotExist.
func ReadConfig[T any](name string) (T, error) {
	var out T

	found, err := readLayer(name, &out)
	if err != nil {
		return out, err
	}

	var override T
	localPath := localName(name)
	foundLocal, err := readLayer(localPath, &override)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localPath)
	}

	if !found && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadConfigOrZero is ReadConfig except a completely missing configuration
// yields the zero value instead of an error. Malformed files still fail.
func ReadConfigOrZero[T any](name string) (T, error) {
	out, err := ReadConfig[T](name)
	if os.IsNotExist(err) {
		return out, nil
	}
	return out, err
}

// ReadRecursively walks up from the working directory looking for the named
// config file, stopping at the filesystem root.
func ReadRecursively[T any](name string) (T, error) {
	var zero T

	dir, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for {
		cfg, err := ReadConfig[T](filepath.Join(dir, name))
		if !os.IsNotExist(err) {
			return cfg, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return zero, os.ErrNotExist
		}
		dir = parent
	}
}
