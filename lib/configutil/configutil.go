// Package configutil reads layered json5 configuration. A base
// <name>.json5 is merged with an optional <name>.local.json5 override
// that holds secrets and machine-local paths and stays out of version
// control.
package configutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// localVariant turns "config.json5" into "config.local.json5".
func localVariant(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, stem+".local"+ext)
}

// readLayer unmarshals one file into out, reporting whether a usable
// file existed. An empty file counts as absent.
func readLayer(path string, out any) (bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	return true, json5.Unmarshal(contents, out)
}

// ReadConfig reads <name> and merges its local variant over it, the
// override winning field by field. When neither file exists the error
// is os.ErrNotExist.
func ReadConfig[T any](name string) (T, error) {
	var config T

	baseFound, err := readLayer(name, &config)
	if err != nil {
		return config, err
	}

	localPath := localVariant(name)
	var override T
	localFound, err := readLayer(localPath, &override)
	if err != nil {
		return config, err
	}
	if localFound {
		err = mergo.Merge(&config, override, mergo.WithOverride)
		if err != nil {
			return config, err
		}
		slog.Info("merged local config overrides", "path", localPath)
	}

	if !baseFound && !localFound {
		return config, os.ErrNotExist
	}
	return config, nil
}

// ReadRecursively walks upward from the working directory until a
// directory contains the config, so binaries run from anywhere inside
// the repository.
func ReadRecursively[T any](name string) (T, error) {
	var zero T

	dir, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(dir, name))
		if !os.IsNotExist(err) {
			return config, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return zero, os.ErrNotExist
		}
		dir = parent
	}
}
