//go:build !windows

package storage

import (
	"os"
	"path/filepath"
)

func platformConfigDefault() string {
	return filepath.Join(os.Getenv("HOME"), ".config", AppName)
}

func platformDataDefault() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", AppName)
}

func platformCacheDefault() string {
	return filepath.Join(os.Getenv("HOME"), ".cache", AppName)
}
