// Package storage provides platform-native directory resolution with XDG support.
package storage

import (
	"os"
	"path/filepath"
	"sync"
)

// AppName is the subdirectory used under every base directory.
const AppName = "volcans"

const (
	// ConfigFileName is the YAML configuration file in every config layer.
	ConfigFileName = "config.yaml"

	// BundleFileName is the SQLite dataset bundle in the cache directory.
	BundleFileName = "volcans.db"
)

// Dirs provides platform-native directory resolution with XDG support.
type Dirs struct {
	Config string // User configuration
	Data   string // CSV dataset directory
	Cache  string // Regenerable dataset bundle
}

// ProjectDirs returns project-local directories.
type ProjectDirs struct {
	Root   string // .volcans/
	Config string // .volcans/config.yaml (committed)
	Local  string // .volcans/local/ (gitignored)
}

var (
	globalDirs     *Dirs
	globalDirsOnce sync.Once
	globalDirsErr  error
)

// ResolveDirs returns platform-appropriate directories.
// Results are cached after first call.
func ResolveDirs() (*Dirs, error) {
	globalDirsOnce.Do(func() {
		globalDirs, globalDirsErr = resolveDirsImpl()
	})
	return globalDirs, globalDirsErr
}

func resolveDirsImpl() (*Dirs, error) {
	dirs := &Dirs{
		Config: resolveDir("XDG_CONFIG_HOME", platformConfigDefault()),
		Data:   resolveDir("XDG_DATA_HOME", platformDataDefault()),
		Cache:  resolveDir("XDG_CACHE_HOME", platformCacheDefault()),
	}
	return dirs, nil
}

func resolveDir(envVar, fallback string) string {
	if dir := os.Getenv(envVar); dir != "" {
		return filepath.Join(dir, AppName)
	}
	return fallback
}

// ResolveProjectDirs returns project-local directories for the given project root.
func ResolveProjectDirs(projectRoot string) *ProjectDirs {
	root := filepath.Join(projectRoot, "."+AppName)
	return &ProjectDirs{
		Root:   root,
		Config: filepath.Join(root, ConfigFileName),
		Local:  filepath.Join(root, "local"),
	}
}

// LocalConfig returns the path of the gitignored project config.
func (p *ProjectDirs) LocalConfig() string {
	return filepath.Join(p.Local, ConfigFileName)
}

// EnsureDir creates a directory with the specified permissions if it doesn't exist.
// Uses 0755 when perm is zero.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = 0755
	}
	return os.MkdirAll(path, perm)
}

// ConfigDir returns the config subdirectory path.
func (d *Dirs) ConfigDir(subpath ...string) string {
	return filepath.Join(append([]string{d.Config}, subpath...)...)
}

// CacheDir returns the cache subdirectory path.
func (d *Dirs) CacheDir(subpath ...string) string {
	return filepath.Join(append([]string{d.Cache}, subpath...)...)
}

// ConfigFile returns the user configuration file.
func (d *Dirs) ConfigFile() string {
	return d.ConfigDir(ConfigFileName)
}

// BundlePath returns the default dataset bundle location.
func (d *Dirs) BundlePath() string {
	return d.CacheDir(BundleFileName)
}

// EnsureAll creates the config, data and cache directories.
func (d *Dirs) EnsureAll() error {
	for _, dir := range []string{d.Config, d.Data, d.Cache} {
		if err := EnsureDir(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
