package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"gopkg.in/yaml.v3"

	"github.com/adalundhe/volcans/core/storage"
)

type Manager struct {
	configPtr   unsafe.Pointer
	dirs        *storage.Dirs
	projectRoot string
	file        string
	watchers    []func(*Config)
	watcherMu   sync.RWMutex
}

type Config struct {
	Data    DataConfig    `yaml:"data"`
	Analogy AnalogyConfig `yaml:"analogy"`
	Output  OutputConfig  `yaml:"output"`
	Search  SearchConfig  `yaml:"search"`
	Website WebsiteConfig `yaml:"website"`
}

type DataConfig struct {
	Dir    string `yaml:"dir"`
	Bundle string `yaml:"bundle"`
}

type AnalogyConfig struct {
	Count           int `yaml:"count"`
	SuggestionLimit int `yaml:"suggestion_limit"`
	CacheSize       int `yaml:"cache_size"`
}

type OutputConfig struct {
	Precision int    `yaml:"precision"`
	Color     string `yaml:"color"`
}

type SearchConfig struct {
	Limit     int `yaml:"limit"`
	Fuzziness int `yaml:"fuzziness"`
}

type WebsiteConfig struct {
	BaseURL string `yaml:"base_url"`
}

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Option configures a Manager.
type Option func(*Manager)

// WithProjectRoot sets the directory holding .volcans/. Defaults to ".".
func WithProjectRoot(root string) Option {
	return func(m *Manager) {
		m.projectRoot = root
	}
}

// WithFile adds an explicit config file loaded after every other file layer.
// Unlike the other layers it must exist.
func WithFile(path string) Option {
	return func(m *Manager) {
		m.file = path
	}
}

func NewManager(dirs *storage.Dirs, opts ...Option) *Manager {
	m := &Manager{
		dirs:        dirs,
		projectRoot: ".",
	}
	for _, opt := range opts {
		opt(m)
	}
	cfg := DefaultConfig(dirs)
	atomic.StorePointer(&m.configPtr, unsafe.Pointer(cfg))
	return m
}

// DefaultConfig returns the built-in configuration. Dataset paths are left
// empty when dirs is nil.
func DefaultConfig(dirs *storage.Dirs) *Config {
	cfg := &Config{
		Analogy: AnalogyConfig{
			Count:           10,
			SuggestionLimit: 10,
			CacheSize:       128,
		},
		Output: OutputConfig{
			Precision: 5,
			Color:     ColorAuto,
		},
		Search: SearchConfig{
			Limit:     10,
			Fuzziness: 1,
		},
		Website: WebsiteConfig{
			BaseURL: "https://volcano.si.edu/volcano.cfm",
		},
	}
	if dirs != nil {
		cfg.Data = DataConfig{
			Dir:    dirs.Data,
			Bundle: dirs.BundlePath(),
		}
	}
	return cfg
}

func (m *Manager) Get() *Config {
	return (*Config)(atomic.LoadPointer(&m.configPtr))
}

func (m *Manager) Load() error {
	cfg := DefaultConfig(m.dirs)
	project := storage.ResolveProjectDirs(m.projectRoot)

	if err := m.loadYAMLFile(project.Config, cfg); err != nil {
		return fmt.Errorf("project config: %w", err)
	}

	if m.dirs != nil {
		if err := m.loadYAMLFile(m.dirs.ConfigFile(), cfg); err != nil {
			return fmt.Errorf("user config: %w", err)
		}
	}

	if err := m.loadYAMLFile(project.LocalConfig(), cfg); err != nil {
		return fmt.Errorf("local config: %w", err)
	}

	if m.file != "" {
		if _, err := os.Stat(m.file); err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		if err := m.loadYAMLFile(m.file, cfg); err != nil {
			return fmt.Errorf("config file: %w", err)
		}
	}

	applyEnvironment(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	atomic.StorePointer(&m.configPtr, unsafe.Pointer(cfg))
	m.notifyWatchers(cfg)

	return nil
}

// loadYAMLFile overlays the keys present in path onto cfg.
func (m *Manager) loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// applyEnvironment overlays the VOLCANS_* variables onto cfg. Unset and
// unparsable variables leave cfg unchanged.
func applyEnvironment(cfg *Config) {
	if v := os.Getenv("VOLCANS_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("VOLCANS_BUNDLE"); v != "" {
		cfg.Data.Bundle = v
	}
	envInt("VOLCANS_COUNT", &cfg.Analogy.Count)
	envInt("VOLCANS_SUGGESTION_LIMIT", &cfg.Analogy.SuggestionLimit)
	envInt("VOLCANS_CACHE_SIZE", &cfg.Analogy.CacheSize)
	if v := os.Getenv("VOLCANS_COLOR"); v != "" {
		cfg.Output.Color = strings.ToLower(v)
	}
}

func envInt(name string, dst *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		*dst = n
	}
}

// Validate rejects values no command can run with.
func (c *Config) Validate() error {
	if c.Analogy.Count < 1 {
		return fmt.Errorf("analogy.count must be a positive integer, got %d", c.Analogy.Count)
	}
	if c.Analogy.SuggestionLimit < 1 {
		return fmt.Errorf("analogy.suggestion_limit must be a positive integer, got %d", c.Analogy.SuggestionLimit)
	}
	if c.Analogy.CacheSize < 1 {
		return fmt.Errorf("analogy.cache_size must be a positive integer, got %d", c.Analogy.CacheSize)
	}
	if c.Output.Precision < 0 {
		return fmt.Errorf("output.precision must not be negative, got %d", c.Output.Precision)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color)
	}
	if c.Search.Limit < 1 {
		return fmt.Errorf("search.limit must be a positive integer, got %d", c.Search.Limit)
	}
	if c.Search.Fuzziness < 0 || c.Search.Fuzziness > 2 {
		return fmt.Errorf("search.fuzziness must be between 0 and 2, got %d", c.Search.Fuzziness)
	}
	return nil
}

func (m *Manager) OnChange(fn func(*Config)) {
	m.watcherMu.Lock()
	m.watchers = append(m.watchers, fn)
	m.watcherMu.Unlock()
}

func (m *Manager) notifyWatchers(cfg *Config) {
	m.watcherMu.RLock()
	watchers := m.watchers
	m.watcherMu.RUnlock()

	for _, fn := range watchers {
		fn(cfg)
	}
}

func (m *Manager) Reload() error {
	return m.Load()
}
