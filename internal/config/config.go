package config

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL      = "http://127.0.0.1:7433"
	DefaultDBFileName  = "filehub.db"
	DefaultDataDirName = "filehub-data"
	DefaultLogLevel    = "info"
	DefaultListenAddr  = "127.0.0.1:7433"
	ConfigFileName     = ".filehub.toml"

	DefaultUploadMaxBytes        int64 = 100 * 1024 * 1024
	DefaultUploadMultipartMemory int64 = 8 * 1024 * 1024

	DefaultMetricsTopDuplicateGroups = 10

	DefaultListCacheCapacity   = 256
	DefaultListCacheTTLSeconds = 300

	DefaultGCBatchSize       = 500
	DefaultGCIntervalSeconds = 0

	configDirEnvKey = "FILEHUB_CONFIG_DIR"
)

// UploadConfig defines runtime limits for the upload endpoint.
type UploadConfig struct {
	MaxUploadBytes     int64    `toml:"max_upload_bytes"`
	MultipartMaxMemory int64    `toml:"multipart_max_memory"`
	AllowedMediaTypes  []string `toml:"allowed_media_types"`
}

// MetricsConfig defines runtime configuration for metrics reporting.
type MetricsConfig struct {
	TopDuplicateGroups int `toml:"top_duplicate_groups"`
}

// ListCacheConfig defines the list-response cache shape.
type ListCacheConfig struct {
	Capacity   int `toml:"capacity"`
	TTLSeconds int `toml:"ttl_seconds"`
}

// GCConfig defines orphan-sweep behavior. An interval of 0 disables the
// background sweep; the admin endpoint still triggers sweeps on demand.
type GCConfig struct {
	BatchSize       int `toml:"batch_size"`
	IntervalSeconds int `toml:"interval_seconds"`
}

// Config defines runtime configuration for filehub.
type Config struct {
	APIURL         string          `toml:"api_url"`
	ListenAddr     string          `toml:"listen_addr"`
	DBPath         string          `toml:"db_path"`
	DataDir        string          `toml:"data_dir"`
	LogLevel       string          `toml:"log_level"`
	AdminTokenHash string          `toml:"admin_token_hash"`
	Uploads        UploadConfig    `toml:"uploads"`
	Metrics        MetricsConfig   `toml:"metrics"`
	ListCache      ListCacheConfig `toml:"list_cache"`
	GC             GCConfig        `toml:"gc"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:     DefaultAPIURL,
		ListenAddr: DefaultListenAddr,
		LogLevel:   DefaultLogLevel,
		Uploads: UploadConfig{
			MaxUploadBytes:     DefaultUploadMaxBytes,
			MultipartMaxMemory: DefaultUploadMultipartMemory,
		},
		Metrics: MetricsConfig{
			TopDuplicateGroups: DefaultMetricsTopDuplicateGroups,
		},
		ListCache: ListCacheConfig{
			Capacity:   DefaultListCacheCapacity,
			TTLSeconds: DefaultListCacheTTLSeconds,
		},
		GC: GCConfig{
			BatchSize:       DefaultGCBatchSize,
			IntervalSeconds: DefaultGCIntervalSeconds,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, ConfigFileName), true
}

var allowedKeys = []string{
	"api_url",
	"listen_addr",
	"db_path",
	"data_dir",
	"log_level",
	"admin_token_hash",
	"uploads.max_upload_bytes",
	"uploads.multipart_max_memory",
	"uploads.allowed_media_types",
	"metrics.top_duplicate_groups",
	"list_cache.capacity",
	"list_cache.ttl_seconds",
	"gc.batch_size",
	"gc.interval_seconds",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "listen_addr":
		return c.ListenAddr, nil
	case "db_path":
		return c.DBPath, nil
	case "data_dir":
		return c.DataDir, nil
	case "log_level":
		return c.LogLevel, nil
	case "admin_token_hash":
		return c.AdminTokenHash, nil
	case "uploads.max_upload_bytes":
		return strconv.FormatInt(c.Uploads.MaxUploadBytes, 10), nil
	case "uploads.multipart_max_memory":
		return strconv.FormatInt(c.Uploads.MultipartMaxMemory, 10), nil
	case "uploads.allowed_media_types":
		return strings.Join(c.Uploads.AllowedMediaTypes, ","), nil
	case "metrics.top_duplicate_groups":
		return strconv.Itoa(c.Metrics.TopDuplicateGroups), nil
	case "list_cache.capacity":
		return strconv.Itoa(c.ListCache.Capacity), nil
	case "list_cache.ttl_seconds":
		return strconv.Itoa(c.ListCache.TTLSeconds), nil
	case "gc.batch_size":
		return strconv.Itoa(c.GC.BatchSize), nil
	case "gc.interval_seconds":
		return strconv.Itoa(c.GC.IntervalSeconds), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from the global file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		if err := loadFile(filepath.Join(home, ConfigFileName), &cfg); err != nil {
			return nil, err
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
		if cfg.DataDir == "" {
			cfg.DataDir = filepath.Join(cwd, DefaultDataDirName)
		}
	}

	if apiURL := os.Getenv("FILEHUB_API_URL"); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if addr := os.Getenv("FILEHUB_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if dbPath := os.Getenv("FILEHUB_DB"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if dataDir := os.Getenv("FILEHUB_DATA_DIR"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if level := os.Getenv("FILEHUB_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if hash := os.Getenv("FILEHUB_ADMIN_TOKEN_HASH"); hash != "" {
		cfg.AdminTokenHash = hash
	}
	if raw := strings.TrimSpace(os.Getenv("FILEHUB_ALLOWED_MEDIA_TYPES")); raw != "" {
		cfg.Uploads.AllowedMediaTypes = splitCSV(raw)
	}

	cfg.normalizeDefaults()

	return &cfg, nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "uploads.max_upload_bytes", "uploads.multipart_max_memory":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "metrics.top_duplicate_groups", "list_cache.capacity", "gc.batch_size":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "list_cache.ttl_seconds", "gc.interval_seconds":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer", key)
		}
		return parsed, nil
	case "uploads.allowed_media_types":
		return splitCSV(value), nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func splitCSV(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func (c *Config) normalizeDefaults() {
	if c.Uploads.MaxUploadBytes <= 0 {
		c.Uploads.MaxUploadBytes = DefaultUploadMaxBytes
	}
	if c.Uploads.MultipartMaxMemory <= 0 {
		c.Uploads.MultipartMaxMemory = DefaultUploadMultipartMemory
	}
	if c.Metrics.TopDuplicateGroups <= 0 {
		c.Metrics.TopDuplicateGroups = DefaultMetricsTopDuplicateGroups
	}
	if c.ListCache.Capacity <= 0 {
		c.ListCache.Capacity = DefaultListCacheCapacity
	}
	if c.ListCache.TTLSeconds < 0 {
		c.ListCache.TTLSeconds = DefaultListCacheTTLSeconds
	}
	if c.GC.BatchSize <= 0 {
		c.GC.BatchSize = DefaultGCBatchSize
	}
	if c.GC.IntervalSeconds < 0 {
		c.GC.IntervalSeconds = 0
	}
	c.Uploads.AllowedMediaTypes = normalizeConfiguredMediaTypes(c.Uploads.AllowedMediaTypes)
}

func normalizeConfiguredMediaTypes(rawValues []string) []string {
	if len(rawValues) == 0 {
		return nil
	}
	out := make([]string, 0, len(rawValues))
	seen := map[string]struct{}{}
	for _, raw := range rawValues {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parsed, _, err := mime.ParseMediaType(raw)
		if err != nil {
			continue
		}
		normalized := strings.ToLower(strings.TrimSpace(parsed))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
