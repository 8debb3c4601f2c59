package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/util"
)

// FileSystem abstracts the file operations the loader performs, so tests
// can resolve files without touching the real disk.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem against the host filesystem.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Defaulter is implemented by config structs that fill unset fields.
type Defaulter interface {
	ApplyDefaults()
}

// Validator is implemented by config structs that check their own values.
type Validator interface {
	Validate() error
}

// Resolver locates the config and env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles holds the file paths a load will read from. Either field
// may be empty when nothing was found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths from opts when set, otherwise
// searches the standard locations.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.findConfigFile(serviceName)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.findEnvFile(serviceName)
	}

	return resolved
}

// searchDirs returns the directories checked for config and env files,
// in precedence order: working directory, ./config, then the system
// location for the service.
func searchDirs(serviceName string) []string {
	return []string{
		".",
		"config",
		filepath.Join("/etc", serviceName),
	}
}

// findConfigFile searches for config.yml (or .yaml) in standard locations.
func (cr *Resolver) findConfigFile(serviceName string) string {
	for _, dir := range searchDirs(serviceName) {
		for _, name := range []string{"config.yml", "config.yaml"} {
			path := filepath.Join(dir, name)
			if cr.FileSystem.Exists(path) {
				return path
			}
		}
	}
	return ""
}

// findEnvFile searches for .env.<service> then .env in standard locations.
// The service-specific file wins across all directories before the generic
// one is considered.
func (cr *Resolver) findEnvFile(serviceName string) string {
	for _, name := range []string{".env." + serviceName, ".env"} {
		for _, dir := range searchDirs(serviceName) {
			path := filepath.Join(dir, name)
			if cr.FileSystem.Exists(path) {
				return path
			}
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// LoadConfig loads configuration for a service into cfg. It reads the
// resolved config.yml, layers .env and process environment variables on
// top, and unmarshals the merged result. If cfg implements Defaulter
// and/or Validator, ApplyDefaults and Validate run after unmarshaling,
// in that order.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	if err := loadFromResolvedFiles(serviceName, cfg, files, lc.FileSystem); err != nil {
		return err
	}

	if d, ok := cfg.(Defaulter); ok {
		d.ApplyDefaults()
	}
	if v, ok := cfg.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid configuration for %s: %w", serviceName, err)
		}
	}
	return nil
}

// loadFromResolvedFiles merges the config sources in precedence order:
// YAML file first, then .env, then the process environment.
func loadFromResolvedFiles(serviceName string, cfg any, files ResolvedFiles, fs FileSystem) error {
	v := viper.New()

	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			logger.Warn("Config file unreadable, continuing with environment only",
				map[string]any{"file": files.ConfigFile, "error": err.Error()})
		}
	}

	v.AutomaticEnv()
	autoBindEnvVars(v)

	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("Env file unreadable, continuing without it",
				map[string]any{"file": files.EnvFile, "error": err.Error()})
		} else {
			// Re-bind so variables introduced by the .env file are seen.
			autoBindEnvVars(v)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}

	return nil
}

// autoBindEnvVars binds every environment variable to viper under each
// nested-key variant, so UPPER_CASE_WITH_UNDERSCORES names reach the
// matching mapstructure fields.
func autoBindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		for _, variant := range generateEnvKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants expands an environment variable name into the
// nested key spellings it could address. Underscores are ambiguous
// between nesting separators and in-name underscores, so every split
// point is produced.
//
// Examples:
//
//	ENGINE_NODE_TIMEOUT -> [engine_node_timeout, engine.node.timeout,
//	                        engine.node_timeout]
//	SERVER_PORT         -> [server_port, server.port]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}

	// Progressive nesting: dot-join the first i parts, underscore the rest.
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	return util.Unique(variants)
}
