package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/personjob/logger"
)

// FileSystem is what the loader needs from the disk.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

type osFS struct{}

func (osFS) Exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func (osFS) LoadEnv(p string) error { return godotenv.Load(p) }

// LoaderOption adjusts where LoadConfig looks and which variables it binds.
type LoaderOption func(*loader)

// WithConfigFile skips the config.yml search and reads p.
func WithConfigFile(p string) LoaderOption {
	return func(l *loader) { l.configFile = p }
}

// WithEnvFile skips the .env search and loads p.
func WithEnvFile(p string) LoaderOption {
	return func(l *loader) { l.envFile = p }
}

// WithEnvPrefix binds only PREFIX_* variables and strips the prefix before
// mapping them onto keys. A trailing underscore on prefix is ignored.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *loader) { l.envPrefix = strings.ToUpper(strings.TrimSuffix(prefix, "_")) }
}

type loader struct {
	fs         FileSystem
	configFile string
	envFile    string
	envPrefix  string
}

// LoadConfig fills cfg from three layers, lowest first: the YAML config file,
// variables from a .env file, and the process environment. A missing config
// file is not an error.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	l := &loader{fs: osFS{}}
	for _, opt := range opts {
		opt(l)
	}
	return l.load(serviceName, cfg)
}

func (l *loader) load(serviceName string, cfg interface{}) error {
	log := logger.Get("config")
	configFile, envFile := l.locate(serviceName)
	v := viper.New()

	if configFile != "" && l.fs.Exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		log.Debug("config file loaded", logger.Fields("path", configFile))
	}

	// godotenv never overrides variables that are already set
	if envFile != "" && l.fs.Exists(envFile) {
		if err := l.fs.LoadEnv(envFile); err != nil {
			log.Warn("failed to load .env file", logger.Fields("path", envFile, logger.FieldError, err.Error()))
		}
	}

	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if l.envPrefix != "" {
			if name, ok = strings.CutPrefix(name, l.envPrefix+"_"); !ok {
				continue
			}
		}
		for _, key := range envKeyCandidates(name) {
			v.Set(key, value)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// locate returns the explicit files when given and otherwise the first
// existing candidate near the working directory.
func (l *loader) locate(serviceName string) (configFile, envFile string) {
	configFile, envFile = l.configFile, l.envFile
	cmdDir := path.Join("cmd", serviceName)
	if configFile == "" {
		configFile = l.first([]string{
			"./" + cmdDir + "/config.yml",
			"../" + cmdDir + "/config.yml",
			"../../" + cmdDir + "/config.yml",
			"./config/config.yml",
			"./config.yml",
		})
	}
	if envFile == "" {
		var candidates []string
		for _, name := range []string{".env." + serviceName, ".env"} {
			for _, dir := range []string{"./" + cmdDir, "./config", ".", ".."} {
				candidates = append(candidates, dir+"/"+name)
			}
		}
		envFile = l.first(candidates)
	}
	return configFile, envFile
}

func (l *loader) first(paths []string) string {
	for _, p := range paths {
		if l.fs.Exists(p) {
			return p
		}
	}
	return ""
}

// envKeyCandidates maps a variable name onto every key path it could mean.
// Each underscore is either a nesting separator or part of a leaf key, and
// only the split point between the two varies:
//
//	STORAGE_BASE_PATH -> storage_base_path, storage.base_path, storage.base.path
func envKeyCandidates(name string) []string {
	parts := strings.Split(strings.ToLower(name), "_")
	keys := []string{strings.Join(parts, "_")}
	for i := 1; i < len(parts); i++ {
		keys = append(keys, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return keys
}
