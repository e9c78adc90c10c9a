package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"wordtap/progress"
)

// Profile is the configuration to start wordtap.
type Profile struct {
	// Mode can be "prod", "dev" or "demo"
	Mode string `mapstructure:"mode"`
	// Addr is the binding address for the API server
	Addr string `mapstructure:"addr"`
	// Port is the binding port for the API server
	Port int `mapstructure:"port"`
	// Data is the data directory, used for the default sqlite DSN
	Data string `mapstructure:"data"`
	// Driver is the vocabulary store driver (memory or sqlite)
	Driver string `mapstructure:"driver"`
	// DSN points to where wordtap stores the vocabulary
	DSN string `mapstructure:"dsn"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CacheSize is the number of distinct texts whose segments are memoized
	CacheSize int `mapstructure:"cache_size"`
	// Workers bounds concurrent annotation in batch mode
	Workers int `mapstructure:"workers"`
	// DictionaryFile seeds the store at startup (YAML or JSON word list)
	DictionaryFile string `mapstructure:"dictionary_file"`
	// Styles overrides the presentation of progress buckets, keyed by bucket name
	Styles map[string]progress.Style `mapstructure:"styles"`

	Version string `mapstructure:"-"`
}

const envPrefix = "WORDTAP"

// Load builds a Profile from defaults, an optional YAML or JSON config file
// and WORDTAP_* environment variables. Environment variables win over the
// file, which wins over defaults.
func Load(v *viper.Viper, configFile string) (*Profile, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", configFile)
		}
	}

	p := &Profile{}
	if err := v.Unmarshal(p); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "dev")
	v.SetDefault("addr", "")
	v.SetDefault("port", 8081)
	v.SetDefault("data", "")
	v.SetDefault("driver", "memory")
	v.SetDefault("dsn", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("cache_size", 1024)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("dictionary_file", "")
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// StyleTable returns the default bucket presentation with the configured
// overrides applied.
func (p *Profile) StyleTable() progress.Styles {
	return progress.DefaultStyles().Merge(p.Styles)
}

func (p *Profile) Validate() error {
	p.Mode = strings.ToLower(p.Mode)
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.CacheSize <= 0 {
		p.CacheSize = 1024
	}
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU()
	}

	p.Driver = strings.ToLower(p.Driver)
	switch p.Driver {
	case "memory":
		return nil
	case "sqlite":
	default:
		return errors.Errorf("unknown store driver %q: only 'memory' and 'sqlite' are supported", p.Driver)
	}

	if p.DSN != "" {
		return nil
	}
	if p.Data == "" {
		if p.Mode == "prod" {
			p.Data = "/var/opt/wordtap"
		} else {
			p.Data = "."
		}
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir
	p.DSN = filepath.Join(dataDir, fmt.Sprintf("wordtap_%s.db", p.Mode))
	return nil
}

func checkDataDir(dataDir string) (string, error) {
	absDir, err := filepath.Abs(dataDir)
	if err != nil {
		return "", errors.Wrapf(err, "unable to resolve data folder %s", dataDir)
	}
	// Trim trailing \ or / in case user supplies
	absDir = strings.TrimRight(absDir, "\\/")
	if absDir == "" {
		absDir = string(filepath.Separator)
	}
	if _, err := os.Stat(absDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", absDir)
	}
	return absDir, nil
}
