package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jenyangk/FS-Sim/pkg/diskstore"
	"github.com/jenyangk/FS-Sim/pkg/objectstore"
	"github.com/jenyangk/FS-Sim/pkg/pgutil"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "FSSIM"
	appName      = "fssim"
)

const (
	storeDir      = "dir"
	storeMem      = "mem"
	storeS3       = "s3"
	storePostgres = "postgres"
	storeBolt     = "bolt"
)

type Config struct {
	Store     string `envconfig:"STORE"      yaml:"store"`
	Dir       string `envconfig:"DIR"        yaml:"dir"`
	Bucket    string `envconfig:"BUCKET"     yaml:"bucket"`
	Prefix    string `envconfig:"PREFIX"     yaml:"prefix"`
	Region    string `envconfig:"REGION"     yaml:"region"`
	Endpoint  string `envconfig:"ENDPOINT"   yaml:"endpoint"`
	Gzip      bool   `envconfig:"GZIP"       yaml:"gzip"`
	BoltPath  string `envconfig:"BOLT_PATH"  yaml:"boltPath"`
	Addr      string `envconfig:"ADDR"       yaml:"addr"`
	LogLevel  string `envconfig:"LOG_LEVEL"  yaml:"logLevel"`
	LogFormat string `envconfig:"LOG_FORMAT" yaml:"logFormat"`
}

// DefaultConfigFile is `$FSSIM_CONFIG_FILE`, or else `fssim.yaml` in the
// user's config directory.
func DefaultConfigFile() string {
	if configFile := os.Getenv(envVarPrefix + "_CONFIG_FILE"); configFile != "" {
		return configFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return appName + ".yaml"
	}
	return filepath.Join(dir, appName+".yaml")
}

// LoadConfig reads configFile if it exists, then lets environment variables
// override its values. Empty fields get defaults afterwards, so a default
// never masks a value from the file.
func LoadConfig(configFile string) (*Config, error) {
	var c Config
	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling config file: %w", err)
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	c.setDefaults()
	return &c, nil
}

func (c *Config) setDefaults() {
	setDefault(&c.Store, storeDir)
	setDefault(&c.Dir, ".")
	setDefault(&c.BoltPath, appName+".db")
	setDefault(&c.Addr, "127.0.0.1:8080")
	setDefault(&c.LogLevel, "warn")
	setDefault(&c.LogFormat, "text")
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func (c *Config) Validate() error {
	if y, e := func() (string, string) {
		switch c.Store {
		case storeDir:
			if c.Dir == "" {
				return "dir", "DIR"
			}
		case storeS3:
			if c.Bucket == "" {
				return "bucket", "BUCKET"
			}
		case storeBolt:
			if c.BoltPath == "" {
				return "boltPath", "BOLT_PATH"
			}
		}
		if c.Addr == "" {
			return "addr", "ADDR"
		}
		return "", ""
	}(); y != "" {
		return fmt.Errorf(
			"missing required configuration: %s / %s_%s",
			y,
			envVarPrefix,
			e,
		)
	}

	switch c.Store {
	case storeDir, storeMem, storeS3, storePostgres, storeBolt:
	default:
		return fmt.Errorf(
			"invalid store `%s`: wanted one of `%s`",
			c.Store,
			strings.Join(
				[]string{storeDir, storeMem, storeS3, storePostgres, storeBolt},
				"`, `",
			),
		)
	}

	if _, err := c.level(); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf(
			"invalid log format `%s`: wanted `text` or `json`",
			c.LogFormat,
		)
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level `%s`: %w", c.LogLevel, err)
	}
	return level, nil
}

// Logger writes to stderr so it never interleaves with script output.
func (c *Config) Logger() *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelWarn
	}
	opts := slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &opts))
}

// OpenStore returns the configured disk store and a function that releases
// whatever the store holds open.
func (c *Config) OpenStore() (diskstore.Store, func() error, error) {
	nop := func() error { return nil }
	switch c.Store {
	case storeDir:
		return &diskstore.DirStore{Dir: c.Dir}, nop, nil
	case storeMem:
		return diskstore.NewMemStore(), nop, nil
	case storeS3:
		s3, err := objectstore.NewS3ObjectStore(c.Region, c.Endpoint)
		if err != nil {
			return nil, nil, err
		}
		var objects objectstore.ObjectStore = s3
		if c.Gzip {
			objects = &objectstore.GzipObjectStore{ObjectStore: s3}
		}
		return &diskstore.ObjectStore{
			Objects: objects,
			Bucket:  c.Bucket,
			Prefix:  c.Prefix,
		}, nop, nil
	case storePostgres:
		db, err := pgutil.OpenEnvPing()
		if err != nil {
			return nil, nil, err
		}
		store := (*diskstore.PGStore)(db)
		if err := store.EnsureTable(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil
	case storeBolt:
		store, err := diskstore.OpenBolt(c.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("invalid store `%s`", c.Store)
	}
}
