package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/oarkflow/bcl"
	"gopkg.in/yaml.v3"

	"github.com/oarkflow/coref/nlp/coref"
	"github.com/oarkflow/coref/nlp/stopwords"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Pipeline struct {
	Sieves        []string `yaml:"sieves" bcl:"sieves" json:"sieves"`
	Stoplist      []string `yaml:"stoplist" bcl:"stoplist" json:"stoplist"`
	StoplistFile  string   `yaml:"stoplist_file" bcl:"stoplist_file" json:"stoplist_file,omitempty"`
	PronounWindow int      `yaml:"pronoun_window" bcl:"pronoun_window" json:"pronoun_window"`
	Workers       int      `yaml:"workers" bcl:"workers" json:"workers"`
}

type Log struct {
	Level      string `yaml:"level" bcl:"level" json:"level"`
	File       string `yaml:"file" bcl:"file" json:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb" bcl:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" bcl:"max_backups" json:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" bcl:"max_age_days" json:"max_age_days"`
}

type Server struct {
	Address   string  `yaml:"address" bcl:"address" json:"address"`
	BodyLimit int     `yaml:"body_limit" bcl:"body_limit" json:"body_limit"`
	RateLimit float64 `yaml:"rate_limit" bcl:"rate_limit" json:"rate_limit"`
	Burst     int     `yaml:"burst" bcl:"burst" json:"burst"`
}

type Config struct {
	Pipeline Pipeline `yaml:"pipeline" bcl:"pipeline" json:"pipeline"`
	Log      Log      `yaml:"log" bcl:"log" json:"log"`
	Server   Server   `yaml:"server" bcl:"server" json:"server"`
}

func Default() *Config {
	return &Config{
		Pipeline: Pipeline{
			Sieves:        append([]string(nil), coref.DefaultSieveOrder...),
			Stoplist:      append([]string(nil), stopwords.DefaultHeads...),
			PronounWindow: coref.DefaultPronounWindow,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
		Server: Server{
			Address:   ":8080",
			BodyLimit: 4 << 20,
			RateLimit: 50,
			Burst:     100,
		},
	}
}

// Load reads path on top of Default, then applies .env and COREF_*
// environment overrides. A missing file is not an error. The result is
// validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bcl":
		if _, err := bcl.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("COREF_SIEVES"); v != "" {
		var names []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		c.Pipeline.Sieves = names
	}
	if v := os.Getenv("COREF_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("COREF_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("COREF_ADDR"); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv("COREF_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: COREF_WORKERS=%q", ErrInvalidConfig, v)
		}
		c.Pipeline.Workers = n
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	for _, name := range c.Pipeline.Sieves {
		if !coref.KnownSieve(name) {
			errs = append(errs, fmt.Errorf("unknown sieve %q", name))
		}
	}
	if c.Pipeline.PronounWindow < 0 {
		errs = append(errs, fmt.Errorf("pronoun_window must be >= 0, got %d", c.Pipeline.PronounWindow))
	}
	if c.Pipeline.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Pipeline.Workers))
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	if c.Server.BodyLimit < 0 || c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		errs = append(errs, errors.New("server limits must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SieveOptions builds the sieve parameters, merging stoplist_file into the
// inline stoplist. A .json stoplist_file holds an array of words; any other
// file holds one word per line.
func (c *Config) SieveOptions() (coref.SieveOptions, error) {
	set := stopwords.New(c.Pipeline.Stoplist...)
	if path := c.Pipeline.StoplistFile; path != "" {
		if err := readStoplist(set, path); err != nil {
			return coref.SieveOptions{}, err
		}
	}
	return coref.SieveOptions{Stoplist: set, PronounWindow: c.Pipeline.PronounWindow}, nil
}

func readStoplist(set *stopwords.Set, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		words, err := LoadJSON[[]string](path)
		if err != nil {
			return fmt.Errorf("stoplist: %w", err)
		}
		for _, w := range *words {
			set.Add(w)
		}
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("stoplist: %w", err)
	}
	defer f.Close()
	if err := set.Read(f); err != nil {
		return fmt.Errorf("stoplist %s: %w", path, err)
	}
	return nil
}

// Sieves builds the configured sieve list.
func (c *Config) Sieves() ([]coref.Sieve, error) {
	opts, err := c.SieveOptions()
	if err != nil {
		return nil, err
	}
	return coref.BuildSieves(c.Pipeline.Sieves, opts)
}

// LoadJSON decodes a JSON file into a fresh T.
func LoadJSON[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}
