// Package config loads the on-disk configuration document for the widget
// cache service and layers environment-variable overrides on top of it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	Prod = "prod"
	Dev  = "dev"
	Test = "test"

	envPrefix = "LIFELOCK"
)

// Cache is the root configuration document, matching lifelockd.cfg.yaml's
// top-level "cache" key.
type Cache struct {
	Cache CacheBox `yaml:"cache"`
}

type CacheBox struct {
	Env      string   `yaml:"env"`
	Enabled  bool     `yaml:"enabled"`
	Api      Api      `yaml:"api"`
	Shards   Shards   `yaml:"shards"`
	Eviction Eviction `yaml:"eviction"`
	Refresh  Refresh  `yaml:"refresh"`
	Storage  Storage  `yaml:"storage"`
	Logs     Logs     `yaml:"logs"`
	K8S      K8S      `yaml:"k8s"`
	Metrics  Metrics  `yaml:"metrics"`
	ForceGC  ForceGC  `yaml:"force_gc"`
	Lifelock Lifelock `yaml:"lifelock"`
}

type Api struct {
	Name      string    `yaml:"name"`
	Port      string    `yaml:"port"`
	RateLimit RateLimit `yaml:"rate_limit"`
}

type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type Shards struct {
	Count       int `yaml:"count"`
	Preallocate int `yaml:"preallocate_per_shard"`
}

type Eviction struct {
	Policy    string  `yaml:"policy"`    // "ristretto" is the only policy this port wires up
	Threshold float64 `yaml:"threshold"` // loaded but not read by the cache; ristretto evicts at Storage.MaxCost
}

type Refresh struct {
	TTL      time.Duration `yaml:"ttl"`
	ErrorTTL time.Duration `yaml:"error_ttl"`
	Beta     float64       `yaml:"beta"`
	MinStale time.Duration `yaml:"min_stale"` // computed: TTL * Beta
}

type Storage struct {
	MaxEntries int64 `yaml:"max_entries"`
	MaxCost    int64 `yaml:"max_cost"`
}

type Logs struct {
	Level string `yaml:"level"`
}

type K8S struct {
	Probe Probe `yaml:"probe"`
}

type Probe struct {
	Interval time.Duration `yaml:"interval"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"`
}

type ForceGC struct {
	GCInterval        time.Duration `yaml:"gc_interval"`
	FreeOsMemInterval time.Duration `yaml:"free_os_mem_interval"`
}

// Lifelock carries the runtime knobs spec.md §6 describes as compile-time
// flags, loaded from the same config document as the rest of the service.
// The widget cache does not pass them on: its cells are built with
// lifelock.DefaultConfig regardless of this section.
type Lifelock struct {
	Compressed          bool  `yaml:"compressed"`
	UseNativeWait       bool  `yaml:"use_native_wait"`
	SpinCount           int   `yaml:"spin_count"`
	SleepMaxUsecLog2    int   `yaml:"sleep_max_usec_log2"`
	SlowWaitThresholdMs int64 `yaml:"slow_wait_threshold_ms"`
}

// Config is the read surface *AtomicCache exposes to the rest of the
// service. Components depend on this interface rather than *AtomicCache
// directly so they can be tested against a fake.
type Config interface {
	Api() *Api
	Shards() *Shards
	Eviction() *Eviction
	Refresh() *Refresh
	Storage() *Storage
	Logs() *Logs
	K8S() *K8S
	Metrics() *Metrics
	ForceGC() *ForceGC
	Lifelock() *Lifelock
	IsEnabled() bool
}

// LoadConfig reads the yaml document at path, then applies any matching
// LIFELOCK_* environment variable overrides via viper before returning.
func LoadConfig(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg Cache
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	cfg.Cache.Refresh.MinStale = time.Duration(float64(cfg.Cache.Refresh.TTL) * cfg.Cache.Refresh.Beta)

	return &cfg, nil
}

// applyEnvOverrides layers LIFELOCK_* environment variables on top of the
// yaml-sourced values for the handful of knobs worth overriding without a
// redeploy (env, listen ports, log level, shard count). viper.AutomaticEnv does the
// lookup; we apply each override explicitly rather than viper.Unmarshal
// the whole struct, since CacheBox's yaml tags don't line up with viper's
// default mapstructure tag matching.
func applyEnvOverrides(cfg *Cache) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if env := v.GetString("env"); env != "" {
		cfg.Cache.Env = env
	}
	if port := v.GetString("api_port"); port != "" {
		cfg.Cache.Api.Port = port
	}
	if port := v.GetString("metrics_port"); port != "" {
		cfg.Cache.Metrics.Port = port
	}
	if lvl := v.GetString("log_level"); lvl != "" {
		cfg.Cache.Logs.Level = lvl
	}
	if raw := v.GetString("shards_count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			cfg.Cache.Shards.Count = n
		}
	}
}
