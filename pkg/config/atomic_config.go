package config

import "sync/atomic"

// AtomicCache is a hot-reloadable view over Cache: every section lives
// behind its own atomic.Pointer so a config reload can swap sections in
// without readers ever observing a torn read across fields.
type AtomicCache struct {
	env      atomic.Pointer[string]
	enabled  atomic.Bool
	api      atomic.Pointer[Api]
	shards   atomic.Pointer[Shards]
	eviction atomic.Pointer[Eviction]
	refresh  atomic.Pointer[Refresh]
	storage  atomic.Pointer[Storage]
	logs     atomic.Pointer[Logs]
	k8s      atomic.Pointer[K8S]
	metrics  atomic.Pointer[Metrics]
	forceGC  atomic.Pointer[ForceGC]
	lifelock atomic.Pointer[Lifelock]
}

// NewAtomicCache snapshots cfg into an AtomicCache.
func NewAtomicCache(cfg *Cache) *AtomicCache {
	a := &AtomicCache{}
	a.Store(cfg)
	return a
}

// Store atomically replaces every section with cfg's values. Safe to call
// concurrently with any of the getters below.
func (a *AtomicCache) Store(cfg *Cache) {
	env := cfg.Cache.Env
	a.env.Store(&env)
	a.enabled.Store(cfg.Cache.Enabled)
	api := cfg.Cache.Api
	a.api.Store(&api)
	shards := cfg.Cache.Shards
	a.shards.Store(&shards)
	eviction := cfg.Cache.Eviction
	a.eviction.Store(&eviction)
	refresh := cfg.Cache.Refresh
	a.refresh.Store(&refresh)
	storage := cfg.Cache.Storage
	a.storage.Store(&storage)
	logs := cfg.Cache.Logs
	a.logs.Store(&logs)
	k8s := cfg.Cache.K8S
	a.k8s.Store(&k8s)
	metrics := cfg.Cache.Metrics
	a.metrics.Store(&metrics)
	forceGC := cfg.Cache.ForceGC
	a.forceGC.Store(&forceGC)
	lifelock := cfg.Cache.Lifelock
	a.lifelock.Store(&lifelock)
}

func (a *AtomicCache) IsProd() bool { return *a.env.Load() == Prod }
func (a *AtomicCache) IsDev() bool  { return *a.env.Load() == Dev }
func (a *AtomicCache) IsTest() bool { return *a.env.Load() == Test }

func (a *AtomicCache) IsEnabled() bool   { return a.enabled.Load() }
func (a *AtomicCache) SetEnabled(v bool) { a.enabled.Store(v) }

func (a *AtomicCache) Api() *Api           { return a.api.Load() }
func (a *AtomicCache) Shards() *Shards     { return a.shards.Load() }
func (a *AtomicCache) Eviction() *Eviction { return a.eviction.Load() }
func (a *AtomicCache) Refresh() *Refresh   { return a.refresh.Load() }
func (a *AtomicCache) Storage() *Storage   { return a.storage.Load() }
func (a *AtomicCache) Logs() *Logs         { return a.logs.Load() }
func (a *AtomicCache) K8S() *K8S           { return a.k8s.Load() }
func (a *AtomicCache) Metrics() *Metrics   { return a.metrics.Load() }
func (a *AtomicCache) ForceGC() *ForceGC   { return a.forceGC.Load() }
func (a *AtomicCache) Lifelock() *Lifelock { return a.lifelock.Load() }
