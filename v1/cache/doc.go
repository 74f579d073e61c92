// Package cache provides concurrency-safe bounded caches for go-lru. The
// in-memory cache serializes every call on one lock around an lru.Cache;
// ristretto-backed LFU and adaptive strategies are available through New.
package cache
