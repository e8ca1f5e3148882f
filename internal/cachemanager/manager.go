// Package cachemanager provides a small generic cache with a read-through
// wrapper, backed by go-cache.
package cachemanager

import "time"

type CacheManager[K ~string, V any] interface {
	Get(key K) (V, bool)
	GetWithRefresh(key K, ttl time.Duration) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(keys ...K)
	Flush()
}
