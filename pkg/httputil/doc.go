// Package httputil provides the HTTP infrastructure shared by everything
// in PomTree that talks to a Maven repository.
//
// # Caching
//
// [Cache] stores responses as JSON files under ~/.cache/pomtree/ with a
// configurable TTL, keyed by SHA-256 of the cache key. Repeated
// resolutions of the same artifacts then cost no network round trips.
// Keys should be namespaced per concern ([Cache.Namespace]) to avoid
// collisions.
//
// # Retry
//
// [Policy.Do] re-attempts POM fetches that failed transiently (network
// errors, 5xx responses from a repository) with doubling backoff. Only
// errors marked with [Transient] are retried; a 404 or a decode failure
// returns immediately so the downloader can move on to the next
// repository in the effective order.
package httputil
