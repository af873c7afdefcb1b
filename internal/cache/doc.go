// Package cache provides the generic key/value cache shared by the
// compatibility classifier and the transformation executor.
//
// Features:
//   - LRU eviction when MaxSize is reached (least recently accessed first)
//   - per-cache and per-entry TTL, checked on read and by a background sweep
//   - hit/miss/eviction counters and a rolling average of read latency
//   - optional persistence of the whole cache to a DurableStore
//     (MemoryStore, FileStore, SQLiteStore)
//
// The cache is an optimization, never a source of truth: storage and
// encoding failures are logged and the cache carries on empty.
package cache
