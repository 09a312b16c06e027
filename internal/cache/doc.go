// Package cache fetches remote JSON resources and keeps them for a
// caller-supplied freshness window.
//
// A Cache sits in front of a Fetcher (the network leg) and a Store (where
// entries live). Lookups that find a fresh entry never touch the network.
// Concurrent lookups for the same URL share a single in-flight fetch, so N
// callers asking for a cold URL produce exactly one request and all observe
// the same *Entry.
//
// Entries are never evicted. The key space is one spec map plus one dataset
// per specification, so the process-lifetime MemoryStore stays small. Use
// SQLiteStore to keep entries across runs.
package cache
