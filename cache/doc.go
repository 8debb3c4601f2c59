// Package cache provides a TTL-bounded in-memory store handed to analysis
// units at construction time. There is no global cache instance; every
// consumer receives its handle explicitly.
package cache
