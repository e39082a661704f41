// Package queries binds the backend to the query cache: each operation names
// its cache key, its fetch or write, and the cache entries it refreshes.
package queries
