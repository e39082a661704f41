// Package storage declares persistence interfaces for web-owned client data.
//
// Two kinds of rows live here: UI preferences, which are the durable subset of
// a browser client's UI state, and query cache snapshots, which are derived
// data that can always be refetched from the backend.
package storage
